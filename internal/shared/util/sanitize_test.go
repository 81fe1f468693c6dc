package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "My Resume.pdf", want: "My Resume.pdf"},
		{name: "trims", in: "  cv.docx ", want: "cv.docx"},
		{name: "slashes", in: "../etc/passwd", want: ".._etc_passwd"},
		{name: "backslashes", in: `a\b.doc`, want: "a_b.doc"},
		{name: "double dots kept", in: "resume..final.pdf", want: "resume..final.pdf"},
		{name: "empty", in: "   ", wantErr: true},
		{name: "dot dot", in: "..", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
