package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("submission.start", map[string]any{"tool": "fix", "attempt": 1})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["msg"] != "submission.start" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "INFO" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["tool"] != "fix" {
		t.Fatalf("unexpected tool: %v", payload["tool"])
	}
}

func TestErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("http.error", nil)
	Warn("slow", map[string]any{})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"level":"ERROR"`) {
		t.Fatalf("expected error level, got %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"WARN"`) {
		t.Fatalf("expected warn level, got %s", lines[1])
	}
}
