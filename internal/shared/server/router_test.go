package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"freeresumetools/internal/checkout"
	"freeresumetools/internal/services/health"
	"freeresumetools/internal/shared/config"
)

type stubProvider struct{}

func (stubProvider) CreateSession(ctx context.Context, req checkout.SessionRequest) (checkout.Session, error) {
	return checkout.Session{URL: "https://pay.example/s", ID: "cs_1"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterDeps{
		Config:          config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		CheckoutHandler: checkout.NewHandler(checkout.NewService(stubProvider{})),
		Health:          health.NewService(map[string]health.Check{"store": func() bool { return true }}),
		LocalFilesDir:   t.TempDir(),
	})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}
}

func TestCheckoutPreflightBypassesAPICORS(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, checkout.Route, nil)
	req.Header.Set("Origin", "https://freeresumetools.io")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
}

func TestCheckoutRouteCreatesSession(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, checkout.Route, strings.NewReader(`{"amount":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"sessionId":"cs_1"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCheckoutRateLimitKeepsCORSHeaders(t *testing.T) {
	r := newTestRouter(t)

	var resp *httptest.ResponseRecorder
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, checkout.Route, strings.NewReader(`{"amount":5}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Id", "donor-"+strconv.Itoa(i))
		resp = httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code == http.StatusTooManyRequests {
			break
		}
	}

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected checkout to be rate limited, last status %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin on 429, got %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected allow methods on 429 %q", got)
	}
}

func TestMetricsRoute(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "webhook_duration_ms") {
		t.Fatalf("expected histogram in output")
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
