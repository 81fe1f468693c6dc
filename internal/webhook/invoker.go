package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freeresumetools/internal/shared/metrics"
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FailureError is a non-2xx webhook response.
type FailureError struct {
	StatusCode int
	Body       string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("Webhook failed: %d %s", e.StatusCode, e.Body)
}

// Invoker posts processing payloads to tool webhooks.
type Invoker struct {
	Client Doer
}

// NewInvoker builds an invoker on an http.Client. A zero timeout means none.
func NewInvoker(timeout time.Duration) *Invoker {
	return &Invoker{Client: &http.Client{Timeout: timeout}}
}

// Invoke sends exactly one POST and parses the reply. Transport failures and
// non-2xx statuses are errors; everything else is a Result.
func (i *Invoker) Invoke(ctx context.Context, url string, payload Payload, field string) (Result, error) {
	if strings.TrimSpace(url) == "" {
		return Result{}, errors.New("webhook url is required")
	}
	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	metrics.ObserveWebhookDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return Result{}, fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &FailureError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return Parse(respBody, field), nil
}
