package webhook

import (
	"encoding/json"
	"strings"
)

// ResultKind classifies a webhook response body.
type ResultKind string

const (
	// ResultEmpty is an empty or whitespace-only body.
	ResultEmpty ResultKind = "empty"
	// ResultLink is a JSON object carrying the tool's download field.
	ResultLink ResultKind = "link"
	// ResultPending is any other body. The tool accepted the work but no link exists yet.
	ResultPending ResultKind = "pending"
)

// PendingReason says why a non-empty body produced no link.
type PendingReason string

const (
	ReasonNone          PendingReason = ""
	ReasonMissingField  PendingReason = "missing-field"
	ReasonMalformedJSON PendingReason = "malformed-json"
	ReasonPlainText     PendingReason = "plain-text"
)

// Result is the tagged outcome of parsing a webhook response.
type Result struct {
	Kind   ResultKind
	URL    string
	Reason PendingReason
}

// Parse normalises a 2xx response body. The download URL is returned verbatim.
func Parse(body []byte, field string) Result {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return Result{Kind: ResultEmpty}
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return Result{Kind: ResultPending, Reason: ReasonPlainText}
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return Result{Kind: ResultPending, Reason: ReasonMalformedJSON}
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return Result{Kind: ResultPending, Reason: ReasonMissingField}
	}
	link, _ := obj[field].(string)
	if link == "" {
		return Result{Kind: ResultPending, Reason: ReasonMissingField}
	}
	return Result{Kind: ResultLink, URL: link}
}
