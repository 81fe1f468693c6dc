package tools

import (
	"net/url"
	"strings"
)

// MailtoLink builds "mailto:<email>?subject=...&body=..." with the result
// link substituted into the template body.
func MailtoLink(email string, tmpl EmailTemplate, resultURL string) string {
	body := strings.ReplaceAll(tmpl.Body, "{url}", resultURL)
	return "mailto:" + strings.TrimSpace(email) +
		"?subject=" + encodeComponent(tmpl.Subject) +
		"&body=" + encodeComponent(body)
}

// encodeComponent percent-encodes s with spaces as %20, as mail clients expect.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
