package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout matches ECMAScript Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

const suffixLen = 9

// Payload is the JSON document posted to a processing webhook.
type Payload struct {
	ProcessingID   string `json:"processingId"`
	ResumeName     string `json:"resumeName"`
	ResumeURL      string `json:"resumeUrl"`
	JobDescription string `json:"jobDescription,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// NewPayload fills in the processing id and timestamp for a submission.
func NewPayload(prefix, resumeName, resumeURL, jobDescription string, now time.Time) Payload {
	return Payload{
		ProcessingID:   NewProcessingID(prefix, now),
		ResumeName:     resumeName,
		ResumeURL:      resumeURL,
		JobDescription: jobDescription,
		Timestamp:      FormatTimestamp(now),
	}
}

// NewProcessingID returns "<prefix>_<unix millis>_<9 char suffix>".
func NewProcessingID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
