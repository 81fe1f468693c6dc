package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"freeresumetools/internal/outcome"
	"freeresumetools/internal/webhook"
)

var (
	ErrToolNotFound      = errors.New("tool not found")
	ErrToolNotConfigured = errors.New("tool not configured")
)

const (
	Tailoring = "tailoring"
	JobMatch  = "job-match"
	Fix       = "fix"
)

// Messages is the copy shown for each way a submission can end well.
type Messages struct {
	Ready         string
	MissingField  string
	MalformedJSON string
	PlainText     string
	Empty         string
}

// EmailTemplate builds the mailto link for a finished result. "{url}" in
// Body is replaced with the result link.
type EmailTemplate struct {
	Subject string
	Body    string
}

// Tool describes one upload-process-retrieve flow.
type Tool struct {
	Name                   string `json:"name" validate:"required"`
	Dir                    string `json:"-" validate:"required"`
	IDPrefix               string `json:"-" validate:"required"`
	ResultField            string `json:"resultField" validate:"required"`
	RequiresJobDescription bool   `json:"requiresJobDescription"`
	WebhookURL             string `json:"-" validate:"required,url"`

	Messages Messages      `json:"-"`
	Email    EmailTemplate `json:"-"`
}

// WebhookURLs holds the per-tool processing endpoints.
type WebhookURLs struct {
	Tailoring string
	JobMatch  string
	Fix       string
}

// Definitions returns the three tools with their webhook endpoints.
func Definitions(urls WebhookURLs) []Tool {
	return []Tool{
		{
			Name:                   Tailoring,
			Dir:                    "resumes",
			IDPrefix:               "proc",
			ResultField:            "documentUrl",
			RequiresJobDescription: true,
			WebhookURL:             urls.Tailoring,
			Messages: Messages{
				Ready:         "Your tailored resume is ready for download!",
				MissingField:  "Resume tailoring request processed! The optimized resume will be available shortly.",
				MalformedJSON: "Resume tailoring request sent! Your resume is being processed.",
				PlainText:     "Resume tailoring request accepted! Your resume is being processed. Please check back in a few minutes.",
				Empty:         "Resume tailoring request successfully sent! Your resume is being processed.",
			},
			Email: EmailTemplate{
				Subject: "Your Optimized Resume is Ready!",
				Body:    "Hello!\n\nYour optimized resume has been tailored for the job description you provided, with improved keyword matching and ATS compatibility.\n\nHere's your optimized resume: {url}\n\nBest of luck with your job application!\nThe FreeResumeTools Team",
			},
		},
		{
			Name:                   JobMatch,
			Dir:                    "matches",
			IDPrefix:               "match",
			ResultField:            "matchDownloadUrl",
			RequiresJobDescription: true,
			WebhookURL:             urls.JobMatch,
			Messages: Messages{
				Ready:         "Download your job match report now.\n\nIf this tool helped, a quick review helps keep FreeResumeTools free for the next job seeker (optional).",
				MissingField:  "Job match analysis started! Your report will be available shortly.",
				MalformedJSON: "Job match analysis request sent! Your report is being processed.",
				PlainText:     "Job match analysis request accepted! Your report is being processed.",
				Empty:         "Job match analysis request sent! Your report is being processed.",
			},
			Email: EmailTemplate{
				Subject: "Your Job Match Report is Ready!",
				Body:    "Hello!\n\nYour job match report compares your resume against the job description you provided.\n\nHere's your report: {url}\n\nBest of luck with your job application!\nThe FreeResumeTools Team",
			},
		},
		{
			Name:        Fix,
			Dir:         "fixes",
			IDPrefix:    "fix",
			ResultField: "fixDownloadUrl",
			WebhookURL:  urls.Fix,
			Messages: Messages{
				Ready:         "Enjoyed using this tool?\nLeave a quick review to help us keep it free!",
				MissingField:  "Resume analysis request accepted! Your report is being processed.",
				MalformedJSON: "Resume analysis request accepted! Your report is being processed.",
				PlainText:     "Resume analysis request accepted! Your report is being processed.",
				Empty:         "Resume analysis request accepted! Your report is being processed.",
			},
			Email: EmailTemplate{
				Subject: "Your Resume Analysis is Ready!",
				Body:    "Hello!\n\nYour resume analysis report is ready.\n\nHere's your report: {url}\n\nBest of luck with your job search!\nThe FreeResumeTools Team",
			},
		},
	}
}

// Normalize turns a parsed webhook reply into the user-facing outcome.
func (t Tool) Normalize(res webhook.Result) outcome.Outcome {
	switch res.Kind {
	case webhook.ResultLink:
		return outcome.Ready(t.Messages.Ready, res.URL)
	case webhook.ResultEmpty:
		return outcome.Accepted(t.Messages.Empty)
	}
	switch res.Reason {
	case webhook.ReasonMalformedJSON:
		return outcome.Accepted(t.Messages.MalformedJSON)
	case webhook.ReasonPlainText:
		return outcome.Accepted(t.Messages.PlainText)
	default:
		return outcome.Accepted(t.Messages.MissingField)
	}
}

// Registry is the fixed catalogue of tools.
type Registry struct {
	order    []string
	tools    map[string]Tool
	validate *validator.Validate
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools:    make(map[string]Tool, len(tools)),
		validate: validator.New(),
	}
	for _, t := range tools {
		if _, dup := r.tools[t.Name]; !dup {
			r.order = append(r.order, t.Name)
		}
		r.tools[t.Name] = t
	}
	return r
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[strings.TrimSpace(name)]
	if !ok {
		return Tool{}, ErrToolNotFound
	}
	return t, nil
}

// List returns the tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// CheckConfigured reports ErrToolNotConfigured when the tool cannot be invoked.
func (r *Registry) CheckConfigured(t Tool) error {
	if err := r.validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrToolNotConfigured, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrToolNotConfigured, err)
	}
	return nil
}
