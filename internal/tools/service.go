package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"freeresumetools/internal/outcome"
	"freeresumetools/internal/shared/metrics"
	"freeresumetools/internal/shared/telemetry"
	"freeresumetools/internal/shared/util"
	"freeresumetools/internal/uploads"
	"freeresumetools/internal/webhook"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoResult     = errors.New("no result link available")
)

// Uploader stores a user file and resolves its public URL.
type Uploader interface {
	Upload(ctx context.Context, req uploads.UploadRequest) (uploads.StoredObjectReference, error)
}

// Invoker posts a processing payload to a tool webhook.
type Invoker interface {
	Invoke(ctx context.Context, url string, payload webhook.Payload, field string) (webhook.Result, error)
}

// SubmitRequest is one form submission.
type SubmitRequest struct {
	FileName       string
	Body           io.Reader
	JobDescription string
}

// Service runs the upload-process-retrieve flow for every tool.
type Service struct {
	Registry *Registry
	Uploads  Uploader
	Webhooks Invoker
	Tracker  *outcome.Tracker
	Now      func() time.Time
}

// NewService wires a Service.
func NewService(registry *Registry, up Uploader, inv Invoker, tracker *outcome.Tracker) *Service {
	return &Service{Registry: registry, Uploads: up, Webhooks: inv, Tracker: tracker, Now: time.Now}
}

// Submit uploads the file, invokes the tool webhook once and records the
// outcome for (clientID, tool). The webhook is not called if the upload fails.
// On failure the returned outcome carries whatever is known, with the error.
func (s *Service) Submit(ctx context.Context, clientID, toolName string, req SubmitRequest) (outcome.Outcome, error) {
	tool, err := s.Registry.Get(toolName)
	if err != nil {
		return outcome.Failed(err.Error()), err
	}
	if req.Body == nil || strings.TrimSpace(req.FileName) == "" {
		return outcome.Failed("Please select a resume file."), fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}
	if _, err := util.SanitizeFileName(req.FileName); err != nil {
		return outcome.Failed("Please select a resume file."), fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	jobDescription := strings.TrimSpace(req.JobDescription)
	if tool.RequiresJobDescription && jobDescription == "" {
		return outcome.Failed("Please paste the job description."), fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if !tool.RequiresJobDescription {
		jobDescription = ""
	}

	machine := s.Tracker.Machine(clientID, tool.Name)
	if err := machine.Begin(); err != nil {
		return outcome.Failed(err.Error()), err
	}
	metrics.IncSubmissionStarted(tool.Name)
	telemetry.Info("submission.start", map[string]any{
		"tool":      tool.Name,
		"client_id": clientID,
		"file_name": req.FileName,
	})

	out, err := s.run(ctx, tool, req, jobDescription)
	if err != nil {
		machine.Fail(err)
		metrics.IncSubmissionFailed(tool.Name)
		telemetry.Error("submission.failed", map[string]any{
			"tool":          tool.Name,
			"client_id":     clientID,
			"processing_id": out.ProcessingID,
			"error":         err.Error(),
		})
		failed := outcome.Failed(err.Error())
		failed.ProcessingID = out.ProcessingID
		return failed, err
	}

	machine.Finish(out)
	if out.Kind == outcome.StateReady {
		metrics.IncSubmissionReady(tool.Name)
	} else {
		metrics.IncSubmissionAccepted(tool.Name)
	}
	telemetry.Info("submission.outcome", map[string]any{
		"tool":          tool.Name,
		"client_id":     clientID,
		"processing_id": out.ProcessingID,
		"kind":          string(out.Kind),
	})
	return out, nil
}

func (s *Service) run(ctx context.Context, tool Tool, req SubmitRequest, jobDescription string) (outcome.Outcome, error) {
	if err := s.Registry.CheckConfigured(tool); err != nil {
		return outcome.Outcome{}, err
	}

	ref, err := s.Uploads.Upload(ctx, uploads.UploadRequest{
		FileName: req.FileName,
		Body:     req.Body,
		Dir:      tool.Dir,
	})
	if err != nil {
		return outcome.Outcome{}, err
	}
	telemetry.Info("submission.uploaded", map[string]any{
		"tool":         tool.Name,
		"path":         ref.Path,
		"size_bytes":   ref.SizeBytes,
		"content_type": ref.ContentType,
	})

	payload := webhook.NewPayload(tool.IDPrefix, req.FileName, ref.PublicURL, jobDescription, s.now())
	res, err := s.Webhooks.Invoke(ctx, tool.WebhookURL, payload, tool.ResultField)
	if err != nil {
		return outcome.Outcome{ProcessingID: payload.ProcessingID}, err
	}

	out := tool.Normalize(res)
	out.ProcessingID = payload.ProcessingID
	return out, nil
}

// Reset returns the caller's form for toolName to idle.
func (s *Service) Reset(clientID, toolName string) error {
	tool, err := s.Registry.Get(toolName)
	if err != nil {
		return err
	}
	return s.Tracker.Machine(clientID, tool.Name).Reset()
}

// State returns the caller's current state for toolName.
func (s *Service) State(clientID, toolName string) (outcome.Snapshot, error) {
	tool, err := s.Registry.Get(toolName)
	if err != nil {
		return outcome.Snapshot{}, err
	}
	return s.Tracker.Peek(clientID, tool.Name), nil
}

// EmailLink builds a mailto link sharing the caller's last result.
func (s *Service) EmailLink(clientID, toolName, email string) (string, error) {
	tool, err := s.Registry.Get(toolName)
	if err != nil {
		return "", err
	}
	snap := s.Tracker.Peek(clientID, tool.Name)
	if snap.State != outcome.StateReady || snap.Outcome == nil || snap.Outcome.ResultURL == "" {
		return "", ErrNoResult
	}
	return MailtoLink(email, tool.Email, snap.Outcome.ResultURL), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
