package tools

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freeresumetools/internal/outcome"
	"freeresumetools/internal/shared/server/middleware"
	"freeresumetools/internal/shared/server/respond"
	"freeresumetools/internal/uploads"
)

const (
	fileField           = "resume"
	jobDescriptionField = "jobDescription"
)

// Handler wires HTTP handlers to the tools service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. maxUploadBytes <= 0 disables the size cap.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches tool routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tools", h.listTools)
	rg.POST("/tools/:tool/submissions", h.submit)
	rg.GET("/tools/:tool/state", h.state)
	rg.DELETE("/tools/:tool/state", h.reset)
	rg.POST("/tools/:tool/email-link", h.emailLink)
}

type toolView struct {
	Tool
	Configured bool `json:"configured"`
}

func (h *Handler) listTools(c *gin.Context) {
	list := h.Svc.Registry.List()
	resp := make([]toolView, 0, len(list))
	for _, t := range list {
		resp = append(resp, toolView{Tool: t, Configured: h.Svc.Registry.CheckConfigured(t) == nil})
	}
	respond.OK(c, resp)
}

func (h *Handler) submit(c *gin.Context) {
	toolName := c.Param("tool")
	middleware.SetTool(c, toolName)

	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds max upload size", nil)
			return
		}
		if _, lookupErr := h.Svc.Registry.Get(toolName); lookupErr != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", []map[string]string{
			{"field": fileField, "issue": "required"},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resume file", nil)
		return
	}
	defer file.Close()

	out, err := h.Svc.Submit(c.Request.Context(), middleware.ClientIDFromContext(c), toolName, SubmitRequest{
		FileName:       fileHeader.Filename,
		Body:           file,
		JobDescription: c.PostForm(jobDescriptionField),
	})
	if out.ProcessingID != "" {
		middleware.SetProcessingID(c, out.ProcessingID)
	}
	if err != nil {
		writeSubmitError(c, err)
		return
	}
	respond.OK(c, out)
}

func writeSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrToolNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, uploads.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, outcome.ErrInFlight):
		respond.Error(c, http.StatusConflict, "in_flight", "a submission is already in progress", nil)
	case errors.Is(err, ErrToolNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "this tool is not available right now", nil)
	default:
		respond.Error(c, http.StatusBadGateway, "processing_failed", err.Error(), nil)
	}
}

func (h *Handler) state(c *gin.Context) {
	toolName := c.Param("tool")
	middleware.SetTool(c, toolName)

	snap, err := h.Svc.State(middleware.ClientIDFromContext(c), toolName)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
		return
	}
	respond.OK(c, snap)
}

func (h *Handler) reset(c *gin.Context) {
	toolName := c.Param("tool")
	middleware.SetTool(c, toolName)

	err := h.Svc.Reset(middleware.ClientIDFromContext(c), toolName)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, ErrToolNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
	case errors.Is(err, outcome.ErrInFlight):
		respond.Error(c, http.StatusConflict, "in_flight", "a submission is already in progress", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset", nil)
	}
}

type emailLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) emailLink(c *gin.Context) {
	toolName := c.Param("tool")
	middleware.SetTool(c, toolName)

	var req emailLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please enter a valid email address.", []map[string]string{
			{"field": "email", "issue": "invalid"},
		})
		return
	}

	link, err := h.Svc.EmailLink(middleware.ClientIDFromContext(c), toolName, req.Email)
	switch {
	case err == nil:
		respond.OK(c, gin.H{"mailto": link})
	case errors.Is(err, ErrToolNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
	case errors.Is(err, ErrNoResult):
		respond.Error(c, http.StatusConflict, "not_ready", "Resume is still being processed. Please wait for completion.", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build email link", nil)
	}
}
