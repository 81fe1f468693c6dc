package checkout

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the public checkout endpoint.
const Route = "/create-donation-checkout"

// Handler serves the checkout endpoint. It answers every method itself so
// the CORS headers are always present.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the checkout route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.Any(Route, h.Serve)
}

type createRequest struct {
	Amount *float64 `json:"amount"`
}

// CORS sets the checkout CORS headers. Mount it ahead of anything that can
// answer for the endpoint, such as a rate limiter.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCORSHeaders(c.Writer.Header())
		c.Next()
	}
}

func setCORSHeaders(hdr http.Header) {
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("Access-Control-Allow-Headers", "Content-Type")
	hdr.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// Serve handles one checkout request.
func (h *Handler) Serve(c *gin.Context) {
	setCORSHeaders(c.Writer.Header())

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidAmountMessage})
		return
	}

	sess, err := h.Svc.Create(c.Request.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidAmountMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess)
}
