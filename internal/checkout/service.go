package checkout

import (
	"context"
	"errors"
	"math"

	"freeresumetools/internal/shared/metrics"
	"freeresumetools/internal/shared/telemetry"
)

// MinimumAmount is the smallest donation in major currency units.
const MinimumAmount = 1.0

var ErrInvalidAmount = errors.New("invalid amount")

const (
	invalidAmountMessage    = "Invalid amount. Minimum is $1."
	fallbackProviderMessage = "Failed to create checkout session"
)

// SessionRequest is what the provider needs to open a hosted checkout page.
type SessionRequest struct {
	AmountMinor int64
}

// Session is a created checkout session.
type Session struct {
	URL string `json:"url"`
	ID  string `json:"sessionId"`
}

// Provider opens hosted checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
}

// ProviderError wraps a payment provider failure.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return fallbackProviderMessage
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Service validates donation amounts and creates sessions.
type Service struct {
	Provider Provider
}

func NewService(p Provider) *Service {
	return &Service{Provider: p}
}

// Create opens a checkout session for amount major units. A nil amount is missing.
func (s *Service) Create(ctx context.Context, amount *float64) (Session, error) {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount < MinimumAmount {
		return Session{}, ErrInvalidAmount
	}
	if s.Provider == nil {
		metrics.IncCheckoutFailed()
		return Session{}, &ProviderError{}
	}

	req := SessionRequest{AmountMinor: ToMinorUnits(*amount)}
	sess, err := s.Provider.CreateSession(ctx, req)
	if err != nil {
		metrics.IncCheckoutFailed()
		telemetry.Error("checkout.session.failed", map[string]any{
			"amount_minor": req.AmountMinor,
			"error":        err.Error(),
		})
		return Session{}, &ProviderError{Err: err}
	}

	metrics.IncCheckoutCreated()
	telemetry.Info("checkout.session.created", map[string]any{
		"amount_minor": req.AmountMinor,
		"session_id":   sess.ID,
	})
	return sess, nil
}

// ToMinorUnits converts 12.34 to 1234, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
