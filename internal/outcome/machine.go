package outcome

import (
	"errors"
	"sync"
	"time"
)

// ErrInFlight is returned while a submission is still running.
var ErrInFlight = errors.New("submission already in progress")

// State is a position in the submission lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateReady      State = "ready-with-link"
	StateAccepted   State = "accepted-processing"
	StateError      State = "error"
)

// Terminal reports whether s ends a submission.
func (s State) Terminal() bool {
	return s == StateReady || s == StateAccepted || s == StateError
}

// Outcome is what the user sees after a submission.
type Outcome struct {
	Kind         State  `json:"kind"`
	Message      string `json:"message,omitempty"`
	ResultURL    string `json:"resultUrl,omitempty"`
	ProcessingID string `json:"processingId,omitempty"`
}

// Ready builds a ready-with-link outcome.
func Ready(message, url string) Outcome {
	return Outcome{Kind: StateReady, Message: message, ResultURL: url}
}

// Accepted builds an accepted-processing outcome.
func Accepted(message string) Outcome {
	return Outcome{Kind: StateAccepted, Message: message}
}

// Failed builds an error outcome.
func Failed(message string) Outcome {
	return Outcome{Kind: StateError, Message: message}
}

// Snapshot is a point-in-time copy of a Machine.
type Snapshot struct {
	State     State     `json:"state"`
	Outcome   *Outcome  `json:"outcome,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Machine tracks one form: idle -> submitting -> terminal -> idle.
type Machine struct {
	mu      sync.Mutex
	state   State
	outcome *Outcome
	updated time.Time
	now     func() time.Time
}

// NewMachine returns an idle machine.
func NewMachine() *Machine {
	m := &Machine{state: StateIdle, now: time.Now}
	m.updated = m.now()
	return m
}

// Begin moves to submitting. Any previous outcome is cleared.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateSubmitting {
		return ErrInFlight
	}
	m.state = StateSubmitting
	m.outcome = nil
	m.updated = m.now()
	return nil
}

// Finish records the terminal outcome of the running submission.
func (m *Machine) Finish(o Outcome) {
	if !o.Kind.Terminal() {
		o.Kind = StateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = o.Kind
	m.outcome = &o
	m.updated = m.now()
}

// Fail records err as the outcome.
func (m *Machine) Fail(err error) {
	msg := "Submission failed"
	if err != nil {
		msg = err.Error()
	}
	m.Finish(Failed(msg))
}

// Reset returns to idle. It cannot cancel a running submission.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateSubmitting {
		return ErrInFlight
	}
	m.state = StateIdle
	m.outcome = nil
	m.updated = m.now()
	return nil
}

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{State: m.state, UpdatedAt: m.updated}
	if m.outcome != nil {
		o := *m.outcome
		snap.Outcome = &o
	}
	return snap
}
