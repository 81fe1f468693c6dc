package outcome

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineLifecycle(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, StateIdle, m.Snapshot().State)

	require.NoError(t, m.Begin())
	assert.Equal(t, StateSubmitting, m.Snapshot().State)

	m.Finish(Ready("Your tailored resume is ready for download!", "https://x/y.pdf"))
	snap := m.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Outcome)
	assert.Equal(t, "https://x/y.pdf", snap.Outcome.ResultURL)

	require.NoError(t, m.Reset())
	snap = m.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Outcome)
}

func TestMachineRejectsSecondSubmission(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin())
	assert.ErrorIs(t, m.Begin(), ErrInFlight)
	assert.ErrorIs(t, m.Reset(), ErrInFlight)

	m.Fail(errors.New("Webhook failed: 500 boom"))
	snap := m.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "Webhook failed: 500 boom", snap.Outcome.Message)

	require.NoError(t, m.Begin())
	assert.Nil(t, m.Snapshot().Outcome)
}

func TestMachineFinishCoercesNonTerminal(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin())
	m.Finish(Outcome{Kind: StateSubmitting, Message: "x"})
	assert.Equal(t, StateError, m.Snapshot().State)
}

func TestMachineConcurrentBeginAdmitsOne(t *testing.T) {
	m := NewMachine()
	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Begin() == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), admitted.Load())
}

func TestTrackerIsolatesClientsAndTools(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Machine("a", "fix").Begin())

	assert.ErrorIs(t, tr.Machine("a", "fix").Begin(), ErrInFlight)
	assert.NoError(t, tr.Machine("a", "tailoring").Begin())
	assert.NoError(t, tr.Machine("b", "fix").Begin())

	assert.Equal(t, StateSubmitting, tr.Peek("a", "fix").State)
	assert.Equal(t, StateIdle, tr.Peek("c", "fix").State)
}

func TestTrackerExpiresIdleMachines(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTrackerWithTTL(time.Minute, func() time.Time { return now })

	require.NoError(t, tr.Machine("busy", "fix").Begin())
	for i := 0; i < 50; i++ {
		tr.Machine("rotating-"+strconv.Itoa(i), "fix").Finish(Accepted("queued"))
	}
	assert.Equal(t, 51, tr.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, StateIdle, tr.Peek("rotating-0", "fix").State)
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, StateSubmitting, tr.Peek("busy", "fix").State)
	assert.ErrorIs(t, tr.Machine("busy", "fix").Begin(), ErrInFlight)
}

func TestTrackerKeepsRecentOutcomes(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTrackerWithTTL(time.Minute, func() time.Time { return now })

	m := tr.Machine("a", "fix")
	require.NoError(t, m.Begin())
	now = now.Add(50 * time.Second)
	m.Finish(Ready("done", "https://x/y.pdf"))

	now = now.Add(40 * time.Second)
	assert.Equal(t, StateReady, tr.Peek("a", "fix").State)
}
