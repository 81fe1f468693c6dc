package outcome

import (
	"sync"
	"time"
)

// DefaultIdleTTL is how long a machine that is not submitting is kept after
// its last change.
const DefaultIdleTTL = 30 * time.Minute

type key struct {
	client string
	tool   string
}

// Tracker holds one Machine per client and tool. Machines that are not
// submitting expire IdleTTL after their last change.
type Tracker struct {
	mu        sync.Mutex
	machines  map[key]*Machine
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewTracker() *Tracker {
	return NewTrackerWithTTL(DefaultIdleTTL, nil)
}

// NewTrackerWithTTL builds a tracker with a custom expiry and clock.
// A non-positive ttl disables expiry.
func NewTrackerWithTTL(ttl time.Duration, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		machines:  make(map[key]*Machine),
		idleTTL:   ttl,
		now:       now,
		lastSweep: now(),
	}
}

// Machine returns the machine for (clientID, tool), creating it idle.
func (t *Tracker) Machine(clientID, tool string) *Machine {
	k := key{client: clientID, tool: tool}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweepLocked()
	m, ok := t.machines[k]
	if !ok {
		m = &Machine{state: StateIdle, now: t.now}
		m.updated = t.now()
		t.machines[k] = m
	}
	return m
}

// Peek returns the snapshot without creating a machine.
func (t *Tracker) Peek(clientID, tool string) Snapshot {
	t.mu.Lock()
	t.sweepLocked()
	m, ok := t.machines[key{client: clientID, tool: tool}]
	t.mu.Unlock()
	if !ok {
		return Snapshot{State: StateIdle}
	}
	return m.Snapshot()
}

// Len reports how many machines are held.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.machines)
}

// sweepLocked drops expired machines at most once per half TTL.
func (t *Tracker) sweepLocked() {
	if t.idleTTL <= 0 {
		return
	}
	now := t.now()
	if now.Sub(t.lastSweep) < t.idleTTL/2 {
		return
	}
	t.lastSweep = now
	for k, m := range t.machines {
		snap := m.Snapshot()
		if snap.State != StateSubmitting && now.Sub(snap.UpdatedAt) >= t.idleTTL {
			delete(t.machines, k)
		}
	}
}
