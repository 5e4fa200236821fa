package gateway

import (
	"fmt"
	"sync"
	"time"
)

// CallState is the state of a gateway call
type CallState int

const (
	StateIdle              CallState = iota // Envelope built, not yet sent
	StateSent                               // Request in flight
	StateSucceeded                          // Well-formed response without GovTalk errors
	StateTransportFailed                    // Connection, TLS, HTTP status or parse failure
	StateApplicationFailed                  // Response carried a GovTalk error
)

func (s CallState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSent:
		return "sent"
	case StateSucceeded:
		return "succeeded"
	case StateTransportFailed:
		return "transport-failed"
	case StateApplicationFailed:
		return "application-failed"
	default:
		return fmt.Sprintf("CallState(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible
func (s CallState) Terminal() bool {
	return s == StateSucceeded || s == StateTransportFailed || s == StateApplicationFailed
}

// TrackedCall records the progress of one call, keyed by transaction id
type TrackedCall struct {
	TransactionID int
	Class         string
	State         CallState
	StartedAt     time.Time
	SentAt        time.Time
	FinishedAt    time.Time
	StatusCode    int
	Err           error
}

// DefaultTrackerRetention is the number of finished calls kept by a tracker
const DefaultTrackerRetention = 256

// CallTracker records the state of gateway calls made by a Client. Calls in
// flight are always kept; finished calls are dropped oldest first once more
// than the retention limit have accumulated.
type CallTracker struct {
	mu        sync.RWMutex
	calls     map[int]*TrackedCall
	finished  []*TrackedCall
	retention int
}

// NewCallTracker creates an empty tracker with DefaultTrackerRetention
func NewCallTracker() *CallTracker {
	return NewCallTrackerWithRetention(DefaultTrackerRetention)
}

// NewCallTrackerWithRetention creates an empty tracker keeping at most
// retention finished calls. Values below 1 keep none.
func NewCallTrackerWithRetention(retention int) *CallTracker {
	if retention < 0 {
		retention = 0
	}
	return &CallTracker{
		calls:     make(map[int]*TrackedCall),
		retention: retention,
	}
}

// Track starts tracking a call in StateIdle, replacing any earlier record
// with the same transaction id
func (t *CallTracker) Track(txID int, class string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls[txID] = &TrackedCall{
		TransactionID: txID,
		Class:         class,
		State:         StateIdle,
		StartedAt:     time.Now(),
	}
}

// MarkSent moves a call from StateIdle to StateSent
func (t *CallTracker) MarkSent(txID int) error {
	return t.transition(txID, StateIdle, func(c *TrackedCall) {
		c.State = StateSent
		c.SentAt = time.Now()
	})
}

// RecordSuccess moves a sent call to StateSucceeded
func (t *CallTracker) RecordSuccess(txID int, statusCode int) error {
	return t.transition(txID, StateSent, func(c *TrackedCall) {
		c.State = StateSucceeded
		c.StatusCode = statusCode
		c.FinishedAt = time.Now()
	})
}

// RecordTransportFailure moves a sent call to StateTransportFailed
func (t *CallTracker) RecordTransportFailure(txID int, statusCode int, err error) error {
	return t.fail(txID, StateTransportFailed, statusCode, err)
}

// RecordApplicationFailure moves a sent call to StateApplicationFailed
func (t *CallTracker) RecordApplicationFailure(txID int, statusCode int, err error) error {
	return t.fail(txID, StateApplicationFailed, statusCode, err)
}

func (t *CallTracker) fail(txID int, state CallState, statusCode int, err error) error {
	return t.transition(txID, StateSent, func(c *TrackedCall) {
		c.State = state
		c.StatusCode = statusCode
		c.Err = err
		c.FinishedAt = time.Now()
	})
}

func (t *CallTracker) transition(txID int, from CallState, apply func(*TrackedCall)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	call, exists := t.calls[txID]
	if !exists {
		return fmt.Errorf("transaction %d not tracked", txID)
	}
	if call.State != from {
		return fmt.Errorf("transaction %d is %s, expected %s", txID, call.State, from)
	}

	apply(call)
	if call.State.Terminal() {
		t.finished = append(t.finished, call)
		t.evict()
	}
	return nil
}

// evict drops the oldest finished calls beyond the retention limit.
// Called with t.mu held.
func (t *CallTracker) evict() {
	for len(t.finished) > t.retention {
		oldest := t.finished[0]
		t.finished[0] = nil
		t.finished = t.finished[1:]
		// The id may have been reused by a newer call
		if t.calls[oldest.TransactionID] == oldest {
			delete(t.calls, oldest.TransactionID)
		}
	}
}

// Prune drops finished calls that completed before cutoff and returns the
// number removed
func (t *CallTracker) Prune(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	kept := t.finished[:0]
	for _, call := range t.finished {
		if call.FinishedAt.Before(cutoff) {
			if t.calls[call.TransactionID] == call {
				delete(t.calls, call.TransactionID)
				removed++
			}
			continue
		}
		kept = append(kept, call)
	}
	for i := len(kept); i < len(t.finished); i++ {
		t.finished[i] = nil
	}
	t.finished = kept
	return removed
}

// Get returns a copy of the tracked call
func (t *CallTracker) Get(txID int) (TrackedCall, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	call, exists := t.calls[txID]
	if !exists {
		return TrackedCall{}, false
	}
	return *call, true
}

// Remove stops tracking a call
func (t *CallTracker) Remove(txID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.calls, txID)
}

// Len returns the number of tracked calls
func (t *CallTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.calls)
}
