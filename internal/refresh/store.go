// Package refresh keeps the current snapshot up to date by periodically
// re-attaching to the target and rebuilding it.
package refresh

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/f3rmion/dfscope/internal/df"
)

// Status summarises the refresh loop for health reporting.
type Status struct {
	PID         int       `json:"pid"`
	Generation  uint64    `json:"generation"`
	Dwarves     int       `json:"dwarves"`
	Partial     bool      `json:"partial"`
	LastRefresh time.Time `json:"last_refresh"`
	LastError   string    `json:"last_error,omitempty"`
}

// Store holds the latest complete snapshot. Readers never observe a
// partially built snapshot: a new one replaces the old in a single swap.
type Store struct {
	pid atomic.Int64

	mu          sync.RWMutex
	snap        *df.Snapshot
	lastRefresh time.Time
	lastErr     error
	hooks       []func(*df.Snapshot)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the latest snapshot, or false before the first swap.
func (s *Store) Snapshot() (*df.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.snap != nil
}

// PID returns the attached process id, or 0 when detached. It does not
// take the snapshot lock.
func (s *Store) PID() int { return int(s.pid.Load()) }

func (s *Store) setPID(pid int) { s.pid.Store(int64(pid)) }

// Status reports the loop's health.
func (s *Store) Status() Status {
	st := Status{PID: s.PID()}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st.LastRefresh = s.lastRefresh
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.snap != nil {
		st.Generation = s.snap.Generation
		st.Dwarves = len(s.snap.Dwarves)
		st.Partial = s.snap.Partial
	}
	return st
}

// OnSwap registers fn to run after every swap, outside the lock.
func (s *Store) OnSwap(fn func(*df.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Swap publishes snap as the current snapshot.
func (s *Store) Swap(snap *df.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.lastRefresh = snap.BuiltAt
	s.lastErr = nil
	hooks := append([]func(*df.Snapshot){}, s.hooks...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(snap)
	}
}

func (s *Store) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}
