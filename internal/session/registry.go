// Package session tracks per-user auto-detection intent. The registry
// records whether a user wants the detection loop running and how long
// to wait between checks; the loop itself lives on the client device,
// which polls Status and behaves accordingly.
package session

import (
	"sync"

	"github.com/google/uuid"
)

const DefaultDelayMinutes = 5

// State is one user's auto-detection record.
type State struct {
	IsRunning    bool `json:"is_running"`
	DelayMinutes int  `json:"delay_minutes"`
}

// Registry is process-local shared state: entries are created lazily,
// never evicted, and lost on restart. Concurrent start/stop for the
// same user resolves last-write-wins, which is fine because the
// registry expresses intent, not a lock.
type Registry struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*State
}

func NewRegistry() *Registry {
	return &Registry{states: make(map[uuid.UUID]*State)}
}

// Start moves the user to Running. Calling it while already running
// overwrites the delay rather than rejecting.
func (r *Registry) Start(userID uuid.UUID, delayMinutes int) State {
	if delayMinutes <= 0 {
		delayMinutes = DefaultDelayMinutes
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.locked(userID)
	s.IsRunning = true
	s.DelayMinutes = delayMinutes
	return *s
}

// Stop moves the user to Idle. Idempotent.
func (r *Registry) Stop(userID uuid.UUID) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.locked(userID)
	s.IsRunning = false
	return *s
}

// Status is a pure read. A user who never called Start reports the
// idle default.
func (r *Registry) Status(userID uuid.UUID) State {
	r.mu.RLock()
	if s, ok := r.states[userID]; ok {
		out := *s
		r.mu.RUnlock()
		return out
	}
	r.mu.RUnlock()
	return State{IsRunning: false, DelayMinutes: DefaultDelayMinutes}
}

func (r *Registry) locked(userID uuid.UUID) *State {
	s, ok := r.states[userID]
	if !ok {
		s = &State{IsRunning: false, DelayMinutes: DefaultDelayMinutes}
		r.states[userID] = s
	}
	return s
}
