package repository

import (
	"sync"

	domainEchoState "github.com/lineoa/line-msg-api/domains/echostate"
)

// memoryEchoState keeps the per-sender echo toggle in process memory.
// Guarded with a mutex because a warm process serves batches concurrently.
type memoryEchoState struct {
	mu    sync.RWMutex
	state map[string]bool
}

func NewMemoryEchoStateRepository() domainEchoState.IEchoStateRepository {
	return &memoryEchoState{
		state: make(map[string]bool),
	}
}

func (r *memoryEchoState) IsEnabled(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[userID]
}

func (r *memoryEchoState) SetEnabled(userID string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[userID] = enabled
}
