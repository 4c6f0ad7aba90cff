package queue

import (
	"context"
	"log"
	"sync"

	"github.com/creatorlink/product-pipeline-go/internal/pipeline"
)

// RunCallback is a function that gets called after a successful pipeline run
type RunCallback func(ctx context.Context, result *pipeline.Result) error

// CallbackManager manages post-run callbacks
type CallbackManager struct {
	callbacks []RunCallback
	mu        sync.RWMutex
}

// NewCallbackManager creates a new callback manager
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make([]RunCallback, 0),
	}
}

// RegisterCallback registers a new callback to be called after a run
func (m *CallbackManager) RegisterCallback(cb RunCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// TriggerCallbacks executes all registered callbacks after run completion.
// Callbacks are executed sequentially. If a callback fails, it's logged but doesn't stop other callbacks.
func (m *CallbackManager) TriggerCallbacks(ctx context.Context, result *pipeline.Result) {
	m.mu.RLock()
	callbacks := make([]RunCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.RUnlock()

	for i, cb := range callbacks {
		if err := cb(ctx, result); err != nil {
			log.Printf("[Callbacks] Callback %d failed for video %s: %v", i, result.VideoID, err)
			// Continue executing other callbacks even if one fails
		}
	}
}

// CallbackCount returns the number of registered callbacks
func (m *CallbackManager) CallbackCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.callbacks)
}
