package factorization

import (
	"context"
	"sync"

	"github.com/vk/factorgrid/internal/graph"
)

// The process-wide current factorization is a compatibility shim for the
// incremental construction API. The core API is the explicit Factorization
// object; multi-threaded callers should thread their own instance instead.
var (
	currentMu sync.Mutex
	current   *Factorization
)

// SetCurrent replaces the process-wide current factorization. Passing nil
// resets it between independent model-building sessions.
func SetCurrent(fz *Factorization) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = fz
}

// Current returns the process-wide current factorization, or nil.
func Current() *Factorization {
	currentMu.Lock()
	defer currentMu.Unlock()
	return current
}

// AddCurrentFactor adds a posterior factor to the current factorization.
func AddCurrentFactor(ctx context.Context, id string, vars ...*graph.Variable) (*Factor, error) {
	fz := Current()
	if fz == nil {
		return nil, ErrNoCurrent
	}
	return fz.AddFactor(ctx, id, vars...)
}
