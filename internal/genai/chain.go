package genai

import (
	"slices"
	"sync"
)

// MaxConsecutiveFailures is how many non-rate-limit failures in a row move
// the chain past a model.
const MaxConsecutiveFailures = 3

// HealthState is a copy of the chain's mutable state.
type HealthState struct {
	ActiveIndex   int            `json:"active_index"`
	FailureCounts map[string]int `json:"failure_counts"`
}

// ModelChain owns the ordered model list and its health state.
// All methods are safe for concurrent use. The mutex only guards state
// updates and is never held while a model is being called.
type ModelChain struct {
	models []ModelDescriptor

	mu     sync.Mutex
	active int
	fails  []int
}

// NewModelChain validates models and returns a chain starting at index 0.
func NewModelChain(models []ModelDescriptor) (*ModelChain, error) {
	if err := ValidateChain(models); err != nil {
		return nil, err
	}
	return &ModelChain{
		models: slices.Clone(models),
		fails:  make([]int, len(models)),
	}, nil
}

// Models returns a copy of the descriptors.
func (c *ModelChain) Models() []ModelDescriptor {
	return slices.Clone(c.models)
}

// ActiveIndex returns where the next request starts.
func (c *ModelChain) ActiveIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Snapshot returns a copy of the health state keyed by model name.
func (c *ModelChain) Snapshot() HealthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[string]int, len(c.models))
	for i, d := range c.models {
		if d.Generative() {
			counts[d.Name] += c.fails[i]
		}
	}
	return HealthState{ActiveIndex: c.active, FailureCounts: counts}
}

// Reset replaces the state with a fresh one: index 0, no failures.
func (c *ModelChain) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = 0
	c.fails = make([]int, len(c.models))
}

// lastGenerative is the position of the last generative model.
func (c *ModelChain) lastGenerative() int {
	for i := len(c.models) - 1; i >= 0; i-- {
		if c.models[i].Generative() {
			return i
		}
	}
	return -1
}

// recordSuccess clears the failure count of model i and makes it the
// starting point. The index only moves forward so a slow success cannot
// undo an advance made by a concurrent request.
func (c *ModelChain) recordSuccess(i int) (active int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fails[i] = 0
	c.active = max(c.active, i)
	return c.active
}

// recordFailure counts a failure of model i and reports whether the chain
// moved past it.
func (c *ModelChain) recordFailure(i int, kind FailureKind) (advanced bool, active int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fails[i]++

	switch {
	case kind == FailureRateLimit:
		advanced = true
	case c.fails[i] >= MaxConsecutiveFailures && i != c.lastGenerative():
		advanced = true
	}
	if advanced && c.active <= i {
		c.active = i + 1
	}
	return advanced, c.active
}
