package core

import (
	"fmt"
	"sync"
)

// ModelLimiter enforces the maximum number of model requests of one run.
// Acquire refuses a request once the budget is spent, so the (max+1)-th
// request is never issued.
type ModelLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewModelLimiter creates a new limiter with a max number of calls.
// If max == 0, unlimited calls are allowed.
func NewModelLimiter(max int) *ModelLimiter {
	return &ModelLimiter{max: max}
}

// Acquire reserves the next request slot and returns its 1-based number.
func (ml *ModelLimiter) Acquire() (int, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.max > 0 && ml.count >= ml.max {
		return ml.count, fmt.Errorf("exceeded max model calls: %d", ml.max)
	}

	ml.count++

	return ml.count, nil
}

// Count returns the number of requests acquired so far.
func (ml *ModelLimiter) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	return ml.count
}

// Max returns the configured budget (0 = unlimited).
func (ml *ModelLimiter) Max() int { return ml.max }

// Remaining returns how many calls are left before hitting the limit.
func (ml *ModelLimiter) Remaining() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.max == 0 {
		return -1 // unlimited
	}

	return ml.max - ml.count
}
