package requestlog

import (
	"context"
	"sync"

	"github.com/yanqian/lawn-advisor/internal/domain/recommendation"
)

const defaultMemoryCapacity = 1000

// MemoryRepository keeps the most recent outcomes in process memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	items    []recommendation.Outcome
	capacity int
}

// NewMemoryRepository constructs a bounded in-memory log.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

// Record appends the outcome, evicting the oldest entry once full.
func (r *MemoryRepository) Record(_ context.Context, outcome recommendation.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) >= r.capacity {
		r.items = append(r.items[:0], r.items[1:]...)
	}
	r.items = append(r.items, outcome)
	return nil
}

// Recent returns up to limit outcomes, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]recommendation.Outcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	out := make([]recommendation.Outcome, 0, limit)
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

var _ recommendation.OutcomeLog = (*MemoryRepository)(nil)
