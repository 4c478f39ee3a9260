package memory

import (
	"context"
	"sync"

	"github.com/remitwise-ledger/internal/domain/split"
)

// SplitRepository holds the singleton split configuration. One mutex
// serializes reads and writes, matching the per-ledger serialization of the
// record stores.
type SplitRepository struct {
	mu     sync.Mutex
	config *split.Config
}

func NewSplitRepository() *SplitRepository {
	return &SplitRepository{}
}

func (r *SplitRepository) Get(_ context.Context) (*split.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config == nil {
		return nil, split.ErrNotInitialized
	}
	clone := *r.config
	return &clone, nil
}

func (r *SplitRepository) Save(_ context.Context, c *split.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *c
	r.config = &clone
	return nil
}

var _ split.Repository = (*SplitRepository)(nil)
