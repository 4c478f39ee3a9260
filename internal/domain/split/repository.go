package split

import "context"

// Repository persists the singleton split configuration. Get returns
// ErrNotInitialized when no configuration has been stored yet; Save either
// inserts or fully replaces it.
type Repository interface {
	Get(ctx context.Context) (*Config, error)
	Save(ctx context.Context, c *Config) error
}
