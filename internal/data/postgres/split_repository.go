package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/remitwise-ledger/internal/domain/split"
	"github.com/remitwise-ledger/internal/platform/persistence"
)

// SplitRepository implements the split.Repository interface for PostgreSQL.
// The configuration is a singleton row enforced by a constant primary key.
type SplitRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSplitRepository creates a new PostgreSQL split-configuration repository.
func NewSplitRepository(logger *slog.Logger, db *persistence.PostgresDB) *SplitRepository {
	return &SplitRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *SplitRepository) Get(ctx context.Context) (*split.Config, error) {
	query := `
		SELECT owner, spending_percent, savings_percent, bills_percent, insurance_percent, initialized, updated_at
		FROM split_config
		WHERE singleton = TRUE
	`

	var c split.Config
	err := r.querier.QueryRow(ctx, query).Scan(
		&c.Owner,
		&c.SpendingPercent,
		&c.SavingsPercent,
		&c.BillsPercent,
		&c.InsurancePercent,
		&c.Initialized,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, split.ErrNotInitialized
		}
		r.logger.Error("Failed to get split configuration", "error", err)
		return nil, fmt.Errorf("failed to get split configuration: %w", err)
	}

	return &c, nil
}

func (r *SplitRepository) Save(ctx context.Context, c *split.Config) error {
	query := `
		INSERT INTO split_config (singleton, owner, spending_percent, savings_percent, bills_percent, insurance_percent, initialized, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (singleton) DO UPDATE
		SET owner = EXCLUDED.owner,
		    spending_percent = EXCLUDED.spending_percent,
		    savings_percent = EXCLUDED.savings_percent,
		    bills_percent = EXCLUDED.bills_percent,
		    insurance_percent = EXCLUDED.insurance_percent,
		    initialized = EXCLUDED.initialized,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.querier.Exec(ctx, query,
		c.Owner,
		c.SpendingPercent,
		c.SavingsPercent,
		c.BillsPercent,
		c.InsurancePercent,
		c.Initialized,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save split configuration", "error", err)
		return fmt.Errorf("failed to save split configuration: %w", err)
	}

	return nil
}

var _ split.Repository = (*SplitRepository)(nil)
