package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/platform/persistence"
)

// PolicyRepository implements the policy.Repository interface for PostgreSQL
type PolicyRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPolicyRepository creates a new PostgreSQL insurance-policy repository.
func NewPolicyRepository(logger *slog.Logger, db *persistence.PostgresDB) *PolicyRepository {
	return &PolicyRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const policyColumns = "id, owner, name, coverage_type, monthly_premium, coverage_amount, active, next_payment_date, created_at"

func scanPolicy(row pgx.Row) (*policy.Policy, error) {
	var p policy.Policy
	err := row.Scan(
		&p.ID,
		&p.Owner,
		&p.Name,
		&p.CoverageType,
		&p.MonthlyPremium,
		&p.CoverageAmount,
		&p.Active,
		&p.NextPaymentDate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PolicyRepository) Create(ctx context.Context, p *policy.Policy) (int64, error) {
	query := `
		INSERT INTO insurance_policies (owner, name, coverage_type, monthly_premium, coverage_amount, active, next_payment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		p.Owner,
		p.Name,
		p.CoverageType,
		p.MonthlyPremium,
		p.CoverageAmount,
		p.Active,
		p.NextPaymentDate,
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error("Failed to create insurance policy", "owner", p.Owner.String(), "error", err)
		return 0, fmt.Errorf("failed to create insurance policy: %w", err)
	}

	return p.ID, nil
}

func (r *PolicyRepository) GetByID(ctx context.Context, id int64) (*policy.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM insurance_policies WHERE id = $1`

	p, err := scanPolicy(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, policy.ErrPolicyNotFound{PolicyID: id}
		}
		r.logger.Error("Failed to get insurance policy", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get insurance policy: %w", err)
	}

	return p, nil
}

func (r *PolicyRepository) Update(ctx context.Context, id int64, mutate func(*policy.Policy) error) error {
	tx, err := r.querier.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin policy update: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + policyColumns + ` FROM insurance_policies WHERE id = $1 FOR UPDATE`
	p, err := scanPolicy(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.ErrPolicyNotFound{PolicyID: id}
		}
		r.logger.Error("Failed to lock insurance policy for update", "id", id, "error", err)
		return fmt.Errorf("failed to lock insurance policy for update: %w", err)
	}

	if err := mutate(p); err != nil {
		return err
	}

	update := `
		UPDATE insurance_policies
		SET name = $1, coverage_type = $2, monthly_premium = $3, coverage_amount = $4, active = $5, next_payment_date = $6
		WHERE id = $7
	`
	if _, err := tx.Exec(ctx, update, p.Name, p.CoverageType, p.MonthlyPremium, p.CoverageAmount, p.Active, p.NextPaymentDate, p.ID); err != nil {
		r.logger.Error("Failed to update insurance policy", "id", id, "error", err)
		return fmt.Errorf("failed to update insurance policy: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PolicyRepository) ListByOwner(ctx context.Context, owner shared.Principal) ([]*policy.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM insurance_policies WHERE owner = $1 ORDER BY id`

	rows, err := r.querier.Query(ctx, query, owner)
	if err != nil {
		r.logger.Error("Failed to list insurance policies", "owner", owner.String(), "error", err)
		return nil, fmt.Errorf("failed to list insurance policies: %w", err)
	}
	defer rows.Close()

	var policies []*policy.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insurance policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insurance policies: %w", err)
	}
	return policies, nil
}

var _ policy.Repository = (*PolicyRepository)(nil)
