package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/platform/persistence"
)

// GoalRepository implements the goal.Repository interface for PostgreSQL
type GoalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewGoalRepository creates a new PostgreSQL savings-goal repository.
func NewGoalRepository(logger *slog.Logger, db *persistence.PostgresDB) *GoalRepository {
	return &GoalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const goalColumns = "id, owner, name, target_amount, current_amount, target_date, locked, created_at"

func scanGoal(row pgx.Row) (*goal.Goal, error) {
	var g goal.Goal
	err := row.Scan(
		&g.ID,
		&g.Owner,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.TargetDate,
		&g.Locked,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) (int64, error) {
	query := `
		INSERT INTO savings_goals (owner, name, target_amount, current_amount, target_date, locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		g.Owner,
		g.Name,
		g.TargetAmount,
		g.CurrentAmount,
		g.TargetDate,
		g.Locked,
		g.CreatedAt,
	).Scan(&g.ID)
	if err != nil {
		r.logger.Error("Failed to create savings goal", "owner", g.Owner.String(), "error", err)
		return 0, fmt.Errorf("failed to create savings goal: %w", err)
	}

	return g.ID, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE id = $1`

	g, err := scanGoal(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goal.ErrGoalNotFound{GoalID: id}
		}
		r.logger.Error("Failed to get savings goal", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get savings goal: %w", err)
	}

	return g, nil
}

func (r *GoalRepository) Update(ctx context.Context, id int64, mutate func(*goal.Goal) error) error {
	tx, err := r.querier.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin goal update: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE id = $1 FOR UPDATE`
	g, err := scanGoal(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goal.ErrGoalNotFound{GoalID: id}
		}
		r.logger.Error("Failed to lock savings goal for update", "id", id, "error", err)
		return fmt.Errorf("failed to lock savings goal for update: %w", err)
	}

	if err := mutate(g); err != nil {
		return err
	}

	update := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, current_amount = $3, target_date = $4, locked = $5
		WHERE id = $6
	`
	if _, err := tx.Exec(ctx, update, g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate, g.Locked, g.ID); err != nil {
		r.logger.Error("Failed to update savings goal", "id", id, "error", err)
		return fmt.Errorf("failed to update savings goal: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *GoalRepository) ListByOwner(ctx context.Context, owner shared.Principal) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE owner = $1 ORDER BY id`

	rows, err := r.querier.Query(ctx, query, owner)
	if err != nil {
		r.logger.Error("Failed to list savings goals", "owner", owner.String(), "error", err)
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate savings goals: %w", err)
	}
	return goals, nil
}

var _ goal.Repository = (*GoalRepository)(nil)
