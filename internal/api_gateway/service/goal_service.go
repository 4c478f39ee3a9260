package service

import (
	"context"
	"log/slog"

	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/platform/messaging/producers"
)

// GoalServiceImpl implements the GoalService interface
type GoalServiceImpl struct {
	goalRepo goal.Repository
	producer producers.MessagePublisher
	clock    shared.Clock
	logger   *slog.Logger
}

// NewGoalService creates a new savings-goal service
func NewGoalService(logger *slog.Logger, goalRepo goal.Repository, producer producers.MessagePublisher, clock shared.Clock) GoalService {
	return &GoalServiceImpl{
		goalRepo: goalRepo,
		producer: producer,
		clock:    clock,
		logger:   logger,
	}
}

// CreateGoal records a new locked savings goal for owner
func (s *GoalServiceImpl) CreateGoal(ctx context.Context, acting, owner shared.Principal, name string, targetAmount, targetDate int64) (*goal.Goal, error) {
	if err := shared.RequireOwner(acting, owner); err != nil {
		return nil, err
	}

	g, err := goal.NewGoal(owner, name, targetAmount, targetDate, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.goalRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventGoalCreated, g.Owner, g.ID, g.TargetAmount)
	return g, nil
}

// Deposit adds amount to the goal. Only the owner may deposit.
func (s *GoalServiceImpl) Deposit(ctx context.Context, acting shared.Principal, id int64, amount int64) (*goal.Goal, error) {
	var updated *goal.Goal
	err := s.goalRepo.Update(ctx, id, func(g *goal.Goal) error {
		if err := shared.RequireOwner(acting, g.Owner); err != nil {
			return err
		}
		if _, err := g.Deposit(amount); err != nil {
			return err
		}
		updated = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Completed() {
		s.logger.Info("Savings goal reached its target",
			"goal_id", updated.ID,
			"target_amount", updated.TargetAmount,
			"current_amount", updated.CurrentAmount,
		)
	}

	s.emit(ctx, shared.EventGoalDeposit, updated.Owner, updated.ID, amount)
	return updated, nil
}

// GetGoal retrieves a goal by its identifier
func (s *GoalServiceImpl) GetGoal(ctx context.Context, id int64) (*goal.Goal, error) {
	return s.goalRepo.GetByID(ctx, id)
}

// ListByOwner returns the owner's goals in insertion order
func (s *GoalServiceImpl) ListByOwner(ctx context.Context, owner shared.Principal) ([]*goal.Goal, error) {
	return s.goalRepo.ListByOwner(ctx, owner)
}

func (s *GoalServiceImpl) emit(ctx context.Context, action string, owner shared.Principal, recordID, amount int64) {
	if s.producer == nil {
		return
	}

	event := shared.NewEvent(shared.EventCategoryTransaction, shared.EventPriorityMedium, action)
	event.Owner = owner
	event.RecordID = recordID
	event.Amount = amount

	if err := s.producer.Publish(ctx, event.ID.String(), event); err != nil {
		s.logger.Error("Failed to publish audit event", "action", action, "record_id", recordID, "error", err)
	}
}
