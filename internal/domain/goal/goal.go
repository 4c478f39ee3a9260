package goal

import (
	"errors"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrEmptyName     = errors.New("goal name cannot be empty")
)

// Goal is a savings target: the owner deposits toward TargetAmount and the
// funds stay locked until the goal completes. No recurrence, no partition
// math; the goal ledger reuses the same storage and authorization patterns
// as the bill ledger.
type Goal struct {
	ID            int64            `json:"id"`
	Owner         shared.Principal `json:"owner"`
	Name          string           `json:"name"`
	TargetAmount  int64            `json:"target_amount"`
	CurrentAmount int64            `json:"current_amount"`
	TargetDate    int64            `json:"target_date"`
	Locked        bool             `json:"locked"`
	CreatedAt     int64            `json:"created_at"`
}

// NewGoal validates and constructs a locked, empty goal.
func NewGoal(owner shared.Principal, name string, targetAmount int64, targetDate int64, now int64) (*Goal, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if targetAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Goal{
		Owner:        owner,
		Name:         name,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
		Locked:       true,
		CreatedAt:    now,
	}, nil
}

// Deposit adds amount to the goal and returns the new balance.
func (g *Goal) Deposit(amount int64) (int64, error) {
	if amount <= 0 {
		return g.CurrentAmount, ErrInvalidAmount
	}
	g.CurrentAmount += amount
	return g.CurrentAmount, nil
}

// Completed reports whether the accumulated balance has reached the target.
func (g *Goal) Completed() bool {
	return g.CurrentAmount >= g.TargetAmount
}
