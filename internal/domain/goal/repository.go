package goal

import (
	"context"
	"strconv"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Repository defines savings-goal persistence operations. Identifier
// assignment follows the same monotonic, never-reused rule as every ledger.
type Repository interface {
	Create(ctx context.Context, g *Goal) (int64, error)
	GetByID(ctx context.Context, id int64) (*Goal, error)
	Update(ctx context.Context, id int64, mutate func(*Goal) error) error
	ListByOwner(ctx context.Context, owner shared.Principal) ([]*Goal, error)
}

// ErrGoalNotFound indicates an unknown goal identifier.
type ErrGoalNotFound struct {
	GoalID int64
}

func (e ErrGoalNotFound) Error() string {
	return "savings goal not found: " + strconv.FormatInt(e.GoalID, 10)
}
