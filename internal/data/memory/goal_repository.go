package memory

import (
	"context"
	"time"

	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// GoalRepository implements goal.Repository over the in-process record store.
type GoalRepository struct {
	store *Store[*goal.Goal]
}

func NewGoalRepository(retention time.Duration) *GoalRepository {
	return &GoalRepository{
		store: NewStore(retention, Options[*goal.Goal]{
			OwnerOf: func(g *goal.Goal) shared.Principal { return g.Owner },
			Clone: func(g *goal.Goal) *goal.Goal {
				clone := *g
				return &clone
			},
			SetID: func(g *goal.Goal, id int64) { g.ID = id },
			NotFound: func(id int64) error {
				return goal.ErrGoalNotFound{GoalID: id}
			},
		}),
	}
}

func (r *GoalRepository) Create(_ context.Context, g *goal.Goal) (int64, error) {
	return r.store.Create(g), nil
}

func (r *GoalRepository) GetByID(_ context.Context, id int64) (*goal.Goal, error) {
	return r.store.Get(id)
}

func (r *GoalRepository) Update(_ context.Context, id int64, mutate func(*goal.Goal) error) error {
	return r.store.Update(id, mutate)
}

func (r *GoalRepository) ListByOwner(_ context.Context, owner shared.Principal) ([]*goal.Goal, error) {
	return r.store.ListByOwner(owner), nil
}

var _ goal.Repository = (*GoalRepository)(nil)
