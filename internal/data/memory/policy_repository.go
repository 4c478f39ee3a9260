package memory

import (
	"context"
	"time"

	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// PolicyRepository implements policy.Repository over the in-process record store.
type PolicyRepository struct {
	store *Store[*policy.Policy]
}

func NewPolicyRepository(retention time.Duration) *PolicyRepository {
	return &PolicyRepository{
		store: NewStore(retention, Options[*policy.Policy]{
			OwnerOf: func(p *policy.Policy) shared.Principal { return p.Owner },
			Clone: func(p *policy.Policy) *policy.Policy {
				clone := *p
				return &clone
			},
			SetID: func(p *policy.Policy, id int64) { p.ID = id },
			NotFound: func(id int64) error {
				return policy.ErrPolicyNotFound{PolicyID: id}
			},
		}),
	}
}

func (r *PolicyRepository) Create(_ context.Context, p *policy.Policy) (int64, error) {
	return r.store.Create(p), nil
}

func (r *PolicyRepository) GetByID(_ context.Context, id int64) (*policy.Policy, error) {
	return r.store.Get(id)
}

func (r *PolicyRepository) Update(_ context.Context, id int64, mutate func(*policy.Policy) error) error {
	return r.store.Update(id, mutate)
}

func (r *PolicyRepository) ListByOwner(_ context.Context, owner shared.Principal) ([]*policy.Policy, error) {
	return r.store.ListByOwner(owner), nil
}

var _ policy.Repository = (*PolicyRepository)(nil)
