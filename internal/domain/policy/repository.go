package policy

import (
	"context"
	"strconv"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Repository defines insurance-policy persistence operations.
type Repository interface {
	Create(ctx context.Context, p *Policy) (int64, error)
	GetByID(ctx context.Context, id int64) (*Policy, error)
	Update(ctx context.Context, id int64, mutate func(*Policy) error) error
	ListByOwner(ctx context.Context, owner shared.Principal) ([]*Policy, error)
}

// ErrPolicyNotFound indicates an unknown policy identifier.
type ErrPolicyNotFound struct {
	PolicyID int64
}

func (e ErrPolicyNotFound) Error() string {
	return "insurance policy not found: " + strconv.FormatInt(e.PolicyID, 10)
}
