package bill

import (
	"context"
	"strconv"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Repository defines bill persistence operations. Create assigns the next
// monotonic identifier for the ledger instance and returns it; identifiers
// start at 1 and are never reused, even after deletion.
type Repository interface {
	Create(ctx context.Context, b *Bill) (int64, error)
	GetByID(ctx context.Context, id int64) (*Bill, error)

	// Update applies mutate to the stored record under the store's
	// serialization guarantee. Returns ErrBillNotFound for unknown ids.
	Update(ctx context.Context, id int64, mutate func(*Bill) error) error

	// Settle re-reads each identified bill under the store's serialization
	// guarantee, applies settle to the live record, and when settle returns
	// a successor inserts it in the same transaction-equivalent step. The
	// paid check therefore runs where no concurrent settle can interleave:
	// two racing settles of one bill cannot both pass it. Any failure
	// leaves every bill untouched. Returns the settled bills and the
	// successors' assigned identifiers (0 where no successor), both
	// aligned with ids.
	Settle(ctx context.Context, ids []int64, settle func(*Bill) (*Bill, error)) ([]*Bill, []int64, error)

	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, owner shared.Principal) ([]*Bill, error)
	List(ctx context.Context) ([]*Bill, error)
}

// ErrBillNotFound indicates an unknown bill identifier.
type ErrBillNotFound struct {
	BillID int64
}

func (e ErrBillNotFound) Error() string {
	return "bill not found: " + strconv.FormatInt(e.BillID, 10)
}
