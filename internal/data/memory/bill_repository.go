package memory

import (
	"context"
	"time"

	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// BillRepository implements bill.Repository over the in-process record store.
type BillRepository struct {
	store *Store[*bill.Bill]
}

// NewBillRepository creates a bill ledger store with the given retention window.
func NewBillRepository(retention time.Duration) *BillRepository {
	return &BillRepository{
		store: NewStore(retention, Options[*bill.Bill]{
			OwnerOf: func(b *bill.Bill) shared.Principal { return b.Owner },
			Clone:   cloneBill,
			SetID:   func(b *bill.Bill, id int64) { b.ID = id },
			NotFound: func(id int64) error {
				return bill.ErrBillNotFound{BillID: id}
			},
		}),
	}
}

func cloneBill(b *bill.Bill) *bill.Bill {
	clone := *b
	if b.PaidAt != nil {
		paidAt := *b.PaidAt
		clone.PaidAt = &paidAt
	}
	return &clone
}

func (r *BillRepository) Create(_ context.Context, b *bill.Bill) (int64, error) {
	return r.store.Create(b), nil
}

func (r *BillRepository) GetByID(_ context.Context, id int64) (*bill.Bill, error) {
	return r.store.Get(id)
}

func (r *BillRepository) Update(_ context.Context, id int64, mutate func(*bill.Bill) error) error {
	return r.store.Update(id, mutate)
}

// Settle runs the whole settlement under the store lock: the paid check
// inside settle sees the live record, and a mid-batch failure writes
// nothing.
func (r *BillRepository) Settle(_ context.Context, ids []int64, settle func(*bill.Bill) (*bill.Bill, error)) ([]*bill.Bill, []int64, error) {
	settled := make([]*bill.Bill, 0, len(ids))
	successorIDs, err := r.store.UpdateAll(ids, func(b *bill.Bill) (*bill.Bill, error) {
		successor, err := settle(b)
		if err != nil {
			return nil, err
		}
		settled = append(settled, cloneBill(b))
		return successor, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return settled, successorIDs, nil
}

func (r *BillRepository) Delete(_ context.Context, id int64) error {
	return r.store.Delete(id)
}

func (r *BillRepository) ListByOwner(_ context.Context, owner shared.Principal) ([]*bill.Bill, error) {
	return r.store.ListByOwner(owner), nil
}

func (r *BillRepository) List(_ context.Context) ([]*bill.Bill, error) {
	return r.store.List(), nil
}

var _ bill.Repository = (*BillRepository)(nil)
