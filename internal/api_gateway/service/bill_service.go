package service

import (
	"context"
	"log/slog"

	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/platform/messaging/producers"
)

// BillServiceImpl implements the BillService interface
type BillServiceImpl struct {
	billRepo   bill.Repository
	producer   producers.MessagePublisher
	clock      shared.Clock
	logger     *slog.Logger
	batchLimit int
}

// NewBillService creates a new obligation lifecycle service
func NewBillService(logger *slog.Logger, billRepo bill.Repository, producer producers.MessagePublisher, clock shared.Clock, batchLimit int) BillService {
	return &BillServiceImpl{
		billRepo:   billRepo,
		producer:   producer,
		clock:      clock,
		logger:     logger,
		batchLimit: batchLimit,
	}
}

// CreateBill records a new obligation. Only the owner may originate records
// in their own name.
func (s *BillServiceImpl) CreateBill(ctx context.Context, acting, owner shared.Principal, name string, amount, dueDate int64, recurring bool, frequencyDays uint32) (*bill.Bill, error) {
	if err := shared.RequireOwner(acting, owner); err != nil {
		return nil, err
	}

	b, err := bill.NewBill(owner, name, amount, dueDate, recurring, frequencyDays, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.billRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventCategoryTransaction, shared.EventPriorityMedium, shared.EventBillCreated, b.Owner, b.ID, b.Amount)
	return b, nil
}

// SettleBill marks the bill paid and, when it recurs, spawns the successor.
// Validation runs inside the repository's atomic settle step, against the
// live record: an unknown identifier wins over unauthorized, which wins
// over already-paid.
func (s *BillServiceImpl) SettleBill(ctx context.Context, acting shared.Principal, id int64) (*bill.Bill, int64, error) {
	now := s.clock.Now()
	settled, successorIDs, err := s.billRepo.Settle(ctx, []int64{id}, s.settleStep(acting, now))
	if err != nil {
		return nil, 0, err
	}
	b, successorID := settled[0], successorIDs[0]

	s.emit(ctx, shared.EventCategoryTransaction, shared.EventPriorityMedium, shared.EventBillSettled, b.Owner, b.ID, b.Amount)
	if successorID != 0 {
		s.logger.Info("Recurring bill spawned successor",
			"settled_id", b.ID,
			"successor_id", successorID,
			"due_date", b.DueDate+int64(b.FrequencyDays)*bill.SecondsPerDay,
		)
		s.emit(ctx, shared.EventCategoryTransaction, shared.EventPriorityLow, shared.EventBillCreated, b.Owner, successorID, b.Amount)
	}
	return b, successorID, nil
}

// SettleBills settles a batch of bills in one repository step, so a batch
// with one bad bill leaves the ledger untouched.
func (s *BillServiceImpl) SettleBills(ctx context.Context, acting shared.Principal, ids []int64) ([]*bill.Bill, error) {
	if len(ids) > s.batchLimit {
		return nil, bill.ErrBatchTooLarge
	}

	now := s.clock.Now()
	settled, successorIDs, err := s.billRepo.Settle(ctx, ids, s.settleStep(acting, now))
	if err != nil {
		return nil, err
	}

	for i, b := range settled {
		s.emit(ctx, shared.EventCategoryTransaction, shared.EventPriorityMedium, shared.EventBillSettled, b.Owner, b.ID, b.Amount)
		if successorIDs[i] != 0 {
			s.emit(ctx, shared.EventCategoryTransaction, shared.EventPriorityLow, shared.EventBillCreated, b.Owner, successorIDs[i], b.Amount)
		}
	}

	s.logger.Info("Batch settlement applied", "count", len(settled))
	return settled, nil
}

// settleStep builds the per-bill validation and mutation the repository
// runs inside its atomic settle step. The owner check precedes the paid
// check, so a non-owner probing a paid bill learns nothing about its state.
func (s *BillServiceImpl) settleStep(acting shared.Principal, now int64) func(*bill.Bill) (*bill.Bill, error) {
	return func(b *bill.Bill) (*bill.Bill, error) {
		if err := shared.RequireOwner(acting, b.Owner); err != nil {
			return nil, err
		}
		if err := b.Settle(now); err != nil {
			return nil, err
		}
		return b.NextOccurrence(now), nil
	}
}

// CancelBill removes the bill outright. Deliberately un-gated: any caller
// may cancel any bill.
func (s *BillServiceImpl) CancelBill(ctx context.Context, id int64) error {
	b, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.billRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(ctx, shared.EventCategoryState, shared.EventPriorityHigh, shared.EventBillCanceled, b.Owner, b.ID, b.Amount)
	return nil
}

// GetBill retrieves a bill by its identifier
func (s *BillServiceImpl) GetBill(ctx context.Context, id int64) (*bill.Bill, error) {
	return s.billRepo.GetByID(ctx, id)
}

// ListBills returns every bill in insertion order
func (s *BillServiceImpl) ListBills(ctx context.Context) ([]*bill.Bill, error) {
	return s.billRepo.List(ctx)
}

// UnpaidByOwner returns the owner's open bills in insertion order
func (s *BillServiceImpl) UnpaidByOwner(ctx context.Context, owner shared.Principal) ([]*bill.Bill, error) {
	bills, err := s.billRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	unpaid := make([]*bill.Bill, 0, len(bills))
	for _, b := range bills {
		if !b.Paid {
			unpaid = append(unpaid, b)
		}
	}
	return unpaid, nil
}

// TotalUnpaidByOwner sums the amounts of the owner's open bills
func (s *BillServiceImpl) TotalUnpaidByOwner(ctx context.Context, owner shared.Principal) (int64, error) {
	unpaid, err := s.UnpaidByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, b := range unpaid {
		total += b.Amount
	}
	return total, nil
}

// Overdue returns open bills strictly past their due date, across owners
func (s *BillServiceImpl) Overdue(ctx context.Context) ([]*bill.Bill, error) {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	overdue := make([]*bill.Bill, 0)
	for _, b := range bills {
		if b.Overdue(now) {
			overdue = append(overdue, b)
		}
	}
	return overdue, nil
}

// Stats returns the active bill count and total unpaid amount
func (s *BillServiceImpl) Stats(ctx context.Context) (*bill.Stats, error) {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &bill.Stats{}
	for _, b := range bills {
		if !b.Paid {
			stats.ActiveBills++
			stats.TotalUnpaidAmount += b.Amount
		}
	}
	return stats, nil
}

// emit publishes an audit event. Emission is best-effort: a publish failure
// is logged and never rolls back the ledger write it describes.
func (s *BillServiceImpl) emit(ctx context.Context, category shared.EventCategory, priority shared.EventPriority, action string, owner shared.Principal, recordID, amount int64) {
	if s.producer == nil {
		return
	}

	event := shared.NewEvent(category, priority, action)
	event.Owner = owner
	event.RecordID = recordID
	event.Amount = amount

	if err := s.producer.Publish(ctx, event.ID.String(), event); err != nil {
		s.logger.Error("Failed to publish audit event",
			"action", action,
			"record_id", recordID,
			"error", err,
		)
	}
}
