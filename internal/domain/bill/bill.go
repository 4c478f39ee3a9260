package bill

import (
	"errors"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Common errors
var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidFrequency = errors.New("recurring bill requires a positive frequency")
	ErrAlreadyPaid      = errors.New("bill is already settled")
	ErrEmptyName        = errors.New("bill name cannot be empty")
	ErrBatchTooLarge    = errors.New("batch exceeds the settlement limit")
)

// SecondsPerDay converts a frequency in days into the logical-clock unit.
const SecondsPerDay = 86400

// Bill is an obligation record: an amount owed by an owner with a due date
// and optional recurrence. Amounts are in the smallest currency unit;
// timestamps are logical-clock unix seconds.
type Bill struct {
	ID            int64            `json:"id"`
	Owner         shared.Principal `json:"owner"`
	Name          string           `json:"name"`
	Amount        int64            `json:"amount"`
	DueDate       int64            `json:"due_date"`
	Recurring     bool             `json:"recurring"`
	FrequencyDays uint32           `json:"frequency_days"`
	Paid          bool             `json:"paid"`
	CreatedAt     int64            `json:"created_at"`
	PaidAt        *int64           `json:"paid_at,omitempty"`
}

// NewBill validates and constructs an open obligation. The identifier is
// assigned later by the record store.
func NewBill(owner shared.Principal, name string, amount int64, dueDate int64, recurring bool, frequencyDays uint32, now int64) (*Bill, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if recurring && frequencyDays == 0 {
		return nil, ErrInvalidFrequency
	}

	return &Bill{
		Owner:         owner,
		Name:          name,
		Amount:        amount,
		DueDate:       dueDate,
		Recurring:     recurring,
		FrequencyDays: frequencyDays,
		Paid:          false,
		CreatedAt:     now,
	}, nil
}

// Settle marks the bill paid at the given instant. Settlement is terminal
// for the record: a second call fails with ErrAlreadyPaid and changes nothing.
func (b *Bill) Settle(now int64) error {
	if b.Paid {
		return ErrAlreadyPaid
	}
	b.Paid = true
	paidAt := now
	b.PaidAt = &paidAt
	return nil
}

// NextOccurrence builds the successor record spawned when a recurring bill
// is settled: same owner, name, amount and recurrence, due one frequency
// interval after the settled bill's due date, unpaid, with the identifier
// left for the store to assign. Returns nil for non-recurring bills.
func (b *Bill) NextOccurrence(now int64) *Bill {
	if !b.Recurring {
		return nil
	}
	return &Bill{
		Owner:         b.Owner,
		Name:          b.Name,
		Amount:        b.Amount,
		DueDate:       b.DueDate + int64(b.FrequencyDays)*SecondsPerDay,
		Recurring:     true,
		FrequencyDays: b.FrequencyDays,
		Paid:          false,
		CreatedAt:     now,
	}
}

// Overdue reports whether the bill is open and strictly past its due date.
func (b *Bill) Overdue(now int64) bool {
	return !b.Paid && b.DueDate < now
}

// Stats is a point-in-time snapshot of the obligation ledger: how many
// bills are open and how much money they represent.
type Stats struct {
	ActiveBills       int   `json:"active_bills"`
	TotalUnpaidAmount int64 `json:"total_unpaid_amount"`
}
