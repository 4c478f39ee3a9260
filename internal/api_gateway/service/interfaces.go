package service

import (
	"context"

	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/domain/split"
)

// BillService defines the interface for obligation lifecycle operations
type BillService interface {
	// CreateBill records a new obligation for owner. Only the owner may
	// originate records in their own name (acting must equal owner).
	CreateBill(ctx context.Context, acting, owner shared.Principal, name string, amount, dueDate int64, recurring bool, frequencyDays uint32) (*bill.Bill, error)

	// SettleBill marks the bill paid. Settling a recurring bill spawns the
	// next occurrence atomically and returns its identifier (0 otherwise).
	// Errors are checked in order: not found, already paid, unauthorized.
	SettleBill(ctx context.Context, acting shared.Principal, id int64) (*bill.Bill, int64, error)

	// SettleBills settles up to the configured batch limit of bills.
	// Every bill is validated before any is written; one bad identifier
	// aborts the whole batch.
	SettleBills(ctx context.Context, acting shared.Principal, ids []int64) ([]*bill.Bill, error)

	// CancelBill removes the bill outright. Cancellation carries no owner
	// check; any caller may cancel any bill.
	CancelBill(ctx context.Context, id int64) error

	// GetBill retrieves a bill by its identifier
	GetBill(ctx context.Context, id int64) (*bill.Bill, error)

	// ListBills returns every bill across owners in insertion order
	ListBills(ctx context.Context) ([]*bill.Bill, error)

	// UnpaidByOwner returns the owner's open bills in insertion order
	UnpaidByOwner(ctx context.Context, owner shared.Principal) ([]*bill.Bill, error)

	// TotalUnpaidByOwner sums the amounts of the owner's open bills
	TotalUnpaidByOwner(ctx context.Context, owner shared.Principal) (int64, error)

	// Overdue returns open bills strictly past their due date, all owners
	Overdue(ctx context.Context) ([]*bill.Bill, error)

	// Stats returns an active-count and unpaid-total snapshot
	Stats(ctx context.Context) (*bill.Stats, error)
}

// SplitService defines the interface for the allocation split configuration
type SplitService interface {
	// Initialize sets the singleton configuration for the first time
	Initialize(ctx context.Context, acting, owner shared.Principal, spending, savings, bills, insurance uint32) (*split.Config, error)

	// Update atomically replaces all four percentages; only the owner may
	Update(ctx context.Context, acting shared.Principal, spending, savings, bills, insurance uint32) (*split.Config, error)

	// Get returns the current configuration or split.ErrNotInitialized
	Get(ctx context.Context) (*split.Config, error)

	// Calculate partitions totalAmount by the configured percentages
	Calculate(ctx context.Context, totalAmount int64) (split.Shares, error)
}

// GoalService defines the interface for the savings-goal ledger
type GoalService interface {
	CreateGoal(ctx context.Context, acting, owner shared.Principal, name string, targetAmount, targetDate int64) (*goal.Goal, error)

	// Deposit adds amount to the goal; only the owner may deposit
	Deposit(ctx context.Context, acting shared.Principal, id int64, amount int64) (*goal.Goal, error)

	GetGoal(ctx context.Context, id int64) (*goal.Goal, error)
	ListByOwner(ctx context.Context, owner shared.Principal) ([]*goal.Goal, error)
}

// PolicyService defines the interface for the insurance-policy ledger
type PolicyService interface {
	CreatePolicy(ctx context.Context, acting, owner shared.Principal, name, coverageType string, monthlyPremium, coverageAmount int64) (*policy.Policy, error)

	// PayPremium records a premium payment, advancing the next payment date
	PayPremium(ctx context.Context, acting shared.Principal, id int64) (*policy.Policy, error)

	// Deactivate turns the policy off permanently
	Deactivate(ctx context.Context, acting shared.Principal, id int64) (*policy.Policy, error)

	GetPolicy(ctx context.Context, id int64) (*policy.Policy, error)
	ActiveByOwner(ctx context.Context, owner shared.Principal) ([]*policy.Policy, error)
	TotalMonthlyPremium(ctx context.Context, owner shared.Principal) (int64, error)
}
