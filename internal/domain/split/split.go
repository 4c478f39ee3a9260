package split

import (
	"errors"
	"math"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Common errors
var (
	ErrInvalidAmount      = errors.New("total amount must be positive")
	ErrAmountTooLarge     = errors.New("total amount too large to split")
	ErrInvalidPercentages = errors.New("percentages must sum to exactly 100")
	ErrAlreadyInitialized = errors.New("split configuration already initialized")
	ErrNotInitialized     = errors.New("split configuration not initialized")
)

// MaxSplittableAmount bounds the total Calculate accepts. Percentages are
// capped at 100 by validation, so totals at or below this bound keep every
// total*pct product inside int64.
const MaxSplittableAmount = math.MaxInt64 / 100

// Category names for the four allocation buckets, in calculation order.
const (
	CategorySpending  = "spending"
	CategorySavings   = "savings"
	CategoryBills     = "bills"
	CategoryInsurance = "insurance"
)

// Config is the singleton four-way percentage ratio used to partition an
// incoming remittance. The owner is recorded to authorize updates.
type Config struct {
	Owner            shared.Principal `json:"owner"`
	SpendingPercent  uint32           `json:"spending_percent"`
	SavingsPercent   uint32           `json:"savings_percent"`
	BillsPercent     uint32           `json:"bills_percent"`
	InsurancePercent uint32           `json:"insurance_percent"`
	Initialized      bool             `json:"initialized"`
	UpdatedAt        int64            `json:"updated_at"`
}

// NewConfig validates the four percentages and builds an initialized
// configuration.
func NewConfig(owner shared.Principal, spending, savings, bills, insurance uint32, now int64) (*Config, error) {
	c := &Config{
		Owner:            owner,
		SpendingPercent:  spending,
		SavingsPercent:   savings,
		BillsPercent:     bills,
		InsurancePercent: insurance,
		Initialized:      true,
		UpdatedAt:        now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate enforces the exact-sum-100 rule. The sum runs in int64 so
// uint32 inputs large enough to wrap around cannot sneak past the check;
// with wrapping excluded, the sum rule also bounds each percentage at 100.
func (c *Config) Validate() error {
	sum := int64(c.SpendingPercent) + int64(c.SavingsPercent) + int64(c.BillsPercent) + int64(c.InsurancePercent)
	if sum != 100 {
		return ErrInvalidPercentages
	}
	return nil
}

// Replace atomically swaps in four new percentages. The config is either
// fully replaced or untouched.
func (c *Config) Replace(spending, savings, bills, insurance uint32, now int64) error {
	next := *c
	next.SpendingPercent = spending
	next.SavingsPercent = savings
	next.BillsPercent = bills
	next.InsurancePercent = insurance
	next.UpdatedAt = now
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Shares is the result of partitioning a total amount: four non-negative
// integers that sum to the total exactly.
type Shares struct {
	Spending  int64 `json:"spending"`
	Savings   int64 `json:"savings"`
	Bills     int64 `json:"bills"`
	Insurance int64 `json:"insurance"`
}

// Total is the amount the shares were derived from.
func (s Shares) Total() int64 {
	return s.Spending + s.Savings + s.Bills + s.Insurance
}

// Allocation pairs a category name with its share amount.
type Allocation struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// Allocations returns the per-category breakdown in calculation order.
func (s Shares) Allocations() []Allocation {
	return []Allocation{
		{Category: CategorySpending, Amount: s.Spending},
		{Category: CategorySavings, Amount: s.Savings},
		{Category: CategoryBills, Amount: s.Bills},
		{Category: CategoryInsurance, Amount: s.Insurance},
	}
}

// Calculate partitions totalAmount according to the configured percentages.
// The first three categories take floor(total*pct/100); insurance takes the
// remainder, which guarantees the shares always sum to the total regardless
// of rounding loss. The category order is load-bearing: moving the remainder
// changes which bucket absorbs rounding dust.
func (c *Config) Calculate(totalAmount int64) (Shares, error) {
	if totalAmount <= 0 {
		return Shares{}, ErrInvalidAmount
	}
	if totalAmount > MaxSplittableAmount {
		return Shares{}, ErrAmountTooLarge
	}
	if err := c.Validate(); err != nil {
		return Shares{}, err
	}

	spending := totalAmount * int64(c.SpendingPercent) / 100
	savings := totalAmount * int64(c.SavingsPercent) / 100
	bills := totalAmount * int64(c.BillsPercent) / 100
	insurance := totalAmount - spending - savings - bills

	return Shares{
		Spending:  spending,
		Savings:   savings,
		Bills:     bills,
		Insurance: insurance,
	}, nil
}
