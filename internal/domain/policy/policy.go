package policy

import (
	"errors"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Common errors
var (
	ErrInvalidAmount  = errors.New("premium and coverage must be positive")
	ErrEmptyName      = errors.New("policy name cannot be empty")
	ErrPolicyInactive = errors.New("policy is deactivated")
)

// PremiumIntervalSeconds is the fixed monthly billing interval.
const PremiumIntervalSeconds = 30 * 86400

// Policy is an insurance policy record owned by a single principal. Paying
// the premium advances the next payment date by one interval; deactivation
// is terminal for the record.
type Policy struct {
	ID              int64            `json:"id"`
	Owner           shared.Principal `json:"owner"`
	Name            string           `json:"name"`
	CoverageType    string           `json:"coverage_type"`
	MonthlyPremium  int64            `json:"monthly_premium"`
	CoverageAmount  int64            `json:"coverage_amount"`
	Active          bool             `json:"active"`
	NextPaymentDate int64            `json:"next_payment_date"`
	CreatedAt       int64            `json:"created_at"`
}

// NewPolicy validates and constructs an active policy with the first
// premium due one interval from now.
func NewPolicy(owner shared.Principal, name, coverageType string, monthlyPremium, coverageAmount int64, now int64) (*Policy, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if monthlyPremium <= 0 || coverageAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Policy{
		Owner:           owner,
		Name:            name,
		CoverageType:    coverageType,
		MonthlyPremium:  monthlyPremium,
		CoverageAmount:  coverageAmount,
		Active:          true,
		NextPaymentDate: now + PremiumIntervalSeconds,
		CreatedAt:       now,
	}, nil
}

// PayPremium records a premium payment, pushing the next payment date one
// interval past the payment instant.
func (p *Policy) PayPremium(now int64) error {
	if !p.Active {
		return ErrPolicyInactive
	}
	p.NextPaymentDate = now + PremiumIntervalSeconds
	return nil
}

// Deactivate turns the policy off. Further premium payments fail with
// ErrPolicyInactive.
func (p *Policy) Deactivate() error {
	if !p.Active {
		return ErrPolicyInactive
	}
	p.Active = false
	return nil
}
