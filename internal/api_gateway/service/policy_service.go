package service

import (
	"context"
	"log/slog"

	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/platform/messaging/producers"
)

// PolicyServiceImpl implements the PolicyService interface
type PolicyServiceImpl struct {
	policyRepo policy.Repository
	producer   producers.MessagePublisher
	clock      shared.Clock
	logger     *slog.Logger
}

// NewPolicyService creates a new insurance-policy service
func NewPolicyService(logger *slog.Logger, policyRepo policy.Repository, producer producers.MessagePublisher, clock shared.Clock) PolicyService {
	return &PolicyServiceImpl{
		policyRepo: policyRepo,
		producer:   producer,
		clock:      clock,
		logger:     logger,
	}
}

// CreatePolicy records a new active policy for owner, with the first
// premium due one interval from now
func (s *PolicyServiceImpl) CreatePolicy(ctx context.Context, acting, owner shared.Principal, name, coverageType string, monthlyPremium, coverageAmount int64) (*policy.Policy, error) {
	if err := shared.RequireOwner(acting, owner); err != nil {
		return nil, err
	}

	p, err := policy.NewPolicy(owner, name, coverageType, monthlyPremium, coverageAmount, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.policyRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventPolicyCreated, shared.EventPriorityMedium, p.Owner, p.ID, p.MonthlyPremium)
	return p, nil
}

// PayPremium records a premium payment. Inactive policies reject payment;
// only the owner may pay.
func (s *PolicyServiceImpl) PayPremium(ctx context.Context, acting shared.Principal, id int64) (*policy.Policy, error) {
	now := s.clock.Now()
	var updated *policy.Policy
	err := s.policyRepo.Update(ctx, id, func(p *policy.Policy) error {
		if !p.Active {
			return policy.ErrPolicyInactive
		}
		if err := shared.RequireOwner(acting, p.Owner); err != nil {
			return err
		}
		if err := p.PayPremium(now); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventPremiumPaid, shared.EventPriorityMedium, updated.Owner, updated.ID, updated.MonthlyPremium)
	return updated, nil
}

// Deactivate turns the policy off permanently. Only the owner may.
func (s *PolicyServiceImpl) Deactivate(ctx context.Context, acting shared.Principal, id int64) (*policy.Policy, error) {
	var updated *policy.Policy
	err := s.policyRepo.Update(ctx, id, func(p *policy.Policy) error {
		if !p.Active {
			return policy.ErrPolicyInactive
		}
		if err := shared.RequireOwner(acting, p.Owner); err != nil {
			return err
		}
		if err := p.Deactivate(); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventPolicyDeactivated, shared.EventPriorityHigh, updated.Owner, updated.ID, 0)
	return updated, nil
}

// GetPolicy retrieves a policy by its identifier
func (s *PolicyServiceImpl) GetPolicy(ctx context.Context, id int64) (*policy.Policy, error) {
	return s.policyRepo.GetByID(ctx, id)
}

// ActiveByOwner returns the owner's active policies in insertion order
func (s *PolicyServiceImpl) ActiveByOwner(ctx context.Context, owner shared.Principal) ([]*policy.Policy, error) {
	policies, err := s.policyRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	active := make([]*policy.Policy, 0, len(policies))
	for _, p := range policies {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

// TotalMonthlyPremium sums the monthly premiums of the owner's active
// policies
func (s *PolicyServiceImpl) TotalMonthlyPremium(ctx context.Context, owner shared.Principal) (int64, error) {
	active, err := s.ActiveByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, p := range active {
		total += p.MonthlyPremium
	}
	return total, nil
}

func (s *PolicyServiceImpl) emit(ctx context.Context, action string, priority shared.EventPriority, owner shared.Principal, recordID, amount int64) {
	if s.producer == nil {
		return
	}

	category := shared.EventCategoryTransaction
	if action == shared.EventPolicyDeactivated {
		category = shared.EventCategoryState
	}
	event := shared.NewEvent(category, priority, action)
	event.Owner = owner
	event.RecordID = recordID
	event.Amount = amount

	if err := s.producer.Publish(ctx, event.ID.String(), event); err != nil {
		s.logger.Error("Failed to publish audit event", "action", action, "record_id", recordID, "error", err)
	}
}
