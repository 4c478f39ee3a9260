package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/domain/split"
	"github.com/remitwise-ledger/internal/platform/messaging/producers"
)

// SplitServiceImpl implements the SplitService interface
type SplitServiceImpl struct {
	splitRepo split.Repository
	producer  producers.MessagePublisher
	clock     shared.Clock
	logger    *slog.Logger
}

// NewSplitService creates a new allocation split service
func NewSplitService(logger *slog.Logger, splitRepo split.Repository, producer producers.MessagePublisher, clock shared.Clock) SplitService {
	return &SplitServiceImpl{
		splitRepo: splitRepo,
		producer:  producer,
		clock:     clock,
		logger:    logger,
	}
}

// Initialize sets the singleton configuration for the first time. A second
// initialization fails with ErrAlreadyInitialized regardless of caller.
func (s *SplitServiceImpl) Initialize(ctx context.Context, acting, owner shared.Principal, spending, savings, bills, insurance uint32) (*split.Config, error) {
	existing, err := s.splitRepo.Get(ctx)
	if err != nil && !errors.Is(err, split.ErrNotInitialized) {
		return nil, err
	}
	if existing != nil && existing.Initialized {
		return nil, split.ErrAlreadyInitialized
	}

	if err := shared.RequireOwner(acting, owner); err != nil {
		return nil, err
	}

	cfg, err := split.NewConfig(owner, spending, savings, bills, insurance, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.splitRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventSplitInitialized, cfg.Owner)
	return cfg, nil
}

// Update atomically replaces all four percentages. Only the recorded owner
// may update, and a bad set of percentages leaves the old ones in place.
func (s *SplitServiceImpl) Update(ctx context.Context, acting shared.Principal, spending, savings, bills, insurance uint32) (*split.Config, error) {
	cfg, err := s.splitRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := shared.RequireOwner(acting, cfg.Owner); err != nil {
		return nil, err
	}

	if err := cfg.Replace(spending, savings, bills, insurance, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.splitRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.emit(ctx, shared.EventSplitUpdated, cfg.Owner)
	return cfg, nil
}

// Get returns the current configuration or split.ErrNotInitialized
func (s *SplitServiceImpl) Get(ctx context.Context) (*split.Config, error) {
	return s.splitRepo.Get(ctx)
}

// Calculate partitions totalAmount by the configured percentages. The
// shares always sum to the total exactly; insurance absorbs rounding dust.
func (s *SplitServiceImpl) Calculate(ctx context.Context, totalAmount int64) (split.Shares, error) {
	cfg, err := s.splitRepo.Get(ctx)
	if err != nil {
		return split.Shares{}, err
	}

	shares, err := cfg.Calculate(totalAmount)
	if err != nil {
		return split.Shares{}, err
	}

	if s.producer != nil {
		event := shared.NewEvent(shared.EventCategoryTransaction, shared.EventPriorityLow, shared.EventSplitCalculated)
		event.Owner = cfg.Owner
		event.Amount = totalAmount
		if err := s.producer.Publish(ctx, event.ID.String(), event); err != nil {
			s.logger.Error("Failed to publish audit event", "action", shared.EventSplitCalculated, "error", err)
		}
	}

	return shares, nil
}

func (s *SplitServiceImpl) emit(ctx context.Context, action string, owner shared.Principal) {
	if s.producer == nil {
		return
	}

	event := shared.NewEvent(shared.EventCategoryState, shared.EventPriorityMedium, action)
	event.Owner = owner

	if err := s.producer.Publish(ctx, event.ID.String(), event); err != nil {
		s.logger.Error("Failed to publish audit event", "action", action, "error", err)
	}
}
