package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/remitwise-ledger/internal/domain/audit"
	"github.com/remitwise-ledger/internal/domain/shared"
)

type RecordingServiceImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
}

func NewRecordingService(logger *slog.Logger, auditRepo audit.Repository) RecordingService {
	return &RecordingServiceImpl{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// RecordEvent appends the event to the audit trail. Kafka delivers
// at-least-once, so a duplicate event ID is treated as already done and
// committed rather than retried.
func (s *RecordingServiceImpl) RecordEvent(ctx context.Context, event *shared.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Recording audit event",
		"event_id", event.ID.String(),
		"action", event.Action,
		"owner", event.Owner.String(),
	)

	if err := s.auditRepo.Record(ctx, event); err != nil {
		var dup audit.ErrDuplicateEvent
		if errors.As(err, &dup) {
			logger.Warn("Audit event already recorded, skipping", "event_id", event.ID.String())
			return nil
		}
		logger.Error("Failed to record audit event", "event_id", event.ID.String(), "error", err)
		return fmt.Errorf("recording audit event %s failed: %w", event.ID.String(), err)
	}

	return nil
}
