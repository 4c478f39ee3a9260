package service

import (
	"context"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// RecordingService defines the interface for persisting consumed audit events.
type RecordingService interface {
	RecordEvent(ctx context.Context, event *shared.Event) error
}
