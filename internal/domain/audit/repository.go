// Package audit defines persistence for the append-only audit trail built
// from the events every mutating ledger operation emits.
package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// Repository stores consumed audit events. Record must be idempotent on the
// event ID so redelivered Kafka messages do not duplicate trail entries.
type Repository interface {
	Record(ctx context.Context, event *shared.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*shared.Event, error)
	ListByOwner(ctx context.Context, owner shared.Principal, limit, offset int) ([]*shared.Event, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*shared.Event, error)
}

// ErrEventNotFound indicates an unknown audit event ID.
type ErrEventNotFound struct {
	EventID uuid.UUID
}

func (e ErrEventNotFound) Error() string {
	return "audit event not found: " + e.EventID.String()
}

// ErrDuplicateEvent indicates the event ID was already recorded.
type ErrDuplicateEvent struct {
	EventID uuid.UUID
}

func (e ErrDuplicateEvent) Error() string {
	return "audit event already recorded: " + e.EventID.String()
}
