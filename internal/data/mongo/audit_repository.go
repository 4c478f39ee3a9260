package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/remitwise-ledger/internal/domain/audit"
	"github.com/remitwise-ledger/internal/domain/shared"
)

const (
	// AuditCollectionName is the name of the audit trail collection in MongoDB
	AuditCollectionName = "audit_events"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores a consumed audit event after checking for duplicates.
// Returns ErrDuplicateEvent if an event with the same ID exists, which keeps
// redelivered Kafka messages from duplicating trail entries.
func (r *AuditRepository) Record(ctx context.Context, event *shared.Event) error {
	collection := r.db.Collection(AuditCollectionName)

	existing, err := r.GetByID(ctx, event.ID)
	if err != nil && !errors.Is(err, audit.ErrEventNotFound{EventID: event.ID}) {
		r.logger.Error("Failed to check for existing audit event",
			"event_id", event.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing audit event: %w", err)
	}

	if existing != nil {
		return audit.ErrDuplicateEvent{EventID: event.ID}
	}

	_, err = collection.InsertOne(ctx, event)
	if err != nil {
		r.logger.Error("Failed to record audit event",
			"event_id", event.ID.String(),
			"action", event.Action,
			"error", err)
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	return nil
}

// GetByID retrieves an audit event by its identifier.
// Returns ErrEventNotFound if no event exists with the given ID.
func (r *AuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.Event, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"id": id}
	var event shared.Event
	err := collection.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, audit.ErrEventNotFound{EventID: id}
		}
		r.logger.Error("Failed to get audit event",
			"event_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit event: %w", err)
	}

	return &event, nil
}

// ListByOwner retrieves paginated audit events for an owner.
// Results are sorted by occurrence time in descending order (newest first).
func (r *AuditRepository) ListByOwner(ctx context.Context, owner shared.Principal, limit, offset int) ([]*shared.Event, error) {
	return r.list(ctx, bson.M{"owner": owner}, limit, offset)
}

// ListByAction retrieves paginated audit events carrying the given action.
// Results are sorted by occurrence time in descending order (newest first).
func (r *AuditRepository) ListByAction(ctx context.Context, action string, limit, offset int) ([]*shared.Event, error) {
	return r.list(ctx, bson.M{"action": action}, limit, offset)
}

func (r *AuditRepository) list(ctx context.Context, filter bson.M, limit, offset int) ([]*shared.Event, error) {
	collection := r.db.Collection(AuditCollectionName)

	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}). // Sort by occurred_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list audit events",
			"filter", fmt.Sprintf("%v", filter),
			"error", err)
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*shared.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode audit events",
			"filter", fmt.Sprintf("%v", filter),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}

	return events, nil
}
