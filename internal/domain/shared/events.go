package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by what kind of change they record.
type EventCategory string

const (
	EventCategoryTransaction EventCategory = "TRANSACTION"
	EventCategoryState       EventCategory = "STATE"
	EventCategorySystem      EventCategory = "SYSTEM"
)

// EventPriority signals how urgently downstream consumers should treat an event.
type EventPriority string

const (
	EventPriorityLow    EventPriority = "LOW"
	EventPriorityMedium EventPriority = "MEDIUM"
	EventPriorityHigh   EventPriority = "HIGH"
)

// Well-known event actions emitted by the ledger services.
const (
	EventBillCreated       = "bill.created"
	EventBillSettled       = "bill.settled"
	EventBillCanceled      = "bill.canceled"
	EventSplitInitialized  = "split.initialized"
	EventSplitUpdated      = "split.updated"
	EventSplitCalculated   = "split.calculated"
	EventGoalCreated       = "goal.created"
	EventGoalDeposit       = "goal.deposit"
	EventPolicyCreated     = "policy.created"
	EventPremiumPaid       = "policy.premium_paid"
	EventPolicyDeactivated = "policy.deactivated"
)

// Event is one entry of the append-only audit log. Every mutating ledger
// operation publishes one, carrying the affected identifier and key fields.
type Event struct {
	ID            uuid.UUID      `json:"id" bson:"id"`
	Category      EventCategory  `json:"category" bson:"category"`
	Priority      EventPriority  `json:"priority" bson:"priority"`
	Action        string         `json:"action" bson:"action"`
	Owner         Principal      `json:"owner,omitempty" bson:"owner,omitempty"`
	RecordID      int64          `json:"record_id,omitempty" bson:"record_id,omitempty"`
	Amount        int64          `json:"amount,omitempty" bson:"amount,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Details       map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at" bson:"occurred_at"`
}

// NewEvent builds an audit event stamped with a fresh identifier and the
// current wall-clock time.
func NewEvent(category EventCategory, priority EventPriority, action string) *Event {
	return &Event{
		ID:         uuid.New(),
		Category:   category,
		Priority:   priority,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}
