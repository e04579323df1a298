package core

import (
	"time"

	"github.com/google/uuid"
)

// OrderRefundRejectedEventType is the event type identifier.
const OrderRefundRejectedEventType = "OrderRefundRejected"

// OrderRefundRejected represents when a refund request was rejected because it
// exceeded what is refundable.
type OrderRefundRejected struct {
	EventType  EventTypeString
	OrderID    OrderIDString
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildOrderRefundRejected creates a new OrderRefundRejected event.
func BuildOrderRefundRejected(orderID uuid.UUID, reason string, occurredAt time.Time) OrderRefundRejected {
	event := OrderRefundRejected{
		EventType:  OrderRefundRejectedEventType,
		OrderID:    orderID.String(),
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e OrderRefundRejected) IsEventType() string {
	return OrderRefundRejectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderRefundRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed operation.
func (e OrderRefundRejected) IsErrorEvent() bool {
	return true
}
