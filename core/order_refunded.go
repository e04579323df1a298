package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRefundedEventType is the event type identifier.
const OrderRefundedEventType = "OrderRefunded"

// RefundedLine is one refunded product line inside an OrderRefunded event.
type RefundedLine struct {
	VariantID VariantIDString
	Quantity  int
}

// OrderRefunded represents when part of an order was refunded.
type OrderRefunded struct {
	EventType             EventTypeString
	OrderID               OrderIDString
	Lines                 []RefundedLine
	ShippingCostsIncluded bool
	Amount                decimal.Decimal
	Currency              string
	OccurredAt            OccurredAtTS
}

// BuildOrderRefunded creates a new OrderRefunded event.
func BuildOrderRefunded(
	orderID uuid.UUID,
	lines []RefundedLine,
	shippingCostsIncluded bool,
	amount decimal.Decimal,
	currency string,
	occurredAt time.Time,
) OrderRefunded {

	event := OrderRefunded{
		EventType:             OrderRefundedEventType,
		OrderID:               orderID.String(),
		Lines:                 lines,
		ShippingCostsIncluded: shippingCostsIncluded,
		Amount:                amount,
		Currency:              currency,
		OccurredAt:            ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e OrderRefunded) IsEventType() string {
	return OrderRefundedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderRefunded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e OrderRefunded) IsErrorEvent() bool {
	return false
}
