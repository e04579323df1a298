package refundorderlines

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/payment"
)

const (
	commandType = "RefundOrderLines"
)

// Command represents the intent to refund quantities of an order's lines,
// optionally including the shipping costs.
type Command struct {
	OrderID                uuid.UUID
	OrderLineRefunds       []payment.OrderLineRefund
	FulfillmentLineRefunds []payment.FulfillmentLineRefund
	IncludeShippingCosts   bool
	Amount                 decimal.Decimal
	OccurredAt             core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	orderID uuid.UUID,
	orderLineRefunds []payment.OrderLineRefund,
	fulfillmentLineRefunds []payment.FulfillmentLineRefund,
	includeShippingCosts bool,
	amount decimal.Decimal,
	occurredAt time.Time,
) Command {

	return Command{
		OrderID:                orderID,
		OrderLineRefunds:       orderLineRefunds,
		FulfillmentLineRefunds: fulfillmentLineRefunds,
		IncludeShippingCosts:   includeShippingCosts,
		Amount:                 amount,
		OccurredAt:             core.ToOccurredAt(occurredAt),
	}
}
