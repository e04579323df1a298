package refundorderlines

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/payment"
)

const (
	failureReasonExceedsRefundable       = "refund exceeds the refundable quantity"
	failureReasonUnknownOrderLine        = "refund request references an unknown order line"
	failureReasonShippingAlreadyRefunded = "shipping costs have already been refunded"
)

// ErrExceedsRefundableQuantity is returned when the requested quantities overshoot
// what is still refundable for the order.
var ErrExceedsRefundableQuantity = errors.New("refund exceeds the refundable quantity")

// ErrShippingAlreadyRefunded is returned when shipping costs are requested a second time.
var ErrShippingAlreadyRefunded = errors.New("shipping costs have already been refunded")

// Decide implements the business logic to determine whether the requested refund is allowed.
// This is a pure function with no side effects - it takes the order snapshot, the order's
// refund history and a command and returns the event that should be appended.
//
// Business Rules:
//
//	GIVEN: An order with OrderID and its refund history
//	WHEN: RefundOrderLines command is received
//	THEN: OrderRefunded event is generated
//	ERROR: "refund request references an unknown order line" if a line cannot be resolved
//	ERROR: "refund exceeds the refundable quantity" if any variant would go below zero
//	ERROR: "shipping costs have already been refunded" if shipping is requested twice
//	IDEMPOTENCY: An empty request (no lines, no shipping) generates no event (no-op)
func Decide(order payment.OrderSnapshot, history core.DomainEvents, command Command) core.DecisionResult {
	if len(command.OrderLineRefunds) == 0 && len(command.FulfillmentLineRefunds) == 0 && !command.IncludeShippingCosts {
		return core.IdempotentDecision() // idempotency - there is nothing to refund, so no new event
	}

	operations := projectRefundOperations(history, command.OrderID.String())

	if command.IncludeShippingCosts && payment.LedgerFromHistory(operations).ShippingRefunded() {
		event := core.BuildOrderRefundRejected(command.OrderID, failureReasonShippingAlreadyRefunded, command.OccurredAt)
		return core.ErrorDecision(event, ErrShippingAlreadyRefunded)
	}

	deltas, err := payment.ComputeRefundDeltas(
		order,
		operations,
		command.OrderLineRefunds,
		command.FulfillmentLineRefunds,
		command.IncludeShippingCosts,
	)
	if err != nil {
		event := core.BuildOrderRefundRejected(command.OrderID, failureReasonUnknownOrderLine, command.OccurredAt)
		return core.ErrorDecision(event, err)
	}

	for identity, delta := range deltas {
		if identity == payment.ShippingLineID {
			continue
		}

		if delta < 0 {
			event := core.BuildOrderRefundRejected(command.OrderID, failureReasonExceedsRefundable, command.OccurredAt)
			return core.ErrorDecision(event, ErrExceedsRefundableQuantity)
		}
	}

	return core.SuccessDecision(
		core.BuildOrderRefunded(
			command.OrderID,
			refundedLines(order, command),
			command.IncludeShippingCosts,
			command.Amount,
			order.Currency,
			command.OccurredAt,
		),
	)
}

// projectRefundOperations folds the order's OrderRefunded history into refund operations.
// Rejected refunds never changed state and are skipped.
func projectRefundOperations(history core.DomainEvents, orderID string) []payment.RefundOperation {
	operations := make([]payment.RefundOperation, 0, len(history))

	for _, event := range history {
		refunded, ok := event.(core.OrderRefunded)
		if !ok || refunded.OrderID != orderID {
			continue
		}

		quantities := make(map[payment.LineIdentityString]int, len(refunded.Lines))
		for _, line := range refunded.Lines {
			quantities[line.VariantID] += line.Quantity
		}

		operations = append(operations, payment.RefundOperation{
			LineQuantities:        quantities,
			ShippingCostsIncluded: refunded.ShippingCostsIncluded,
		})
	}

	return operations
}

// refundedLines merges the requested order-line and fulfillment-line refunds into
// per-variant refunded lines, sorted by variant for deterministic event payloads.
// Line resolution cannot fail here - ComputeRefundDeltas already validated the request.
func refundedLines(order payment.OrderSnapshot, command Command) []core.RefundedLine {
	variantsByLineID := make(map[uuid.UUID]core.VariantIDString, len(order.Lines))
	for _, line := range order.Lines {
		variantsByLineID[line.ID] = line.VariantID
	}

	quantities := make(map[core.VariantIDString]int)

	for _, refund := range command.OrderLineRefunds {
		quantities[variantsByLineID[refund.OrderLineID]] += refund.Quantity
	}

	for _, refund := range command.FulfillmentLineRefunds {
		quantities[variantsByLineID[refund.OrderLineID]] += refund.Quantity
	}

	lines := make([]core.RefundedLine, 0, len(quantities))
	for variantID, quantity := range quantities {
		lines = append(lines, core.RefundedLine{VariantID: variantID, Quantity: quantity})
	}

	slices.SortFunc(lines, func(a, b core.RefundedLine) int {
		return strings.Compare(a.VariantID, b.VariantID)
	})

	return lines
}

// BuildLogSelector creates the selector for querying all events
// related to the specified order which are relevant for this feature/use-case.
func BuildLogSelector(orderID uuid.UUID) eventlog.Selector {
	return eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf(
			core.OrderRefundedEventType,
			core.OrderRefundRejectedEventType,
		).
		AndAnyScopeOf(
			eventlog.S("OrderID", orderID.String()),
		).
		Finalize()
}
