package refundablequantities

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/payment"
)

// ProjectRefundableQuantities implements the query logic to determine what is still
// refundable for an order. This is a pure function with no side effects - it takes
// the order snapshot and the order's refund history and returns the projected state.
//
// Query Logic:
//
//	GIVEN: An order with OrderID and its OrderRefunded history
//	WHEN: RefundableQuantities query is executed
//	THEN: RefundableQuantities struct is returned with one line per ordered variant,
//	      remaining quantity = ordered quantity - already refunded quantity
//	INCLUDES: Variants that are fully refunded (remaining quantity 0)
//	SHIPPING: Refundable iff no past refund included shipping costs
func ProjectRefundableQuantities(order payment.OrderSnapshot, history core.DomainEvents, query Query) RefundableQuantities {
	queriedOrderID := query.OrderID.String()

	operations := make([]payment.RefundOperation, 0, len(history))

	for _, event := range history {
		refunded, ok := event.(core.OrderRefunded)
		if !ok || refunded.OrderID != queriedOrderID {
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

	ledger := payment.LedgerFromHistory(operations)

	orderedQuantities := make(map[core.VariantIDString]int, len(order.Lines))
	for _, line := range order.Lines {
		orderedQuantities[line.VariantID] += line.Quantity
	}

	lines := make([]RemainingLine, 0, len(orderedQuantities))
	for variantID, ordered := range orderedQuantities {
		lines = append(lines, RemainingLine{
			VariantID: variantID,
			Quantity:  ordered - ledger.RefundedQuantity(variantID),
		})
	}

	slices.SortFunc(lines, func(a, b RemainingLine) int {
		return strings.Compare(a.VariantID, b.VariantID)
	})

	return RefundableQuantities{
		OrderID:            queriedOrderID,
		Lines:              lines,
		ShippingRefundable: !ledger.ShippingRefunded(),
		Count:              len(lines),
	}
}

// BuildLogSelector creates the selector for querying events related to the specified order.
func BuildLogSelector(orderID uuid.UUID) eventlog.Selector {
	return eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf(
			core.OrderRefundedEventType,
		).
		AndAnyScopeOf(
			eventlog.S("OrderID", orderID.String()),
		).
		Finalize()
}
