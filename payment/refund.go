package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownOrderLine is returned when a refund request references an order line
// that does not exist on the order, making variant resolution impossible.
var ErrUnknownOrderLine = errors.New("refund request references an unknown order line")

// RefundOperation is one refund as it happened: refunded quantity per line identity
// and whether shipping costs were part of it. The shipping flag is all-or-nothing,
// shipping is never refunded fractionally.
type RefundOperation struct {
	LineQuantities        map[LineIdentityString]int
	ShippingCostsIncluded bool
}

// RefundLedger is the fold of an order's refund history: how much of each variant
// has already been refunded and whether shipping was ever refunded.
type RefundLedger struct {
	refundedQuantities map[LineIdentityString]int
	shippingRefunded   bool
}

// LedgerFromHistory folds past refund operations into a ledger. Sentinel line
// identities are not product lines and do not accumulate quantities.
func LedgerFromHistory(history []RefundOperation) RefundLedger {
	ledger := RefundLedger{refundedQuantities: make(map[LineIdentityString]int)}

	for _, operation := range history {
		for identity, quantity := range operation.LineQuantities {
			if identity == ShippingLineID || identity == PartialPaymentDifferenceLineID {
				continue
			}

			ledger.refundedQuantities[identity] += quantity
		}

		if operation.ShippingCostsIncluded {
			ledger.shippingRefunded = true
		}
	}

	return ledger
}

// RefundedQuantity returns how many units of the given variant have been refunded so far.
func (l RefundLedger) RefundedQuantity(identity LineIdentityString) int {
	return l.refundedQuantities[identity]
}

// ShippingRefunded reports whether any past refund included shipping costs.
func (l RefundLedger) ShippingRefunded() bool {
	return l.shippingRefunded
}

// OrderLineRefund requests a refund of the given quantity of an order line.
type OrderLineRefund struct {
	OrderLineID uuid.UUID
	Quantity    int
}

// FulfillmentLineRefund requests a refund of the given quantity of a fulfillment
// line. The variant is resolved through the order line the fulfillment line was
// created from.
type FulfillmentLineRefund struct {
	FulfillmentLineID uuid.UUID
	OrderLineID       uuid.UUID
	Quantity          int
}

// ComputeRefundDeltas computes, per line identity, how many units remain refundable
// after the refund history AND the current request are accounted for:
//
//	delta = ordered quantity - already refunded - currently requested
//
// The result has an entry for every variant touched by the current request or by any
// past refund, plus always a ShippingLineID entry: 1 when shipping is still
// refundable (not included now and never included before), 0 otherwise.
//
// Negative deltas mean the request overshoots what is refundable. They are reported
// as-is; deciding to reject is the caller's job.
func ComputeRefundDeltas(
	order OrderSnapshot,
	history []RefundOperation,
	orderLineRefunds []OrderLineRefund,
	fulfillmentLineRefunds []FulfillmentLineRefund,
	includeShippingCosts bool,
) (map[LineIdentityString]int, error) {

	linesByID := make(map[uuid.UUID]OrderLineSnapshot, len(order.Lines))
	orderedQuantities := make(map[LineIdentityString]int, len(order.Lines))

	for _, line := range order.Lines {
		linesByID[line.ID] = line
		orderedQuantities[line.VariantID] += line.Quantity
	}

	requested := make(map[LineIdentityString]int)

	for _, refund := range orderLineRefunds {
		line, found := linesByID[refund.OrderLineID]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOrderLine, refund.OrderLineID)
		}

		requested[line.VariantID] += refund.Quantity
	}

	for _, refund := range fulfillmentLineRefunds {
		line, found := linesByID[refund.OrderLineID]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOrderLine, refund.OrderLineID)
		}

		requested[line.VariantID] += refund.Quantity
	}

	ledger := LedgerFromHistory(history)

	deltas := make(map[LineIdentityString]int, len(requested)+1)

	for identity, requestedQuantity := range requested {
		deltas[identity] = orderedQuantities[identity] - ledger.RefundedQuantity(identity) - requestedQuantity
	}

	// Variants only touched by past refunds still get an entry, so callers always
	// see the complete remaining-refundable picture.
	for identity := range ledger.refundedQuantities {
		if _, present := deltas[identity]; present {
			continue
		}

		deltas[identity] = orderedQuantities[identity] - ledger.RefundedQuantity(identity)
	}

	deltas[ShippingLineID] = 0
	if !includeShippingCosts && !ledger.ShippingRefunded() {
		deltas[ShippingLineID] = 1
	}

	return deltas, nil
}
