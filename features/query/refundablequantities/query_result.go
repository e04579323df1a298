package refundablequantities

import (
	"github.com/commercekit/commerce-core-go/core"
)

// RemainingLine is the remaining refundable quantity for one product variant.
type RemainingLine struct {
	VariantID core.VariantIDString
	Quantity  int
}

// RefundableQuantities represents the query result containing the remaining
// refundable quantity per variant and whether shipping costs are still refundable.
type RefundableQuantities struct {
	OrderID            core.OrderIDString
	Lines              []RemainingLine
	ShippingRefundable bool

	// Count always equals len(Lines); it is kept so serialized consumers
	// get the line count without counting themselves.
	Count int
}
