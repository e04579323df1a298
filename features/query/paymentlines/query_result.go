package paymentlines

import (
	"github.com/commercekit/commerce-core-go/payment"
)

// PaymentLines represents the query result: the flattened line view for one payment.
type PaymentLines struct {
	PaymentID string
	Lines     []payment.PaymentLine

	// Count always equals len(Lines); it is kept so serialized consumers
	// get the line count without counting themselves.
	Count int
}
