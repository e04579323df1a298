package paymentlines

import (
	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/payment"
)

// ProjectPaymentLines implements the query logic to build the payment line view.
// This is a pure function with no side effects - it takes the payable state and the
// payment info and returns the flattened lines.
//
// Query Logic:
//
//	GIVEN: A payable (order or checkout) and the payment recorded for it
//	WHEN: PaymentLines query is executed
//	THEN: One line per product line, one shipping line, and for partial payments
//	      a difference line with gross = recorded amount - full computed total
func ProjectPaymentLines(paymentID uuid.UUID, payable payment.Payable, info payment.PaymentInfo) PaymentLines {
	lines := payment.BuildPaymentLines(payable, info)

	return PaymentLines{
		PaymentID: paymentID.String(),
		Lines:     lines,
		Count:     len(lines),
	}
}
