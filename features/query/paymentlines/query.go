package paymentlines

import (
	"github.com/google/uuid"
)

const (
	queryType = "PaymentLines"
)

// Query represents the intent to build the payment lines for a payment.
type Query struct {
	PaymentID uuid.UUID
}

// BuildQuery creates a new Query with the provided payment ID.
func BuildQuery(paymentID uuid.UUID) Query {
	return Query{
		PaymentID: paymentID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
