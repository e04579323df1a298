package payment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercekit/commerce-core-go/money"
)

// LineIdentityString identifies a payment or refund line. Product lines use the
// variant identity (a UUID string); the two sentinel identities below are reserved
// words that can never collide with a UUID.
type LineIdentityString = string

const (
	// ShippingLineID identifies the synthetic shipping line.
	ShippingLineID LineIdentityString = "SHIPPING"

	// PartialPaymentDifferenceLineID identifies the synthetic line that balances a
	// partial payment against the full computed total.
	PartialPaymentDifferenceLineID LineIdentityString = "PARTIAL_PAYMENT_DIFFERENCE"
)

const shippingLineName = "Shipping"

// OrderLineSnapshot is one product line of an order as the reconciliation engine sees it.
type OrderLineSnapshot struct {
	ID             uuid.UUID
	VariantID      LineIdentityString
	ProductName    string
	VariantName    string
	ProductSKU     string
	Quantity       int
	UnitPriceGross decimal.Decimal
}

// OrderSnapshot is the read-only order state both contracts work from.
type OrderSnapshot struct {
	ID                 uuid.UUID
	Lines              []OrderLineSnapshot
	ShippingPriceGross decimal.Decimal
	TotalGross         decimal.Decimal
	Currency           money.CurrencyCodeString
}

// CheckoutLineSnapshot is one product line of a checkout.
type CheckoutLineSnapshot struct {
	VariantID      LineIdentityString
	ProductName    string
	VariantName    string
	ProductSKU     string
	Quantity       int
	UnitPriceGross decimal.Decimal
}

// CheckoutSnapshot is the read-only checkout state payment lines are built from.
type CheckoutSnapshot struct {
	ID                 uuid.UUID
	Lines              []CheckoutLineSnapshot
	ShippingPriceGross decimal.Decimal
	TotalGross         decimal.Decimal
	Currency           money.CurrencyCodeString
}

type payableLine struct {
	variantID      LineIdentityString
	productName    string
	variantName    string
	productSKU     string
	quantity       int
	unitPriceGross decimal.Decimal
}

// Payable is the common shape of something a payment can be taken for.
// It is built from exactly one of an order or a checkout; the constructors make
// mixing the two sources impossible.
type Payable struct {
	lines              []payableLine
	shippingPriceGross decimal.Decimal
	totalGross         decimal.Decimal
}

// PayableFromOrder projects an order snapshot onto the payable shape.
func PayableFromOrder(order OrderSnapshot) Payable {
	lines := make([]payableLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, payableLine{
			variantID:      line.VariantID,
			productName:    line.ProductName,
			variantName:    line.VariantName,
			productSKU:     line.ProductSKU,
			quantity:       line.Quantity,
			unitPriceGross: line.UnitPriceGross,
		})
	}

	return Payable{
		lines:              lines,
		shippingPriceGross: order.ShippingPriceGross,
		totalGross:         order.TotalGross,
	}
}

// PayableFromCheckout projects a checkout snapshot onto the payable shape.
func PayableFromCheckout(checkout CheckoutSnapshot) Payable {
	lines := make([]payableLine, 0, len(checkout.Lines))
	for _, line := range checkout.Lines {
		lines = append(lines, payableLine{
			variantID:      line.VariantID,
			productName:    line.ProductName,
			variantName:    line.VariantName,
			productSKU:     line.ProductSKU,
			quantity:       line.Quantity,
			unitPriceGross: line.UnitPriceGross,
		})
	}

	return Payable{
		lines:              lines,
		shippingPriceGross: checkout.ShippingPriceGross,
		totalGross:         checkout.TotalGross,
	}
}

// PaymentInfo describes the payment the lines are built for. Amount is the amount
// actually recorded for the payment; Partial marks it as covering less than the
// payable's full total.
type PaymentInfo struct {
	Amount  decimal.Decimal
	Partial bool
}

// PaymentLine is one line of the flattened payment view handed to payment providers.
type PaymentLine struct {
	ID          LineIdentityString
	Gross       decimal.Decimal
	Quantity    int
	ProductName string
	ProductSKU  string
}

// BuildPaymentLines flattens a payable into provider-facing payment lines: one line
// per product line, then exactly one shipping line, then, for partial payments, a
// difference line whose gross is the recorded amount minus the full computed total
// (negative when the payment covers less than the total). The function is pure and
// deterministic; calling it twice with the same inputs yields identical output.
func BuildPaymentLines(payable Payable, info PaymentInfo) []PaymentLine {
	paymentLines := make([]PaymentLine, 0, len(payable.lines)+2)

	for _, line := range payable.lines {
		paymentLines = append(paymentLines, PaymentLine{
			ID:          line.variantID,
			Gross:       line.unitPriceGross,
			Quantity:    line.quantity,
			ProductName: fmt.Sprintf("%s, %s", line.productName, line.variantName),
			ProductSKU:  line.productSKU,
		})
	}

	paymentLines = append(paymentLines, PaymentLine{
		ID:          ShippingLineID,
		Gross:       payable.shippingPriceGross,
		Quantity:    1,
		ProductName: shippingLineName,
		ProductSKU:  shippingLineName,
	})

	if info.Partial {
		paymentLines = append(paymentLines, PaymentLine{
			ID:          PartialPaymentDifferenceLineID,
			Gross:       info.Amount.Sub(payable.totalGross),
			Quantity:    1,
			ProductName: "Partial payment difference",
		})
	}

	return paymentLines
}
