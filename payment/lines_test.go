package payment_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/commerce-core-go/payment"
)

func Test_BuildPaymentLines_FullPayment(t *testing.T) {
	// arrange
	order := givenOrderSnapshot(t)
	payable := payment.PayableFromOrder(order)
	info := payment.PaymentInfo{Amount: decimal.RequireFromString("100.00")}

	// act
	lines := payment.BuildPaymentLines(payable, info)

	// assert - one line per product line plus the shipping line, no difference line
	require.Len(t, lines, 3)

	assert.Equal(t, order.Lines[0].VariantID, lines[0].ID)
	assert.Equal(t, "Blue Hoodie, Size M", lines[0].ProductName)
	assert.Equal(t, "SKU-HOODIE-M", lines[0].ProductSKU)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].Gross.Equal(decimal.RequireFromString("35.00")))

	assert.Equal(t, order.Lines[1].VariantID, lines[1].ID)

	assert.Equal(t, payment.ShippingLineID, lines[2].ID)
	assert.Equal(t, "Shipping", lines[2].ProductName)
	assert.Equal(t, "Shipping", lines[2].ProductSKU)
	assert.Equal(t, 1, lines[2].Quantity)
	assert.True(t, lines[2].Gross.Equal(decimal.RequireFromString("10.00")))
}

func Test_BuildPaymentLines_PartialPayment_AppendsDifferenceLine(t *testing.T) {
	// arrange - the recorded amount covers less than the computed total
	payable := payment.PayableFromOrder(givenOrderSnapshot(t))
	info := payment.PaymentInfo{Amount: decimal.RequireFromString("92.66"), Partial: true}

	// act
	lines := payment.BuildPaymentLines(payable, info)

	// assert
	require.Len(t, lines, 4)

	differenceLine := lines[3]
	assert.Equal(t, payment.PartialPaymentDifferenceLineID, differenceLine.ID)
	assert.Equal(t, "Partial payment difference", differenceLine.ProductName)
	assert.Equal(t, 1, differenceLine.Quantity)
	assert.True(t, differenceLine.Gross.Equal(decimal.RequireFromString("-7.34")),
		"Difference should be amount minus total, got %s", differenceLine.Gross)
}

func Test_BuildPaymentLines_IsDeterministic(t *testing.T) {
	// arrange
	payable := payment.PayableFromOrder(givenOrderSnapshot(t))
	info := payment.PaymentInfo{Amount: decimal.RequireFromString("92.66"), Partial: true}

	// act
	first := payment.BuildPaymentLines(payable, info)
	second := payment.BuildPaymentLines(payable, info)

	// assert
	assert.Equal(t, first, second, "Same inputs should produce identical output")
}

func Test_BuildPaymentLines_FromCheckout(t *testing.T) {
	// arrange
	checkout := payment.CheckoutSnapshot{
		ID: uuid.New(),
		Lines: []payment.CheckoutLineSnapshot{
			{
				VariantID:      uuid.New().String(),
				ProductName:    "Red Sneakers",
				VariantName:    "Size 42",
				ProductSKU:     "SKU-SNEAKER-42",
				Quantity:       1,
				UnitPriceGross: decimal.RequireFromString("59.99"),
			},
		},
		ShippingPriceGross: decimal.RequireFromString("4.99"),
		TotalGross:         decimal.RequireFromString("64.98"),
		Currency:           "EUR",
	}
	payable := payment.PayableFromCheckout(checkout)
	info := payment.PaymentInfo{Amount: decimal.RequireFromString("64.98")}

	// act
	lines := payment.BuildPaymentLines(payable, info)

	// assert
	require.Len(t, lines, 2)
	assert.Equal(t, "Red Sneakers, Size 42", lines[0].ProductName)
	assert.Equal(t, payment.ShippingLineID, lines[1].ID)
	assert.True(t, lines[1].Gross.Equal(decimal.RequireFromString("4.99")))
}

// Test helper functions with t.Helper() for better error reporting

func givenOrderSnapshot(t *testing.T) payment.OrderSnapshot {
	t.Helper()

	return payment.OrderSnapshot{
		ID: uuid.New(),
		Lines: []payment.OrderLineSnapshot{
			{
				ID:             uuid.New(),
				VariantID:      uuid.New().String(),
				ProductName:    "Blue Hoodie",
				VariantName:    "Size M",
				ProductSKU:     "SKU-HOODIE-M",
				Quantity:       2,
				UnitPriceGross: decimal.RequireFromString("35.00"),
			},
			{
				ID:             uuid.New(),
				VariantID:      uuid.New().String(),
				ProductName:    "White Socks",
				VariantName:    "One Size",
				ProductSKU:     "SKU-SOCKS",
				Quantity:       1,
				UnitPriceGross: decimal.RequireFromString("20.00"),
			},
		},
		ShippingPriceGross: decimal.RequireFromString("10.00"),
		TotalGross:         decimal.RequireFromString("100.00"),
		Currency:           "USD",
	}
}
