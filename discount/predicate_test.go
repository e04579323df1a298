package discount_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/commerce-core-go/discount"
)

func Test_ParseCataloguePredicate_BareLeafGroup(t *testing.T) {
	// arrange
	raw := []byte(`{"variantPredicate": {"ids": ["variant-1", "variant-2"]}}`)

	// act
	predicate, err := discount.ParseCataloguePredicate(raw)

	// assert
	require.NoError(t, err)
	assert.Empty(t, predicate.Combinator, "Bare leaf group should have no combinator")
	require.Len(t, predicate.Leaves, 1)
	assert.Equal(t, discount.LeafVariant, predicate.Leaves[0].Kind)
	assert.Equal(t, []string{"variant-1", "variant-2"}, predicate.Leaves[0].IDs)
	assert.False(t, predicate.HasPriceConditions())
}

func Test_ParseCataloguePredicate_Combinator(t *testing.T) {
	// arrange
	raw := []byte(`{"OR": [
		{"productPredicate": {"ids": ["product-1"]}},
		{"categoryPredicate": {"ids": ["category-1"]}}
	]}`)

	// act
	predicate, err := discount.ParseCataloguePredicate(raw)

	// assert
	require.NoError(t, err)
	assert.Equal(t, discount.CombinatorOr, predicate.Combinator)
	require.Len(t, predicate.Operands, 2)
	assert.Equal(t, discount.LeafProduct, predicate.Operands[0].Leaves[0].Kind)
	assert.Equal(t, discount.LeafCategory, predicate.Operands[1].Leaves[0].Kind)
}

func Test_ParseCataloguePredicate_PriceRange_StringAndNumberBounds(t *testing.T) {
	// arrange - clients send decimals as strings or as plain JSON numbers
	raw := []byte(`{"variantPredicate": {"minimalPrice": {"range": {"gte": "25.00", "lte": 100}}}}`)

	// act
	predicate, err := discount.ParseCataloguePredicate(raw)

	// assert
	require.NoError(t, err)
	require.Len(t, predicate.Leaves, 1)

	priceRange, found := predicate.Leaves[0].Ranges["minimalPrice"]
	require.True(t, found, "minimalPrice range condition should be parsed")
	require.NotNil(t, priceRange.Gte)
	require.NotNil(t, priceRange.Lte)
	assert.True(t, priceRange.Gte.Equal(decimalFromString(t, "25.00")))
	assert.True(t, priceRange.Lte.Equal(decimalFromString(t, "100")))
	assert.True(t, predicate.HasPriceConditions())
}

func Test_ParseOrderPredicate_PriceConditionInsideCombinator(t *testing.T) {
	// arrange
	raw := []byte(`{"AND": [
		{"discountedObjectPredicate": {"baseSubtotalPrice": {"range": {"gte": "100"}}}}
	]}`)

	// act
	predicate, err := discount.ParseOrderPredicate(raw)

	// assert
	require.NoError(t, err)
	assert.True(t, predicate.HasPriceConditions(), "Range condition inside a combinator operand should be detected")
}

func Test_ParsePredicate_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expectedErr error
	}{
		{
			name:        "empty document",
			raw:         `{}`,
			expectedErr: discount.ErrEmptyPredicate,
		},
		{
			name:        "not json",
			raw:         `{"variantPredicate": `,
			expectedErr: discount.ErrMalformedPredicate,
		},
		{
			name:        "combinator and leaf as siblings",
			raw:         `{"AND": [{"variantPredicate": {"ids": ["a"]}}], "variantPredicate": {"ids": ["b"]}}`,
			expectedErr: discount.ErrMixedCombinatorAndLeaf,
		},
		{
			name:        "nested combinator",
			raw:         `{"AND": [{"OR": [{"variantPredicate": {"ids": ["a"]}}]}]}`,
			expectedErr: discount.ErrNestedCombinator,
		},
		{
			name:        "empty leaf",
			raw:         `{"variantPredicate": {}}`,
			expectedErr: discount.ErrEmptyPredicate,
		},
		{
			name:        "combinator with empty operand list",
			raw:         `{"AND": []}`,
			expectedErr: discount.ErrMalformedPredicate,
		},
		{
			name:        "range without bounds",
			raw:         `{"variantPredicate": {"minimalPrice": {"range": {}}}}`,
			expectedErr: discount.ErrMalformedPredicate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := discount.ParseCataloguePredicate([]byte(tc.raw))

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func decimalFromString(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	parsed, err := decimal.NewFromString(value)
	require.NoError(t, err)

	return parsed
}

func Test_ParseOrderPredicate_RejectsCatalogueLeaves(t *testing.T) {
	// arrange - catalogue leaf kinds are not valid in order predicates
	raw := []byte(`{"variantPredicate": {"ids": ["variant-1"]}}`)

	// act
	_, err := discount.ParseOrderPredicate(raw)

	// assert
	assert.ErrorIs(t, err, discount.ErrUnknownLeafKind)
}
