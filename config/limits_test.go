package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commercekit/commerce-core-go/config"
	"github.com/commercekit/commerce-core-go/discount"
)

func Test_RuleLimits(t *testing.T) {
	testCases := []struct {
		name     string
		envValue string
		setEnv   bool
		expected int
	}{
		{
			name:     "unset falls back to default",
			setEnv:   false,
			expected: discount.DefaultCheckoutAndOrderRulesLimit,
		},
		{
			name:     "empty falls back to default",
			envValue: "",
			setEnv:   true,
			expected: discount.DefaultCheckoutAndOrderRulesLimit,
		},
		{
			name:     "configured value is used",
			envValue: "10",
			setEnv:   true,
			expected: 10,
		},
		{
			name:     "non-positive falls back to default",
			envValue: "0",
			setEnv:   true,
			expected: discount.DefaultCheckoutAndOrderRulesLimit,
		},
		{
			name:     "unparseable falls back to default",
			envValue: "lots",
			setEnv:   true,
			expected: discount.DefaultCheckoutAndOrderRulesLimit,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			if tc.setEnv {
				t.Setenv("CHECKOUT_AND_ORDER_RULES_LIMIT", tc.envValue)
			}

			// act
			limits := config.RuleLimits()

			// assert
			assert.Equal(t, tc.expected, limits.CheckoutAndOrderRulesLimit)
		})
	}
}
