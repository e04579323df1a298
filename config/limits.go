package config

import (
	"os"
	"strconv"

	"github.com/commercekit/commerce-core-go/discount"
)

const envCheckoutAndOrderRulesLimit = "CHECKOUT_AND_ORDER_RULES_LIMIT"

// RuleLimits returns the validation limits for promotion rules,
// with the checkout-and-order rules limit read from CHECKOUT_AND_ORDER_RULES_LIMIT.
// Unset, empty or non-positive values fall back to the default limit.
func RuleLimits() discount.Limits {
	limits := discount.DefaultLimits()

	raw := os.Getenv(envCheckoutAndOrderRulesLimit)
	if raw == "" {
		return limits
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return limits
	}

	limits.CheckoutAndOrderRulesLimit = parsed

	return limits
}
