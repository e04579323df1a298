package discount

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercekit/commerce-core-go/money"
)

type populatedPredicate struct {
	field  string
	family PredicateFamilyString
	raw    []byte
}

// ValidateAndPrepare validates a rule input against the owning promotion and the
// configured limits. It accumulates all detectable failures instead of stopping at
// the first one, so callers can report every broken field at once. On success the
// returned PreparedRule carries the parsed predicate and normalized reward fields;
// on failure the rule is zero and the error list is non-empty.
func ValidateAndPrepare(input RuleInput, promotion PromotionSnapshot, limits Limits) (PreparedRule, []FieldError) {
	var fieldErrors []FieldError

	populated := populatedPredicates(input)

	switch len(populated) {
	case 1:
		// exactly one predicate family, the happy path
	case 0:
		fieldErrors = append(fieldErrors,
			requiredError(FieldCataloguePredicate, "at least one predicate is required"),
			requiredError(FieldOrderPredicate, "at least one predicate is required"),
		)
	default:
		for _, predicate := range populated {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   predicate.field,
				Code:    ErrorCodeMixedPredicates,
				Message: "only one predicate family may be used per rule",
			})
		}
	}

	if input.RewardValue == nil {
		fieldErrors = append(fieldErrors, requiredError(FieldRewardValue, "reward value is required"))
	}

	if input.RewardValueType == nil {
		fieldErrors = append(fieldErrors, requiredError(FieldRewardValueType, "reward value type is required"))
	}

	if len(populated) != 1 {
		return PreparedRule{}, fieldErrors
	}

	chosen := populated[0]

	if promotion.Family != FamilyNone && promotion.Family != chosen.family {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   chosen.field,
			Code:    ErrorCodeMixedPromotionPredicates,
			Message: "all rules of a promotion must use the same predicate family",
		})
	}

	predicate, parsed := parseChosenPredicate(chosen, &fieldErrors)

	fieldErrors = append(fieldErrors, validateRewardType(input, chosen.family)...)
	fieldErrors = append(fieldErrors, validateRewardAndCurrencies(input, chosen, predicate, parsed)...)
	fieldErrors = append(fieldErrors, validateRulesLimit(chosen, promotion, limits)...)

	if len(fieldErrors) > 0 {
		return PreparedRule{}, fieldErrors
	}

	return buildPreparedRule(input, promotion, chosen, predicate), nil
}

func populatedPredicates(input RuleInput) []populatedPredicate {
	var populated []populatedPredicate

	if len(input.CataloguePredicate) > 0 {
		populated = append(populated, populatedPredicate{
			field:  FieldCataloguePredicate,
			family: FamilyCatalogue,
			raw:    input.CataloguePredicate,
		})
	}

	if len(input.OrderPredicate) > 0 {
		populated = append(populated, populatedPredicate{
			field:  FieldOrderPredicate,
			family: FamilyOrder,
			raw:    input.OrderPredicate,
		})
	}

	if len(input.CheckoutAndOrderPredicate) > 0 {
		populated = append(populated, populatedPredicate{
			field:  FieldCheckoutAndOrderPredicate,
			family: FamilyCheckoutAndOrder,
			raw:    input.CheckoutAndOrderPredicate,
		})
	}

	return populated
}

func parseChosenPredicate(chosen populatedPredicate, fieldErrors *[]FieldError) (Predicate, bool) {
	var (
		predicate Predicate
		err       error
	)

	if chosen.family == FamilyCatalogue {
		predicate, err = ParseCataloguePredicate(chosen.raw)
	} else {
		predicate, err = ParseOrderPredicate(chosen.raw)
	}

	if err != nil {
		*fieldErrors = append(*fieldErrors, invalidError(chosen.field, err.Error()))

		return Predicate{}, false
	}

	return predicate, true
}

// validateRewardType enforces that order-family rules name what the reward applies to,
// while catalogue rules must not (their reward always applies to the matched items).
func validateRewardType(input RuleInput, family PredicateFamilyString) []FieldError {
	if family == FamilyCatalogue {
		if input.RewardType != nil {
			return []FieldError{invalidError(FieldRewardType, "reward type is not allowed for catalogue rules")}
		}

		return nil
	}

	if input.RewardType == nil {
		return []FieldError{requiredError(FieldRewardType, "reward type is required for order rules")}
	}

	switch *input.RewardType {
	case RewardTypeSubtotalDiscount, RewardTypeGift:
		return nil
	default:
		return []FieldError{invalidError(FieldRewardType, fmt.Sprintf("unknown reward type %q", *input.RewardType))}
	}
}

// validateRewardAndCurrencies checks the reward value against the value type and the
// channel currencies. All currency checks are skipped when the value type is missing,
// since they would be attributed to the wrong field.
func validateRewardAndCurrencies(
	input RuleInput,
	chosen populatedPredicate,
	predicate Predicate,
	predicateParsed bool,
) []FieldError {

	if input.RewardValueType == nil {
		return nil
	}

	var fieldErrors []FieldError

	currencies := distinctCurrencies(input.Channels)
	multiCurrencyReported := false

	switch *input.RewardValueType {
	case RewardValueTypePercentage:
		if input.RewardValue != nil {
			hundred := decimal.NewFromInt(100)
			if input.RewardValue.IsNegative() || input.RewardValue.GreaterThan(hundred) {
				fieldErrors = append(fieldErrors,
					invalidError(FieldRewardValue, "percentage reward value must be between 0 and 100"))
			}
		}

	case RewardValueTypeFixed:
		switch {
		case len(input.Channels) == 0:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   FieldChannels,
				Code:    ErrorCodeMissingChannels,
				Message: "fixed rewards require at least one channel",
			})

		case len(currencies) > 1:
			fieldErrors = append(fieldErrors, multipleCurrenciesError(chosen.family))
			multiCurrencyReported = true

		case input.RewardValue != nil:
			if err := money.ValidatePrecision(*input.RewardValue, currencies[0]); err != nil {
				fieldErrors = append(fieldErrors, FieldError{
					Field:   FieldRewardValue,
					Code:    ErrorCodeInvalidPrecision,
					Message: fmt.Sprintf("reward value has too many decimal places for currency %s", currencies[0]),
				})
			}
		}

	default:
		fieldErrors = append(fieldErrors,
			invalidError(FieldRewardValueType, fmt.Sprintf("unknown reward value type %q", *input.RewardValueType)))
	}

	// Price-based order conditions compare against channel money, so they pin the rule
	// to a single currency regardless of the reward value type.
	if chosen.family != FamilyCatalogue && predicateParsed && predicate.HasPriceConditions() {
		if len(currencies) > 1 && !multiCurrencyReported {
			fieldErrors = append(fieldErrors, multipleCurrenciesError(chosen.family))
		}
	}

	return fieldErrors
}

// multipleCurrenciesError is attributed to the field that caused the multi-currency
// constraint: the value type for catalogue rules, the channel set for order rules.
func multipleCurrenciesError(family PredicateFamilyString) FieldError {
	field := FieldChannels
	if family == FamilyCatalogue {
		field = FieldRewardValueType
	}

	return FieldError{
		Field:   field,
		Code:    ErrorCodeMultipleCurrenciesNotAllowed,
		Message: "all channels of this rule must use the same currency",
	}
}

func validateRulesLimit(chosen populatedPredicate, promotion PromotionSnapshot, limits Limits) []FieldError {
	if chosen.family == FamilyCatalogue {
		return nil
	}

	limit := limits.CheckoutAndOrderRulesLimit
	if limit <= 0 {
		limit = DefaultCheckoutAndOrderRulesLimit
	}

	newCount := promotion.OrderFamilyRuleCount + 1
	if newCount <= limit {
		return nil
	}

	return []FieldError{{
		Field:      chosen.field,
		Code:       ErrorCodeRulesNumberLimit,
		Message:    fmt.Sprintf("number of rules per promotion is limited to %d", limit),
		RulesLimit: limit,
		ExceedBy:   newCount - limit,
	}}
}

func buildPreparedRule(
	input RuleInput,
	promotion PromotionSnapshot,
	chosen populatedPredicate,
	predicate Predicate,
) PreparedRule {

	channelIDs := make([]uuid.UUID, 0, len(input.Channels))
	for _, channel := range input.Channels {
		channelIDs = append(channelIDs, channel.ID)
	}

	currency := money.CurrencyCodeString("")
	if *input.RewardValueType == RewardValueTypeFixed {
		currency = input.Channels[0].Currency
	}

	return PreparedRule{
		ID:              uuid.New(),
		PromotionID:     promotion.ID,
		Name:            input.Name,
		Description:     input.Description,
		Family:          chosen.family,
		Predicate:       predicate,
		PredicateJSON:   chosen.raw,
		ChannelIDs:      channelIDs,
		Currency:        currency,
		RewardType:      input.RewardType,
		RewardValueType: *input.RewardValueType,
		RewardValue:     *input.RewardValue,
	}
}

func distinctCurrencies(channels []Channel) []money.CurrencyCodeString {
	seen := make(map[money.CurrencyCodeString]struct{}, len(channels))
	currencies := make([]money.CurrencyCodeString, 0, len(channels))

	for _, channel := range channels {
		if _, alreadySeen := seen[channel.Currency]; alreadySeen {
			continue
		}

		seen[channel.Currency] = struct{}{}
		currencies = append(currencies, channel.Currency)
	}

	return currencies
}
