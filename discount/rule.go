package discount

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercekit/commerce-core-go/money"
)

// RewardTypeString identifies what a rule's reward applies to.
type RewardTypeString = string

// RewardValueTypeString identifies how a rule's reward value is interpreted.
type RewardValueTypeString = string

// PredicateFamilyString identifies which predicate family a rule belongs to.
// All rules of one promotion must share a family.
type PredicateFamilyString = string

const (
	RewardTypeSubtotalDiscount RewardTypeString = "SUBTOTAL_DISCOUNT"
	RewardTypeGift             RewardTypeString = "GIFT"

	RewardValueTypeFixed      RewardValueTypeString = "FIXED"
	RewardValueTypePercentage RewardValueTypeString = "PERCENTAGE"

	FamilyCatalogue        PredicateFamilyString = "CATALOGUE"
	FamilyOrder            PredicateFamilyString = "ORDER"
	FamilyCheckoutAndOrder PredicateFamilyString = "CHECKOUT_AND_ORDER"
	FamilyNone             PredicateFamilyString = ""
)

// Channel is the slice of a sales channel the validator needs:
// identity, slug for error messages, and the channel currency.
type Channel struct {
	ID       uuid.UUID
	Slug     string
	Currency money.CurrencyCodeString
}

// PromotionSnapshot carries the state of the owning promotion that rule validation
// depends on. Family is the family of the promotion's existing rules (FamilyNone
// when the promotion has no rules yet). OrderFamilyRuleCount counts existing rules
// in the order and checkout-and-order families. ConvertedFromSale marks promotions
// migrated from the legacy sale model.
type PromotionSnapshot struct {
	ID                   uuid.UUID
	Family               PredicateFamilyString
	OrderFamilyRuleCount int
	ConvertedFromSale    bool
}

// RuleInput is the raw, untrusted input for creating a promotion rule.
// Optional fields are pointers so that "absent" and "zero" stay distinct.
// The predicate documents arrive as raw JSON and are parsed during validation.
type RuleInput struct {
	Name                      string
	Description               []byte
	Channels                  []Channel
	RewardType                *RewardTypeString
	RewardValueType           *RewardValueTypeString
	RewardValue               *decimal.Decimal
	CataloguePredicate        []byte
	OrderPredicate            []byte
	CheckoutAndOrderPredicate []byte
}

// Limits holds the configurable validation limits.
type Limits struct {
	CheckoutAndOrderRulesLimit int
}

// DefaultCheckoutAndOrderRulesLimit is used when no limit is configured.
const DefaultCheckoutAndOrderRulesLimit = 5

// DefaultLimits returns the validation limits with their default values.
func DefaultLimits() Limits {
	return Limits{CheckoutAndOrderRulesLimit: DefaultCheckoutAndOrderRulesLimit}
}

// PreparedRule is the validated, normalized form of a rule, ready to persist.
// Currency is only set for FIXED rewards, where all channels share one currency.
type PreparedRule struct {
	ID              uuid.UUID
	PromotionID     uuid.UUID
	Name            string
	Description     []byte
	Family          PredicateFamilyString
	Predicate       Predicate
	PredicateJSON   []byte
	ChannelIDs      []uuid.UUID
	Currency        money.CurrencyCodeString
	RewardType      *RewardTypeString
	RewardValueType RewardValueTypeString
	RewardValue     decimal.Decimal
}
