package discount

import "fmt"

// ErrorCodeString classifies a validation failure on a single input field.
type ErrorCodeString = string

const (
	ErrorCodeRequired                     ErrorCodeString = "REQUIRED"
	ErrorCodeInvalid                      ErrorCodeString = "INVALID"
	ErrorCodeInvalidPrecision             ErrorCodeString = "INVALID_PRECISION"
	ErrorCodeMixedPredicates              ErrorCodeString = "MIXED_PREDICATES"
	ErrorCodeMixedPromotionPredicates     ErrorCodeString = "MIXED_PROMOTION_PREDICATES"
	ErrorCodeMultipleCurrenciesNotAllowed ErrorCodeString = "MULTIPLE_CURRENCIES_NOT_ALLOWED"
	ErrorCodeMissingChannels              ErrorCodeString = "MISSING_CHANNELS"
	ErrorCodeRulesNumberLimit             ErrorCodeString = "RULES_NUMBER_LIMIT"
)

// Input field names as they appear in validation errors.
const (
	FieldCataloguePredicate        = "cataloguePredicate"
	FieldOrderPredicate            = "orderPredicate"
	FieldCheckoutAndOrderPredicate = "checkoutAndOrderPredicate"
	FieldRewardValue               = "rewardValue"
	FieldRewardValueType           = "rewardValueType"
	FieldRewardType                = "rewardType"
	FieldChannels                  = "channels"
)

// FieldError is one validation failure, attributed to the input field that caused it.
// RulesLimit and ExceedBy are only set for RULES_NUMBER_LIMIT errors.
type FieldError struct {
	Field      string
	Code       ErrorCodeString
	Message    string
	RulesLimit int
	ExceedBy   int
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

func requiredError(field string, message string) FieldError {
	return FieldError{Field: field, Code: ErrorCodeRequired, Message: message}
}

func invalidError(field string, message string) FieldError {
	return FieldError{Field: field, Code: ErrorCodeInvalid, Message: message}
}
