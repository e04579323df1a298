// Package createpromotionrule implements the Create Promotion Rule use case.
//
// This feature validates a new promotion rule against the promotion it belongs to,
// persists the prepared rule, clears the promotion's converted-from-sale marker, and
// appends a PromotionRuleCreated event to the commerce event log. Catalogue rules
// additionally get a discounted-price recalculation scheduled after persistence.
//
// Validation failures are returned as a typed ValidationError carrying the complete
// list of field errors; nothing is persisted and no event is appended in that case.
package createpromotionrule
