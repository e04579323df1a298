package core

import (
	"time"

	"github.com/google/uuid"
)

// PromotionRuleCreatedEventType is the event type identifier.
const PromotionRuleCreatedEventType = "PromotionRuleCreated"

// PromotionRuleCreated represents when a new rule was added to a promotion.
type PromotionRuleCreated struct {
	EventType   EventTypeString
	PromotionID PromotionIDString
	RuleID      RuleIDString
	RuleName    string
	Family      string
	OccurredAt  OccurredAtTS
}

// BuildPromotionRuleCreated creates a new PromotionRuleCreated event.
func BuildPromotionRuleCreated(
	promotionID uuid.UUID,
	ruleID uuid.UUID,
	ruleName string,
	family string,
	occurredAt time.Time,
) PromotionRuleCreated {

	event := PromotionRuleCreated{
		EventType:   PromotionRuleCreatedEventType,
		PromotionID: promotionID.String(),
		RuleID:      ruleID.String(),
		RuleName:    ruleName,
		Family:      family,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e PromotionRuleCreated) IsEventType() string {
	return PromotionRuleCreatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PromotionRuleCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e PromotionRuleCreated) IsErrorEvent() bool {
	return false
}
