package core

import (
	"time"
)

// Instead of implementing full value objects, alias types and helper methods are used here ...

// EventTypeString represents an event type identifier
type EventTypeString = string

// PromotionIDString represents a promotion identifier
type PromotionIDString = string

// RuleIDString represents a promotion rule identifier
type RuleIDString = string

// OrderIDString represents an order identifier
type OrderIDString = string

// VariantIDString represents a product variant identifier
type VariantIDString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
