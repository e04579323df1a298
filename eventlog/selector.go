package eventlog

import (
	"slices"
	"time"
)

type SelectorEventTypeString = string
type ScopeKeyString = string
type ScopeValString = string

/***** Selector *****/

// Selector describes which slice of the commerce event log an operation works on:
// event types, payload scopes (e.g. the orderId or promotionId an event belongs to),
// and an optional occurred-at window.
type Selector struct {
	items         []SelectorItem
	occurredFrom  time.Time
	occurredUntil time.Time
}

func (s Selector) Items() []SelectorItem {
	return s.items
}

func (s Selector) OccurredFrom() time.Time {
	return s.occurredFrom
}

func (s Selector) OccurredUntil() time.Time {
	return s.occurredUntil
}

/***** SelectorItem *****/

type SelectorItem struct {
	eventTypes         []SelectorEventTypeString
	scopes             []Scope
	allScopesMustMatch bool
}

func (si SelectorItem) EventTypes() []SelectorEventTypeString {
	return si.eventTypes
}

func (si SelectorItem) Scopes() []Scope {
	return si.scopes
}

func (si SelectorItem) AllScopesMustMatch() bool {
	return si.allScopesMustMatch
}

/***** Scope *****/

// Scope restricts matching entries to those whose payload contains the given
// key/value pair at the top level.
type Scope struct {
	key ScopeKeyString
	val ScopeValString
}

func S(key ScopeKeyString, val ScopeValString) Scope {
	return Scope{key: key, val: val}
}

func (s Scope) Key() ScopeKeyString {
	return s.key
}

func (s Scope) Val() ScopeValString {
	return s.val
}

/***** SelectorBuilder *****/

// SelectorBuilder builds a generic log selector to be used in DB type-specific engine
// implementations to build queries for the specific query language, e.g.: Postgres, Mysql, MongoDB, ...
// It is designed with the idea to only allow "useful" selector combinations for event-sourced workflows:
//
//   - empty selector
//   - (eventType)
//   - (eventType OR eventType...)
//   - (scope)
//   - (scope OR scope...)
//   - (scope AND scope...)
//   - (eventType AND scope)
//   - (eventType AND (scope OR scope...))
//   - (eventType AND (scope AND scope...))
//   - ((eventType OR eventType...) AND (scope OR scope...))
//   - ((eventType OR eventType...) AND (scope AND scope...))
//   - ((eventType AND scope) OR (eventType AND scope)...) -> multiple SelectorItem(s)
type SelectorBuilder interface {
	// Matching starts a new SelectorItem.
	Matching() EmptySelectorItemBuilder

	// MatchingAnyEntry directly creates an empty Selector.
	MatchingAnyEntry() Selector
}

type EmptySelectorItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current SelectorItem.
	//
	// It sanitizes the input:
	//	- removing empty EventTypes ("")
	//	- sorting the EventTypes
	//	- removing duplicate EventTypes
	AnyEventTypeOf(eventType SelectorEventTypeString, eventTypes ...SelectorEventTypeString) SelectorItemBuilderLackingScopes

	// AnyScopeOf adds one or multiple Scope(s) to the current SelectorItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial Scope(s) (key or val is "")
	//	- sorting the Scope(s)
	//	- removing duplicate Scope(s)
	AnyScopeOf(scope Scope, scopes ...Scope) SelectorItemBuilderLackingEventTypes

	AllScopesOf(scope Scope, scopes ...Scope) SelectorItemBuilderLackingEventTypes
}

type SelectorItemBuilderLackingScopes interface {
	// AndAnyScopeOf adds one or multiple Scope(s) to the current SelectorItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial Scope(s) (key or val is "")
	//	- sorting the Scope(s)
	//	- removing duplicate Scope(s)
	AndAnyScopeOf(scope Scope, scopes ...Scope) CompletedSelectorItemBuilder

	AndAllScopesOf(scope Scope, scopes ...Scope) CompletedSelectorItemBuilder

	// OrMatching finalizes the current SelectorItem and starts a new one.
	OrMatching() EmptySelectorItemBuilder

	// OccurredWithin restricts the selector to entries inside the given time window.
	OccurredWithin(from time.Time, until time.Time) CompletedSelectorItemBuilder

	// Finalize returns the Selector once it has at least one SelectorItem with at least one EventType OR one Scope.
	Finalize() Selector
}

type SelectorItemBuilderLackingEventTypes interface {
	// AndAnyEventTypeOf adds one or multiple EventTypes to the current SelectorItem.
	//
	// It sanitizes the input:
	//	- removing empty EventTypes ("")
	//	- sorting the EventTypes
	//	- removing duplicate EventTypes
	AndAnyEventTypeOf(eventType SelectorEventTypeString, eventTypes ...SelectorEventTypeString) CompletedSelectorItemBuilder

	// OrMatching finalizes the current SelectorItem and starts a new one.
	OrMatching() EmptySelectorItemBuilder

	// OccurredWithin restricts the selector to entries inside the given time window.
	OccurredWithin(from time.Time, until time.Time) CompletedSelectorItemBuilder

	// Finalize returns the Selector once it has at least one SelectorItem with at least one EventType OR one Scope.
	Finalize() Selector
}

type CompletedSelectorItemBuilder interface {
	// OrMatching finalizes the current SelectorItem and starts a new one.
	OrMatching() EmptySelectorItemBuilder

	// OccurredWithin restricts the selector to entries inside the given time window.
	OccurredWithin(from time.Time, until time.Time) CompletedSelectorItemBuilder

	// Finalize returns the Selector once it has at least one SelectorItem with at least one EventType OR one Scope.
	Finalize() Selector
}

// selectorBuilder implements all the interfaces of SelectorBuilder
type selectorBuilder struct {
	selector            Selector
	currentSelectorItem SelectorItem
}

// BuildEntrySelector creates a SelectorBuilder which must eventually be finalized with Finalize() or MatchingAnyEntry().
func BuildEntrySelector() SelectorBuilder {
	return selectorBuilder{}
}

// Matching starts a new SelectorItem.
func (sb selectorBuilder) Matching() EmptySelectorItemBuilder {
	sb.currentSelectorItem = SelectorItem{}

	return sb
}

// AnyEventTypeOf adds one or multiple EventTypes to the current SelectorItem expecting ANY EventType to match.
//
// It sanitizes the input:
//   - removing empty EventTypes ("")
//   - sorting the EventTypes
//   - removing duplicate EventTypes
func (sb selectorBuilder) AnyEventTypeOf(
	eventType SelectorEventTypeString,
	eventTypes ...SelectorEventTypeString,
) SelectorItemBuilderLackingScopes {

	sb.currentSelectorItem.eventTypes = append(
		sb.currentSelectorItem.eventTypes,
		sb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return sb
}

// AndAnyEventTypeOf adds one or multiple EventTypes to the current SelectorItem expecting ANY EventType to match.
//
// It sanitizes the input:
//   - removing empty EventTypes ("")
//   - sorting the EventTypes
//   - removing duplicate EventTypes
func (sb selectorBuilder) AndAnyEventTypeOf(
	eventType SelectorEventTypeString,
	eventTypes ...SelectorEventTypeString,
) CompletedSelectorItemBuilder {

	return sb.AnyEventTypeOf(eventType, eventTypes...)
}

func (sb selectorBuilder) sanitizeEventTypes(
	eventType SelectorEventTypeString,
	eventTypes ...SelectorEventTypeString,
) []SelectorEventTypeString {

	allEventTypes := append([]SelectorEventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e SelectorEventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

// AnyScopeOf adds one or multiple Scope(s) to the current SelectorItem expecting ANY scope to match.
//
// It sanitizes the input:
//   - removing empty/partial Scope(s) (key or val is "")
//   - sorting the Scope(s)
//   - removing duplicate Scope(s)
func (sb selectorBuilder) AnyScopeOf(
	scope Scope,
	scopes ...Scope,
) SelectorItemBuilderLackingEventTypes {

	sb.currentSelectorItem.scopes = append(
		sb.currentSelectorItem.scopes,
		sb.sanitizeScopes(scope, scopes...)...,
	)

	return sb
}

// AndAnyScopeOf adds one or multiple Scope(s) to the current SelectorItem expecting ANY scope to match.
//
// It sanitizes the input:
//   - removing empty/partial Scope(s) (key or val is "")
//   - sorting the Scope(s)
//   - removing duplicate Scope(s)
func (sb selectorBuilder) AndAnyScopeOf(
	scope Scope,
	scopes ...Scope,
) CompletedSelectorItemBuilder {

	return sb.AnyScopeOf(scope, scopes...)
}

// AllScopesOf adds one or multiple Scope(s) to the current SelectorItem expecting ALL scopes to match.
//
// It sanitizes the input:
//   - removing empty/partial Scope(s) (key or val is "")
//   - sorting the Scope(s)
//   - removing duplicate Scope(s)
func (sb selectorBuilder) AllScopesOf(
	scope Scope,
	scopes ...Scope,
) SelectorItemBuilderLackingEventTypes {

	sb.currentSelectorItem.allScopesMustMatch = true

	sb.currentSelectorItem.scopes = append(
		sb.currentSelectorItem.scopes,
		sb.sanitizeScopes(scope, scopes...)...,
	)

	return sb
}

// AndAllScopesOf adds one or multiple Scope(s) to the current SelectorItem expecting ALL scopes to match.
//
// It sanitizes the input:
//   - removing empty/partial Scope(s) (key or val is "")
//   - sorting the Scope(s)
//   - removing duplicate Scope(s)
func (sb selectorBuilder) AndAllScopesOf(
	scope Scope,
	scopes ...Scope,
) CompletedSelectorItemBuilder {

	return sb.AllScopesOf(scope, scopes...)
}

func (sb selectorBuilder) sanitizeScopes(
	scope Scope,
	scopes ...Scope,
) []Scope {

	allScopes := append([]Scope{scope}, scopes...)
	allScopes = slices.DeleteFunc(allScopes, func(e Scope) bool { return len(e.key) == 0 || len(e.val) == 0 })
	slices.SortFunc(
		allScopes,
		func(a, b Scope) int {
			if a.key > b.key {
				return 1
			}

			if a.key < b.key {
				return -1
			}

			return 0
		})

	allScopes = slices.Compact(allScopes)
	allScopes = slices.Clip(allScopes)

	return allScopes
}

// OccurredWithin restricts the selector to entries with occurred_at inside the given window.
// Zero times leave the respective bound open.
func (sb selectorBuilder) OccurredWithin(from time.Time, until time.Time) CompletedSelectorItemBuilder {
	sb.selector.occurredFrom = from
	sb.selector.occurredUntil = until

	return sb
}

// OrMatching finalizes the current SelectorItem and starts a new one.
func (sb selectorBuilder) OrMatching() EmptySelectorItemBuilder {
	sb.selector.items = append(sb.selector.items, sb.currentSelectorItem)
	sb.currentSelectorItem = SelectorItem{}

	return sb
}

// MatchingAnyEntry directly creates an empty selector.
func (sb selectorBuilder) MatchingAnyEntry() Selector {
	return sb.selector
}

// Finalize returns the Selector once it has at least one SelectorItem with at least one EventType OR one Scope.
func (sb selectorBuilder) Finalize() Selector {
	sb.selector.items = append(sb.selector.items, sb.currentSelectorItem)

	return sb.selector
}
