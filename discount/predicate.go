package discount

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyPredicate is returned when a predicate document contains no conditions at all.
	ErrEmptyPredicate = errors.New("predicate must not be empty")

	// ErrMalformedPredicate is returned when a predicate document is not a JSON object of the expected shape.
	ErrMalformedPredicate = errors.New("predicate document is malformed")

	// ErrMixedCombinatorAndLeaf is returned when a combinator key appears next to a leaf
	// condition inside the same object, e.g. {"variantPredicate": {...}, "AND": [...]}.
	ErrMixedCombinatorAndLeaf = errors.New("combinator and leaf conditions must not be siblings")

	// ErrNestedCombinator is returned when a combinator operand contains another combinator.
	// Only one combinator level is supported.
	ErrNestedCombinator = errors.New("nested combinators are not supported")

	// ErrUnknownLeafKind is returned when a leaf condition key is not valid for the predicate family.
	ErrUnknownLeafKind = errors.New("unknown leaf condition for this predicate family")
)

// CombinatorString identifies a boolean combinator node ("AND" or "OR").
type CombinatorString = string

// LeafKindString identifies the kind of a leaf condition, e.g. "variantPredicate".
type LeafKindString = string

const (
	CombinatorAnd CombinatorString = "AND"
	CombinatorOr  CombinatorString = "OR"

	LeafVariant          LeafKindString = "variantPredicate"
	LeafProduct          LeafKindString = "productPredicate"
	LeafCategory         LeafKindString = "categoryPredicate"
	LeafCollection       LeafKindString = "collectionPredicate"
	LeafDiscountedObject LeafKindString = "discountedObjectPredicate"
)

var catalogueLeafKinds = map[LeafKindString]struct{}{
	LeafVariant:    {},
	LeafProduct:    {},
	LeafCategory:   {},
	LeafCollection: {},
}

var orderLeafKinds = map[LeafKindString]struct{}{
	LeafDiscountedObject: {},
}

// DecimalRange represents an inclusive decimal range condition with optional bounds.
type DecimalRange struct {
	Gte *decimal.Decimal
	Lte *decimal.Decimal
}

// Leaf is a single leaf condition: an ID set and/or named decimal range conditions
// (e.g. "minimalPrice" or "baseSubtotalPrice") keyed by condition name.
type Leaf struct {
	Kind   LeafKindString
	IDs    []string
	Ranges map[string]DecimalRange
}

// Predicate is the canonical, parsed form of a predicate document:
// either a single combinator (AND/OR) over leaf-only operands, or a bare group of leaves.
//
// The source documents are nested JSON objects; parsing enforces the structural rules
// (no combinator/leaf siblings, at most one combinator level) so that downstream code
// never has to inspect raw JSON shapes.
type Predicate struct {
	Combinator CombinatorString // empty for a bare leaf group
	Operands   []Predicate      // set when Combinator is not empty; operands are leaf groups
	Leaves     []Leaf           // set for a leaf group
}

// IsZero reports whether the predicate carries no conditions.
func (p Predicate) IsZero() bool {
	return p.Combinator == "" && len(p.Operands) == 0 && len(p.Leaves) == 0
}

// HasPriceConditions reports whether any leaf in the tree carries a decimal range condition.
// Price-based conditions tie the predicate to a single currency.
func (p Predicate) HasPriceConditions() bool {
	for _, leaf := range p.Leaves {
		if len(leaf.Ranges) > 0 {
			return true
		}
	}

	for _, operand := range p.Operands {
		if operand.HasPriceConditions() {
			return true
		}
	}

	return false
}

// ParseCataloguePredicate parses and validates a catalogue predicate document
// (variant/product/category/collection conditions).
func ParseCataloguePredicate(raw []byte) (Predicate, error) {
	return parsePredicate(raw, catalogueLeafKinds)
}

// ParseOrderPredicate parses and validates an order or checkout-and-order predicate
// document (discounted-object conditions).
func ParseOrderPredicate(raw []byte) (Predicate, error) {
	return parsePredicate(raw, orderLeafKinds)
}

func parsePredicate(raw []byte, allowedLeafKinds map[LeafKindString]struct{}) (Predicate, error) {
	var document map[string]any
	if err := jsoniter.ConfigFastest.Unmarshal(raw, &document); err != nil {
		return Predicate{}, errors.Join(ErrMalformedPredicate, err)
	}

	if len(document) == 0 {
		return Predicate{}, ErrEmptyPredicate
	}

	return parseNode(document, allowedLeafKinds, true)
}

// parseNode parses one JSON object. Combinators are only allowed at the top level;
// operands of a combinator must be pure leaf groups.
func parseNode(node map[string]any, allowedLeafKinds map[LeafKindString]struct{}, combinatorAllowed bool) (Predicate, error) {
	combinators, leafKeys := splitKeys(node)

	if len(combinators) > 0 && len(leafKeys) > 0 {
		return Predicate{}, ErrMixedCombinatorAndLeaf
	}

	if len(combinators) > 1 {
		return Predicate{}, ErrMixedCombinatorAndLeaf
	}

	if len(combinators) == 1 {
		if !combinatorAllowed {
			return Predicate{}, ErrNestedCombinator
		}

		return parseCombinatorNode(combinators[0], node[combinators[0]], allowedLeafKinds)
	}

	return parseLeafGroup(node, leafKeys, allowedLeafKinds)
}

func parseCombinatorNode(combinator CombinatorString, rawOperands any, allowedLeafKinds map[LeafKindString]struct{}) (Predicate, error) {
	operandList, ok := rawOperands.([]any)
	if !ok || len(operandList) == 0 {
		return Predicate{}, ErrMalformedPredicate
	}

	operands := make([]Predicate, 0, len(operandList))

	for _, rawOperand := range operandList {
		operandNode, isObject := rawOperand.(map[string]any)
		if !isObject {
			return Predicate{}, ErrMalformedPredicate
		}

		operand, err := parseNode(operandNode, allowedLeafKinds, false)
		if err != nil {
			return Predicate{}, err
		}

		operands = append(operands, operand)
	}

	return Predicate{Combinator: combinator, Operands: operands}, nil
}

func parseLeafGroup(node map[string]any, leafKeys []string, allowedLeafKinds map[LeafKindString]struct{}) (Predicate, error) {
	leaves := make([]Leaf, 0, len(leafKeys))

	for _, key := range leafKeys {
		if _, allowed := allowedLeafKinds[key]; !allowed {
			return Predicate{}, fmt.Errorf("%w: %q", ErrUnknownLeafKind, key)
		}

		leafNode, isObject := node[key].(map[string]any)
		if !isObject {
			return Predicate{}, ErrMalformedPredicate
		}

		leaf, err := parseLeaf(key, leafNode)
		if err != nil {
			return Predicate{}, err
		}

		leaves = append(leaves, leaf)
	}

	return Predicate{Leaves: leaves}, nil
}

func parseLeaf(kind LeafKindString, node map[string]any) (Leaf, error) {
	leaf := Leaf{Kind: kind}

	for conditionName, conditionValue := range node {
		if conditionName == "ids" {
			ids, err := parseIDList(conditionValue)
			if err != nil {
				return Leaf{}, err
			}

			leaf.IDs = ids

			continue
		}

		// Any other condition is a named range, e.g. {"minimalPrice": {"range": {"gte": "25"}}}.
		rangeCondition, err := parseRangeCondition(conditionValue)
		if err != nil {
			return Leaf{}, err
		}

		if leaf.Ranges == nil {
			leaf.Ranges = make(map[string]DecimalRange)
		}

		leaf.Ranges[conditionName] = rangeCondition
	}

	if len(leaf.IDs) == 0 && len(leaf.Ranges) == 0 {
		return Leaf{}, ErrEmptyPredicate
	}

	return leaf, nil
}

func parseIDList(value any) ([]string, error) {
	rawIDs, ok := value.([]any)
	if !ok {
		return nil, ErrMalformedPredicate
	}

	ids := make([]string, 0, len(rawIDs))

	for _, rawID := range rawIDs {
		id, isString := rawID.(string)
		if !isString {
			return nil, ErrMalformedPredicate
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func parseRangeCondition(value any) (DecimalRange, error) {
	conditionNode, ok := value.(map[string]any)
	if !ok {
		return DecimalRange{}, ErrMalformedPredicate
	}

	rangeNode, ok := conditionNode["range"].(map[string]any)
	if !ok {
		return DecimalRange{}, ErrMalformedPredicate
	}

	result := DecimalRange{}

	if gte, present := rangeNode["gte"]; present {
		bound, err := parseDecimalBound(gte)
		if err != nil {
			return DecimalRange{}, err
		}

		result.Gte = &bound
	}

	if lte, present := rangeNode["lte"]; present {
		bound, err := parseDecimalBound(lte)
		if err != nil {
			return DecimalRange{}, err
		}

		result.Lte = &bound
	}

	if result.Gte == nil && result.Lte == nil {
		return DecimalRange{}, ErrMalformedPredicate
	}

	return result, nil
}

// parseDecimalBound accepts both JSON numbers and serialized decimal strings,
// since clients commonly send decimals as strings to avoid float precision loss.
func parseDecimalBound(value any) (decimal.Decimal, error) {
	switch typedValue := value.(type) {
	case string:
		bound, err := decimal.NewFromString(typedValue)
		if err != nil {
			return decimal.Decimal{}, errors.Join(ErrMalformedPredicate, err)
		}

		return bound, nil

	case float64:
		return decimal.NewFromFloat(typedValue), nil

	default:
		return decimal.Decimal{}, ErrMalformedPredicate
	}
}

func splitKeys(node map[string]any) (combinators []string, leafKeys []string) {
	for key := range node {
		switch key {
		case CombinatorAnd, CombinatorOr:
			combinators = append(combinators, key)
		default:
			leafKeys = append(leafKeys, key)
		}
	}

	return combinators, leafKeys
}
