// Package filter provides construction, validation, and serialization of
// nested boolean filter trees for the people-search service.
package filter

import (
	"encoding/json"
)

// Serialize produces the canonical request fragment for a validated tree.
// Serialization is deterministic and order-preserving: group children are
// emitted in their original order, and parsing the output reproduces a
// structurally equivalent tree.
func Serialize(expr *Expression) ([]byte, error) {
	if err := Validate(expr); err != nil {
		return nil, err
	}
	data, err := json.Marshal(expr)
	if err != nil {
		return nil, &ParseError{Message: "failed to encode expression", Cause: err}
	}
	return data, nil
}

// Parse decodes a serialized request fragment back into a validated tree.
func Parse(data []byte) (*Expression, error) {
	var expr Expression
	if err := json.Unmarshal(data, &expr); err != nil {
		return nil, &ParseError{Message: "failed to decode expression", Cause: err}
	}
	if err := Validate(&expr); err != nil {
		return nil, err
	}
	return &expr, nil
}

// Equivalent reports whether two trees are structurally equivalent:
// same node kinds, columns, operators, values, and child order.
func Equivalent(a, b *Expression) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		return a.Column == b.Column && a.Op == b.Op && valueEqual(a.Value, b.Value)
	}
	if a.Combinator != b.Combinator || len(a.Conditions) != len(b.Conditions) {
		return false
	}
	for i := range a.Conditions {
		if !Equivalent(a.Conditions[i], b.Conditions[i]) {
			return false
		}
	}
	return true
}

// valueEqual compares leaf values across the numeric widening JSON decoding
// applies (ints round-trip as float64).
func valueEqual(a, b any) bool {
	if av, ok := numericValue(a); ok {
		bv, ok := numericValue(b)
		return ok && av == bv
	}
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
