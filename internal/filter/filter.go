// Package filter provides construction, validation, and serialization of
// nested boolean filter trees for the people-search service.
package filter

import (
	"fmt"
)

// Op is a condition operator understood by the search service.
type Op string

// Condition operators. Note the service spells its comparison operators
// "=>" and "=<", and "(.)" requests fuzzy (approximate) text matching.
const (
	OpEquals    Op = "="
	OpNotEquals Op = "!="
	OpIn        Op = "in"
	OpNotIn     Op = "not_in"
	OpGreater   Op = ">"
	OpLess      Op = "<"
	OpAtLeast   Op = "=>"
	OpAtMost    Op = "=<"
	OpFuzzy     Op = "(.)"
)

// Combinator joins the children of a group node.
type Combinator string

// Boolean combinators.
const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Search service columns used by the builder helpers.
const (
	ColumnTitle      = "current_employers.title"
	ColumnSkills     = "skills"
	ColumnRegion     = "region"
	ColumnExperience = "years_of_experience_raw"
	ColumnHeadcount  = "current_employers.company_headcount_latest"
	ColumnIndustries = "current_employers.company_industries"
	ColumnEmployer   = "current_employers.name"
	ColumnStartDate  = "current_employers.start_date"
)

// MaxDepth bounds filter tree nesting. Deeper trees are rejected at
// validation time.
const MaxDepth = 5

// Expression is a node in a filter tree. A node is either a leaf condition
// (Column, Op, Value set) or a group (Combinator, Conditions set); the two
// forms are mutually exclusive. The struct maps one-to-one onto the wire
// format of the search service.
type Expression struct {
	Column string `json:"column,omitempty"`
	Op     Op     `json:"type,omitempty"`
	Value  any    `json:"value,omitempty"`

	Combinator Combinator    `json:"op,omitempty"`
	Conditions []*Expression `json:"conditions,omitempty"`
}

// IsLeaf reports whether the node is a leaf condition.
func (e *Expression) IsLeaf() bool {
	return e.Combinator == ""
}

// Condition creates a leaf condition node.
func Condition(column string, op Op, value any) *Expression {
	return &Expression{Column: column, Op: op, Value: value}
}

// Fuzzy creates a leaf condition requesting approximate text matching,
// used for free-text fields where exact tokens are unreliable.
func Fuzzy(column, text string) *Expression {
	return Condition(column, OpFuzzy, text)
}

// Equals creates an exact-match leaf condition.
func Equals(column string, value any) *Expression {
	return Condition(column, OpEquals, value)
}

// AtLeast creates a lower-bound leaf condition.
func AtLeast(column string, value any) *Expression {
	return Condition(column, OpAtLeast, value)
}

// AtMost creates an upper-bound leaf condition.
func AtMost(column string, value any) *Expression {
	return Condition(column, OpAtMost, value)
}

// NotIn creates a set-exclusion leaf condition.
func NotIn(column string, values []string) *Expression {
	return Condition(column, OpNotIn, values)
}

// And combines conditions under an AND group. A single condition is
// returned unwrapped.
func And(conditions ...*Expression) *Expression {
	return group(CombinatorAnd, conditions)
}

// Or combines conditions under an OR group. A single condition is
// returned unwrapped.
func Or(conditions ...*Expression) *Expression {
	return group(CombinatorOr, conditions)
}

func group(op Combinator, conditions []*Expression) *Expression {
	if len(conditions) == 1 {
		return conditions[0]
	}
	return &Expression{Combinator: op, Conditions: conditions}
}

// Build composes leaf conditions into a single validated AND tree.
func Build(conditions ...*Expression) (*Expression, error) {
	if len(conditions) == 0 {
		return nil, &ValidationError{Message: "no conditions provided"}
	}
	expr := And(conditions...)
	if err := Validate(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

// validOps is the full operator set accepted by the service.
var validOps = map[Op]bool{
	OpEquals: true, OpNotEquals: true, OpIn: true, OpNotIn: true,
	OpGreater: true, OpLess: true, OpAtLeast: true, OpAtMost: true,
	OpFuzzy: true,
}

// numericColumns only accept comparison operators; fuzzy matching on them
// is a disallowed operator/field pair.
var numericColumns = map[string]bool{
	ColumnExperience: true,
	ColumnHeadcount:  true,
}

// Validate checks a filter tree for structural problems: empty groups,
// unknown operators, disallowed operator/field pairs, depth overflow, and
// sibling conditions under an AND that constrain the same column to
// disjoint ranges.
func Validate(expr *Expression) error {
	if expr == nil {
		return &ValidationError{Message: "nil expression"}
	}
	return validate(expr, 1)
}

func validate(expr *Expression, depth int) error {
	if depth > MaxDepth {
		return &ValidationError{Message: fmt.Sprintf("tree exceeds maximum depth %d", MaxDepth)}
	}

	if expr.IsLeaf() {
		return validateLeaf(expr)
	}

	if expr.Combinator != CombinatorAnd && expr.Combinator != CombinatorOr {
		return &ValidationError{Message: fmt.Sprintf("unknown combinator %q", expr.Combinator)}
	}
	if expr.Column != "" || expr.Op != "" || expr.Value != nil {
		return &ValidationError{Column: expr.Column, Message: "node mixes leaf and group fields"}
	}
	if len(expr.Conditions) == 0 {
		return &ValidationError{Message: string(expr.Combinator) + " group has no conditions"}
	}

	for _, child := range expr.Conditions {
		if err := validate(child, depth+1); err != nil {
			return err
		}
	}

	if expr.Combinator == CombinatorAnd {
		return validateSiblingRanges(expr.Conditions)
	}
	return nil
}

func validateLeaf(expr *Expression) error {
	if expr.Column == "" {
		return &ValidationError{Message: "condition missing column"}
	}
	if !validOps[expr.Op] {
		return &ValidationError{Column: expr.Column, Message: fmt.Sprintf("unknown operator %q", expr.Op)}
	}
	if expr.Value == nil {
		return &ValidationError{Column: expr.Column, Message: "condition missing value"}
	}
	if len(expr.Conditions) > 0 {
		return &ValidationError{Column: expr.Column, Message: "node mixes leaf and group fields"}
	}
	if expr.Op == OpFuzzy && numericColumns[expr.Column] {
		return &ValidationError{Column: expr.Column, Message: "fuzzy matching is not supported on numeric columns"}
	}
	return nil
}

// columnBounds accumulates numeric range constraints per column.
type columnBounds struct {
	lower    float64
	hasLower bool
	upper    float64
	hasUpper bool
}

// validateSiblingRanges rejects sibling leaves under an AND whose range
// constraints on the same column cannot be satisfied together. Disjoint
// alternatives must be wrapped in an explicit OR.
func validateSiblingRanges(siblings []*Expression) error {
	bounds := make(map[string]*columnBounds)

	for _, s := range siblings {
		if !s.IsLeaf() {
			continue
		}
		v, ok := numericValue(s.Value)
		if !ok {
			continue
		}

		b := bounds[s.Column]
		if b == nil {
			b = &columnBounds{}
			bounds[s.Column] = b
		}

		switch s.Op {
		case OpAtLeast, OpGreater:
			if !b.hasLower || v > b.lower {
				b.lower = v
				b.hasLower = true
			}
		case OpAtMost, OpLess:
			if !b.hasUpper || v < b.upper {
				b.upper = v
				b.hasUpper = true
			}
		}
	}

	for column, b := range bounds {
		if b.hasLower && b.hasUpper && b.lower > b.upper {
			return &ValidationError{
				Column:  column,
				Message: fmt.Sprintf("conflicting disjoint ranges [%v, %v] under AND; wrap alternatives in an OR", b.lower, b.upper),
			}
		}
	}
	return nil
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
