package query

import (
	"strconv"
	"strings"

	"github.com/SierraSoftworks/connor"
	"github.com/tidwall/gjson"
)

// Predicate is the operand of a filter clause: an exact literal or one of
// the operators in the table.
type Predicate struct {
	Kind    Kind
	Operand string
}

// Exact builds a literal, exact match predicate.
func Exact(value string) Predicate {
	return Predicate{Kind: KindExact, Operand: value}
}

func (p Predicate) String() string {
	if p.Kind == KindExact {
		return p.Operand
	}
	return p.Kind.String() + "(" + p.Operand + ")"
}

// Match reports whether a stored value satisfies the predicate. Missing
// values never match. Arrays match when any element does, except for
// contains, which looks for an element equal to the operand.
func (p Predicate) Match(value gjson.Result) bool {

	if !value.Exists() {
		return false
	}

	if value.IsArray() {
		found := false
		value.ForEach(func(_, item gjson.Result) bool {
			if p.Kind == KindContains {
				found = matchExact(item, p.Operand)
			} else {
				found = p.Match(item)
			}
			return !found
		})
		return found
	}

	switch p.Kind {
	case KindExact, KindUnrecognized:
		return matchExact(value, p.Operand)
	case KindGt:
		c, ok := compare(value, p.Operand)
		return ok && c > 0
	case KindGte:
		c, ok := compare(value, p.Operand)
		return ok && c >= 0
	case KindLt:
		c, ok := compare(value, p.Operand)
		return ok && c < 0
	case KindLte:
		c, ok := compare(value, p.Operand)
		return ok && c <= 0
	case KindStartsWith:
		return value.Type == gjson.String && strings.HasPrefix(value.Str, p.Operand)
	case KindContains:
		return value.Type == gjson.String && strings.Contains(value.Str, p.Operand)
	}

	return false
}

// matchExact coerces the operand to the JSON type of the stored value, so
// `age:42` matches a numeric 42 and `active:true` a boolean.
func matchExact(value gjson.Result, operand string) bool {

	var expected interface{}
	switch value.Type {
	case gjson.Null:
		return operand == "null"
	case gjson.String:
		expected = operand
	case gjson.Number:
		f, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return false
		}
		expected = f
	case gjson.True, gjson.False:
		b, err := strconv.ParseBool(operand)
		if err != nil {
			return false
		}
		expected = b
	default:
		return value.Raw == operand
	}

	match, err := connor.Match(map[string]interface{}{
		"value": expected,
	}, map[string]interface{}{
		"value": value.Value(),
	})
	if err != nil {
		return false
	}

	return match
}

// compare orders a stored value against an operand: numerically when both
// are numbers, lexically otherwise. Null and composite values do not compare.
func compare(value gjson.Result, operand string) (int, bool) {

	switch value.Type {
	case gjson.Number:
		f, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return strings.Compare(value.Raw, operand), true
		}
		switch {
		case value.Num < f:
			return -1, true
		case value.Num > f:
			return 1, true
		}
		return 0, true
	case gjson.String:
		return strings.Compare(value.Str, operand), true
	case gjson.True, gjson.False:
		return strings.Compare(value.Raw, operand), true
	}

	return 0, false
}
