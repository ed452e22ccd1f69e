package query

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Filter maps a field key (dot paths allowed) to the predicate its value
// must satisfy. All clauses must hold.
type Filter map[string]Predicate

// expressionPattern matches `name(value)`. No nesting: both groups stop at
// the first closing parenthesis.
var expressionPattern = regexp.MustCompile(`([^)]+)\(([^)]+)\)`)

// ParseExpression translates a single filter expression. It never fails:
// an unknown operator keeps only the wrapped value as a literal and anything
// that does not look like `name(value)` is a literal as a whole.
func ParseExpression(s string) Predicate {

	matches := expressionPattern.FindStringSubmatch(s)
	if matches == nil {
		return Exact(s)
	}

	name, value := matches[1], matches[2]

	switch kind := Lookup(name); kind {
	case KindUnrecognized:
		return Exact(value)
	default:
		return Predicate{Kind: kind, Operand: value}
	}
}

// ParseFilter translates the path form `field1:expr1;field2:expr2`. Clauses
// without a key are dropped.
func ParseFilter(s string) Filter {

	filter := Filter{}

	for _, clause := range strings.Split(s, ";") {
		key, rest, _ := strings.Cut(clause, ":")
		if key == "" {
			continue
		}
		filter[key] = ParseExpression(rest)
	}

	return filter
}

// FilterFromValues translates query string parameters, one clause per key.
// Keys are kept as they come; only the first value of each key is used.
// Control keys must be removed beforehand, see Clean.
func FilterFromValues(values url.Values) Filter {

	filter := Filter{}

	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		filter[key] = ParseExpression(list[0])
	}

	return filter
}

func (f Filter) Match(payload []byte) bool {

	for key, predicate := range f {
		if !predicate.Match(gjson.GetBytes(payload, key)) {
			return false
		}
	}

	return true
}
