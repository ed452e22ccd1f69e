package query

import (
	"github.com/fulldump/docrest/utils"
)

// Kind identifies the predicate carried by a filter clause.
type Kind int

const (
	KindExact Kind = iota
	KindGt
	KindGte
	KindLt
	KindLte
	KindStartsWith
	KindContains

	// KindUnrecognized is what an operator name outside the table resolves
	// to. The translator turns it into an exact literal.
	KindUnrecognized
)

// operators is the whole operator grammar. Every entry takes exactly one
// string operand; two-operand (between) and function operands (compare) are
// not expressible in a path segment and stay out.
var operators = map[string]Kind{
	"gt":         KindGt,
	"gte":        KindGte,
	"lt":         KindLt,
	"lte":        KindLte,
	"startsWith": KindStartsWith,
	"contains":   KindContains,
}

var kindNames = map[Kind]string{
	KindExact:        "exact",
	KindGt:           "gt",
	KindGte:          "gte",
	KindLt:           "lt",
	KindLte:          "lte",
	KindStartsWith:   "startsWith",
	KindContains:     "contains",
	KindUnrecognized: "unrecognized",
}

// Lookup resolves an operator name. Names are case sensitive.
func Lookup(name string) Kind {
	kind, exists := operators[name]
	if !exists {
		return KindUnrecognized
	}
	return kind
}

// Operators lists the supported operator names, sorted.
func Operators() []string {
	return utils.GetKeys(operators)
}

func (k Kind) String() string {
	name, exists := kindNames[k]
	if !exists {
		return "unknown"
	}
	return name
}
