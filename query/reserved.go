package query

import (
	"net/url"
)

const (
	KeyPage   = "_page"
	KeyLimit  = "_limit"
	KeyFields = "_fields"
	KeySort   = "_sort"
	KeyDecode = "_decode"

	FlagSchema  = "schema"
	FlagOpenapi = "openapi"
)

// Reserved are the control keys of the query string. They never become
// filter clauses.
var Reserved = []string{KeyPage, KeyLimit, KeyFields, KeySort, KeyDecode}

var flags = []string{FlagSchema, FlagOpenapi}

// Clean returns a copy of values without control keys and response flags.
func Clean(values url.Values) url.Values {

	result := url.Values{}
	for key, list := range values {
		result[key] = list
	}

	for _, key := range Reserved {
		result.Del(key)
	}
	for _, key := range flags {
		result.Del(key)
	}

	return result
}

// HasFlag reports whether a response flag such as ?schema is present.
func HasFlag(values url.Values, flag string) bool {
	return values.Has(flag)
}
