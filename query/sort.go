package query

import (
	"strings"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

type SortField struct {
	Field     string
	Direction string
}

// Sort is ordered: the first field has the highest priority.
type Sort []SortField

// ParseSort translates `field1:asc,field2:desc`. The direction defaults to
// asc and is passed through unchecked. Empty input means no sort (nil).
func ParseSort(s string) Sort {

	if s == "" {
		return nil
	}

	sort := Sort{}
	for _, token := range strings.Split(s, ",") {
		tokens := strings.Split(token, ":")
		direction := Asc
		if len(tokens) > 1 && tokens[1] != "" {
			direction = tokens[1]
		}
		sort = sort.set(tokens[0], direction)
	}

	return sort
}

// set keeps the position of a field mentioned twice and takes the last
// direction.
func (s Sort) set(field, direction string) Sort {
	for i := range s {
		if s[i].Field == field {
			s[i].Direction = direction
			return s
		}
	}
	return append(s, SortField{Field: field, Direction: direction})
}
