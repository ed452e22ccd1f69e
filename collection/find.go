package collection

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/btree"
	"github.com/tidwall/gjson"
)

// Matcher selects documents. A nil Matcher selects everything.
type Matcher interface {
	Match(payload []byte) bool
}

// Order is one sort key. Direction is "asc" or "desc", case insensitive.
type Order struct {
	Field     string
	Direction string
}

type FindOptions struct {
	Filter Matcher
	Order  []Order
	Page   int
	Limit  int
}

// PageInfo describes the page returned by Find. Size is the page size that
// was applied, which is the requested limit capped by MaxLimit.
type PageInfo struct {
	Size  int `json:"size"`
	Page  int `json:"page"`
	Total int `json:"total"`
}

type Result struct {
	Items []json.RawMessage
	Page  PageInfo
}

// Find returns one page of the documents selected by options.Filter, in
// insertion order or sorted by options.Order.
func (c *Collection) Find(options FindOptions) (*Result, error) {

	descending, err := parseDirections(options.Order)
	if err != nil {
		return nil, err
	}

	page := max(options.Page, 1)
	limit := options.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if c.options.MaxLimit > 0 && limit > c.options.MaxLimit {
		limit = c.options.MaxLimit
	}

	matches := []json.RawMessage{}
	c.mutex.RLock()
	for _, row := range c.Rows {
		if options.Filter == nil || options.Filter.Match(row.Payload) {
			matches = append(matches, row.Payload)
		}
	}
	c.mutex.RUnlock()

	total := len(matches)
	skip := total
	if page-1 <= total/limit {
		skip = min((page-1)*limit, total)
	}

	result := &Result{
		Items: []json.RawMessage{},
		Page: PageInfo{
			Size:  limit,
			Page:  page,
			Total: total,
		},
	}

	if len(options.Order) == 0 {
		end := total
		if limit < total-skip {
			end = skip + limit
		}
		result.Items = append(result.Items, matches[skip:end]...)
		return result, nil
	}

	tree := btree.NewG(32, orderedLess(descending))
	for i, payload := range matches {
		tree.ReplaceOrInsert(newOrderedRow(i, payload, options.Order))
	}

	tree.Ascend(func(row *orderedRow) bool {
		if skip > 0 {
			skip--
			return true
		}
		result.Items = append(result.Items, row.Payload)
		return len(result.Items) < limit
	})

	return result, nil
}

func parseDirections(order []Order) ([]bool, error) {

	descending := make([]bool, len(order))
	for i, o := range order {
		switch strings.ToLower(o.Direction) {
		case "asc":
		case "desc":
			descending[i] = true
		default:
			return nil, newError(http.StatusBadRequest, "invalid sort direction '%s' for field '%s', must be [asc|desc]", o.Direction, o.Field)
		}
	}

	return descending, nil
}

type orderedRow struct {
	Seq     int
	Payload json.RawMessage
	Values  []gjson.Result
}

func newOrderedRow(seq int, payload json.RawMessage, order []Order) *orderedRow {

	paths := make([]string, len(order))
	for i, o := range order {
		paths[i] = o.Field
	}

	return &orderedRow{
		Seq:     seq,
		Payload: payload,
		Values:  gjson.GetManyBytes(payload, paths...),
	}
}

// orderedLess sorts by the order values and then by insertion sequence, so
// no two rows are ever equal for the tree.
func orderedLess(descending []bool) btree.LessFunc[*orderedRow] {
	return func(a, b *orderedRow) bool {
		for i, desc := range descending {
			c := compareValues(a.Values[i], b.Values[i])
			if desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return a.Seq < b.Seq
	}
}

// rank orders values of different types: missing, null, booleans, numbers,
// strings, objects and arrays.
func rank(v gjson.Result) int {
	if !v.Exists() {
		return 0
	}
	switch v.Type {
	case gjson.Null:
		return 1
	case gjson.False, gjson.True:
		return 2
	case gjson.Number:
		return 3
	case gjson.String:
		return 4
	}
	return 5
}

func compareValues(a, b gjson.Result) int {

	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case 2:
		if a.Type == b.Type {
			return 0
		}
		if a.Type == gjson.False {
			return -1
		}
		return 1
	case 3:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	case 4:
		return strings.Compare(a.Str, b.Str)
	case 5:
		return strings.Compare(a.Raw, b.Raw)
	}

	return 0
}
