package schema

import (
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"
)

const Draft04 = "http://json-schema.org/draft-04/schema#"

// typeOrder is the order in which the types of a mixed field are listed.
var typeOrder = []string{"null", "boolean", "integer", "number", "string", "array", "object"}

// JSONSchema derives a draft-04 schema describing docs as an array called
// "<title> Set".
func JSONSchema(title string, docs []json.RawMessage) map[string]interface{} {

	items := &node{}
	for _, doc := range docs {
		items.add(gjson.ParseBytes(doc))
	}

	return map[string]interface{}{
		"$schema": Draft04,
		"title":   title + " Set",
		"type":    "array",
		"items":   items.schema(),
	}
}

// node accumulates every value seen at one position of the documents.
type node struct {
	types      map[string]bool
	objects    int
	keys       []string
	properties map[string]*node
	presence   map[string]int
	items      *node
}

func (n *node) add(value gjson.Result) {

	if n.types == nil {
		n.types = map[string]bool{}
	}

	switch {
	case !value.Exists(), value.Type == gjson.Null:
		n.types["null"] = true
	case value.IsBool():
		n.types["boolean"] = true
	case value.Type == gjson.Number:
		if value.Num == math.Trunc(value.Num) {
			n.types["integer"] = true
		} else {
			n.types["number"] = true
		}
	case value.Type == gjson.String:
		n.types["string"] = true
	case value.IsArray():
		n.types["array"] = true
		if n.items == nil {
			n.items = &node{}
		}
		for _, item := range value.Array() {
			n.items.add(item)
		}
	case value.IsObject():
		n.types["object"] = true
		n.objects++
		if n.properties == nil {
			n.properties = map[string]*node{}
			n.presence = map[string]int{}
		}
		value.ForEach(func(key, v gjson.Result) bool {
			property, exists := n.properties[key.Str]
			if !exists {
				property = &node{}
				n.properties[key.Str] = property
				n.keys = append(n.keys, key.Str)
			}
			property.add(v)
			n.presence[key.Str]++
			return true
		})
	}
}

func (n *node) schema() map[string]interface{} {

	result := map[string]interface{}{}

	types := []string{}
	for _, t := range typeOrder {
		if !n.types[t] {
			continue
		}
		if t == "integer" && n.types["number"] {
			continue
		}
		types = append(types, t)
	}

	switch len(types) {
	case 0:
		// no samples, anything goes
	case 1:
		result["type"] = types[0]
	default:
		result["type"] = types
	}

	if n.types["object"] {
		properties := map[string]interface{}{}
		required := []string{}
		for _, key := range n.keys {
			properties[key] = n.properties[key].schema()
			if n.presence[key] == n.objects {
				required = append(required, key)
			}
		}
		result["properties"] = properties
		if len(required) > 0 {
			result["required"] = required
		}
	}

	if n.types["array"] {
		result["items"] = n.items.schema()
	}

	return result
}
