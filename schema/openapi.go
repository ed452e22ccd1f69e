package schema

import (
	"errors"
	"fmt"
)

var ErrNotAnObject = errors.New("schema must be an object")

// OpenAPI converts a JSON Schema into an OpenAPI 3.0 schema object.
func OpenAPI(jsonSchema interface{}) (map[string]interface{}, error) {

	object, ok := jsonSchema.(map[string]interface{})
	if !ok {
		return nil, ErrNotAnObject
	}

	return convert(object, "#")
}

func convert(object map[string]interface{}, at string) (map[string]interface{}, error) {

	result := map[string]interface{}{}

	for key, value := range object {
		switch key {
		case "$schema", "id", "$id":
			// not part of the OpenAPI dialect
		case "type":
			err := convertType(result, value, at)
			if err != nil {
				return nil, err
			}
		case "items", "not", "additionalProperties":
			child, ok := value.(map[string]interface{})
			if !ok {
				result[key] = value
				continue
			}
			converted, err := convert(child, at+"/"+key)
			if err != nil {
				return nil, err
			}
			result[key] = converted
		case "properties":
			properties, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s/properties: %w", at, ErrNotAnObject)
			}
			converted := map[string]interface{}{}
			for name, property := range properties {
				child, ok := property.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("%s/properties/%s: %w", at, name, ErrNotAnObject)
				}
				c, err := convert(child, at+"/properties/"+name)
				if err != nil {
					return nil, err
				}
				converted[name] = c
			}
			result[key] = converted
		case "allOf", "anyOf", "oneOf":
			list, err := convertList(value, at+"/"+key)
			if err != nil {
				return nil, err
			}
			result[key] = list
		default:
			result[key] = value
		}
	}

	return result, nil
}

func convertList(value interface{}, at string) ([]interface{}, error) {

	list, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: must be a list", at)
	}

	result := make([]interface{}, 0, len(list))
	for i, item := range list {
		child, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s/%d: %w", at, i, ErrNotAnObject)
		}
		converted, err := convert(child, fmt.Sprintf("%s/%d", at, i))
		if err != nil {
			return nil, err
		}
		result = append(result, converted)
	}

	return result, nil
}

// convertType writes the OpenAPI form of a "type" keyword. OpenAPI 3.0 has
// a single type per schema, so nullable types become "nullable" and the
// rest of the lists become anyOf.
func convertType(result map[string]interface{}, value interface{}, at string) error {

	var types []string
	switch t := value.(type) {
	case string:
		types = []string{t}
	case []string:
		types = t
	case []interface{}:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("%s/type: must be a string or a list of strings", at)
			}
			types = append(types, s)
		}
	default:
		return fmt.Errorf("%s/type: must be a string or a list of strings", at)
	}

	nullable := false
	nonNull := []string{}
	for _, t := range types {
		if t == "null" {
			nullable = true
			continue
		}
		nonNull = append(nonNull, t)
	}

	if nullable {
		result["nullable"] = true
	}

	switch len(nonNull) {
	case 0:
		// only null
	case 1:
		result["type"] = nonNull[0]
	default:
		anyOf := make([]interface{}, 0, len(nonNull))
		for _, t := range nonNull {
			anyOf = append(anyOf, map[string]interface{}{"type": t})
		}
		result["anyOf"] = anyOf
	}

	return nil
}
