package collection

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IdField is the internal identifier of every document.
const IdField = "_id"

const TypeString = "string"

const DefaultLimit = 10

// A Hook rewrites a document before a mutation is applied. Hooks run in
// declaration order; an error aborts the mutation.
type Hook func(payload []byte) ([]byte, error)

type Hooks struct {
	BeforeInsert []Hook
	BeforeUpdate []Hook
	BeforeDelete []Hook
}

type Options struct {
	Hooks Hooks

	// Schema declares field types. Scalar values of a "string" field are
	// stored as strings.
	Schema map[string]string

	// MaxLimit caps the page size of Find. Zero means no cap.
	MaxLimit int
}

func runHooks(hooks []Hook, payload []byte) ([]byte, error) {

	var err error
	for _, hook := range hooks {
		payload, err = hook(payload)
		if err != nil {
			return nil, err
		}
	}

	return payload, nil
}

func applySchema(schema map[string]string, payload []byte) ([]byte, error) {

	var err error
	for field, kind := range schema {
		if kind != TypeString {
			return nil, fmt.Errorf("schema: type '%s' not supported for field '%s'", kind, field)
		}
		value := gjson.GetBytes(payload, field)
		switch value.Type {
		case gjson.Number, gjson.True, gjson.False:
			payload, err = sjson.SetBytes(payload, field, value.String())
			if err != nil {
				return nil, fmt.Errorf("schema: set '%s': %w", field, err)
			}
		}
	}

	return payload, nil
}

// prepare validates the shape of an incoming document and applies schema
// and hooks, in that order.
func (c *Collection) prepare(hooks []Hook, payload []byte) ([]byte, error) {

	if !gjson.ValidBytes(payload) || !gjson.ParseBytes(payload).IsObject() {
		return nil, newError(http.StatusBadRequest, "document must be a JSON object")
	}

	payload, err := applySchema(c.options.Schema, payload)
	if err != nil {
		return nil, err
	}

	return runHooks(hooks, payload)
}

func documentId(payload []byte) (string, error) {

	value := gjson.GetBytes(payload, IdField)
	if !value.Exists() {
		return "", newError(http.StatusBadRequest, "document has no '%s'", IdField)
	}
	if value.Type != gjson.String || value.Str == "" {
		return "", newError(http.StatusBadRequest, "'%s' must be a non empty string", IdField)
	}

	return value.Str, nil
}
