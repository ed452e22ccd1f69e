package apiresource

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/docrest/collection"
)

var errEmptyBody = &collection.Error{
	Code:    http.StatusBadRequest,
	Message: "request body is empty",
}

// readDocuments reads a body holding one JSON value. An array is returned
// element by element and many is true.
func readDocuments(r *http.Request) (docs []json.RawMessage, many bool, err error) {

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, false, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false, errEmptyBody
	}

	var value jsontext.Value
	err = jsonv2.Unmarshal(body, &value)
	if err != nil {
		return nil, false, err
	}

	if value.Kind() != '[' {
		return []json.RawMessage{json.RawMessage(value)}, false, nil
	}

	var items []jsontext.Value
	err = jsonv2.Unmarshal(value, &items)
	if err != nil {
		return nil, true, err
	}

	docs = make([]json.RawMessage, len(items))
	for i, item := range items {
		docs[i] = json.RawMessage(item)
	}

	return docs, true, nil
}

// readDocument reads a body holding exactly one JSON value.
func readDocument(r *http.Request) (json.RawMessage, error) {

	docs, many, err := readDocuments(r)
	if err != nil {
		return nil, err
	}
	if many {
		return nil, &collection.Error{
			Code:    http.StatusBadRequest,
			Message: "document must be a JSON object",
		}
	}

	return docs[0], nil
}
