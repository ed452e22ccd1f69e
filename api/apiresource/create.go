package apiresource

import (
	"context"
	"encoding/json"
	"net/http"
)

func create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	col, err := resolve(ctx)
	if err != nil {
		return err
	}

	docs, many, err := readDocuments(r)
	if err != nil {
		return err
	}

	stored := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		payload, err := col.Insert(doc)
		if err != nil {
			return err
		}
		stored = append(stored, payload)
	}

	if many {
		return writeJson(w, http.StatusCreated, stored)
	}

	return writeJson(w, http.StatusCreated, stored[0])
}
