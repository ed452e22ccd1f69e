package apiresource

import (
	"context"
	"net/http"
)

func remove(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	col, err := resolve(ctx)
	if err != nil {
		return err
	}

	doc, err := readDocument(r)
	if err != nil {
		return err
	}

	removed, err := col.Remove(doc)
	if err != nil {
		return err
	}

	return writeJson(w, http.StatusOK, removed)
}
