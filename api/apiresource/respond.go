package apiresource

import (
	"encoding/json"
	"net/http"

	"github.com/fulldump/docrest/query"
)

type Envelope struct {
	Results []json.RawMessage `json:"results"`
	Paging  query.Paging      `json:"paging"`
}

func writeJson(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeProjection streams the projected fields of every item with no
// separator between them.
func writeProjection(w http.ResponseWriter, projection query.Projection, items []json.RawMessage) error {

	if contentType := projection.ContentType(); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)

	for _, item := range items {
		err := projection.Write(w, item)
		if err != nil {
			return err
		}
	}

	return nil
}
