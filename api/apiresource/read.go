package apiresource

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/docrest/collection"
	"github.com/fulldump/docrest/query"
	"github.com/fulldump/docrest/schema"
)

type readMode int

const (
	modeDefault readMode = iota
	modeSchema
	modeOpenapi
)

func read(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return find(ctx, w, r, modeDefault)
}

func readSchema(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return find(ctx, w, r, modeSchema)
}

func readOpenapi(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return find(ctx, w, r, modeOpenapi)
}

func find(ctx context.Context, w http.ResponseWriter, r *http.Request, mode readMode) error {

	col, err := resolve(ctx)
	if err != nil {
		return err
	}

	values := r.URL.Query()

	if mode == modeDefault {
		if query.HasFlag(values, query.FlagOpenapi) {
			mode = modeOpenapi
		} else if query.HasFlag(values, query.FlagSchema) {
			mode = modeSchema
		}
	}

	page := query.ParsePage(values)
	sort := query.ParseSort(values.Get(query.KeySort))

	fields := values.Get(query.KeyFields)
	if p := box.GetUrlParameter(ctx, "fields"); p != "" {
		fields = p
	}
	projection := query.ParseFields(fields)

	var filter query.Filter
	if p := box.GetUrlParameter(ctx, "query"); p != "" {
		filter = query.ParseFilter(p)
	} else {
		filter = query.FilterFromValues(query.Clean(values))
	}

	options := collection.FindOptions{
		Page:  page.Page,
		Limit: page.Limit,
	}
	if len(filter) > 0 {
		options.Filter = filter
	}
	for _, s := range sort {
		options.Order = append(options.Order, collection.Order{
			Field:     s.Field,
			Direction: s.Direction,
		})
	}

	result, err := col.Find(options)
	if err != nil {
		return err
	}

	if len(projection) > 0 {
		return writeProjection(w, projection, result.Items)
	}

	if mode != modeDefault {
		s := schema.JSONSchema(box.GetUrlParameter(ctx, "collection"), result.Items)
		if mode == modeSchema {
			return writeJson(w, http.StatusOK, s)
		}
		o, err := schema.OpenAPI(s)
		if err != nil {
			return err
		}
		return writeJson(w, http.StatusOK, o)
	}

	return writeJson(w, http.StatusOK, Envelope{
		Results: result.Items,
		Paging:  query.RenameSize(result.Page.Size, result.Page.Page, result.Page.Total),
	})
}
