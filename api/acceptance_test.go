package api

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"go.uber.org/zap"

	"github.com/fulldump/docrest/registry"
)

type JSON = map[string]interface{}

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		r := registry.New(&registry.Config{
			Dir:      t.TempDir(),
			MaxLimit: 100,
		})
		biff.AssertNil(r.Start())
		biff.AssertEqual(r.GetStatus(), registry.StatusOperating)

		b := Build(r, "test", true)
		b.WithInterceptors(
			AccessLog(zap.NewNop()),
			Metrics,
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(Handler(b))

		a.Alternative("Create one document", func(a *biff.A) {
			resp := api.Request("POST", "/test/test").
				WithBodyJson(JSON{"hello": "world"}).
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			body := resp.BodyJsonMap()
			biff.AssertEqual(body["hello"], "world")
			id, _ := body["_id"].(string)
			biff.AssertNotEqual(id, "")

			a.Alternative("Read it back", func(a *biff.A) {
				resp := api.Request("GET", "/test/test").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"results": []JSON{
						{"hello": "world", "_id": id},
					},
					"paging": JSON{"limit": 10, "page": 1, "total": 1},
				})
			})
		})

		a.Alternative("Create many documents", func(a *biff.A) {
			resp := api.Request("POST", "/shop/people").
				WithBodyJson([]JSON{
					{"id": "1", "name": "Fulanez", "age": 33},
					{"id": "2", "name": "Menganez", "age": 20},
					{"id": "3", "name": "Zutanez", "age": 40},
				}).
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{"id": "1", "_id": "1", "name": "Fulanez", "age": 33},
				{"id": "2", "_id": "2", "name": "Menganez", "age": 20},
				{"id": "3", "_id": "3", "name": "Zutanez", "age": 40},
			})

			a.Alternative("Filter in the path", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people/name:startsWith(Ful)").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"results": []JSON{
						{"id": "1", "_id": "1", "name": "Fulanez", "age": 33},
					},
					"paging": JSON{"limit": 10, "page": 1, "total": 1},
				})
			})

			a.Alternative("Filter in the path overrides the query string", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people/name:Zutanez").
					WithQuery("name", "Fulanez").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"results": []JSON{
						{"id": "3", "_id": "3", "name": "Zutanez", "age": 40},
					},
					"paging": JSON{"limit": 10, "page": 1, "total": 1},
				})
			})

			a.Alternative("Filter and sort in the query string", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people").
					WithQuery("age", "gt(25)").
					WithQuery("_sort", "age:desc").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"results": []JSON{
						{"id": "3", "_id": "3", "name": "Zutanez", "age": 40},
						{"id": "1", "_id": "1", "name": "Fulanez", "age": 33},
					},
					"paging": JSON{"limit": 10, "page": 1, "total": 2},
				})
			})

			a.Alternative("Paginate", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people").
					WithQuery("_limit", "2").
					WithQuery("_page", "2").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"results": []JSON{
						{"id": "3", "_id": "3", "name": "Zutanez", "age": 40},
					},
					"paging": JSON{"limit": 2, "page": 2, "total": 3},
				})
			})

			a.Alternative("Limit is capped", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people").
					WithQuery("_limit", "5000").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJsonMap()["paging"], JSON{"limit": 100, "page": 1, "total": 3})
			})

			a.Alternative("Project fields in the path", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people/name:Fulanez/field/name").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqual(resp.BodyString(), "Fulanez")
			})

			a.Alternative("Project fields in the query string", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people").
					WithQuery("_fields", "name;age").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqual(resp.BodyString(), "Fulanez33Menganez20Zutanez40")
			})

			a.Alternative("Schema", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people/schema").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				body := resp.BodyJsonMap()
				biff.AssertEqual(body["$schema"], "http://json-schema.org/draft-04/schema#")
				biff.AssertEqual(body["title"], "people Set")
				biff.AssertEqual(body["type"], "array")
			})

			a.Alternative("Openapi flag in the query string", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people?openapi").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				body := resp.BodyJsonMap()
				_, hasSchema := body["$schema"]
				biff.AssertFalse(hasSchema)
				biff.AssertEqual(body["title"], "people Set")
				biff.AssertEqual(body["type"], "array")
			})

			a.Alternative("Invalid sort direction", func(a *biff.A) {
				resp := api.Request("GET", "/shop/people").
					WithQuery("_sort", "age:sideways").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
				body := resp.BodyJsonMap()
				biff.AssertEqualJson(body["error"].(JSON)["code"], 400)
			})

			a.Alternative("Duplicated id", func(a *biff.A) {
				resp := api.Request("POST", "/shop/people").
					WithBodyJson(JSON{"id": "1"}).
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			})
		})

		a.Alternative("Plus signs in a path filter", func(a *biff.A) {
			api.Request("POST", "/p/q").
				WithBodyJson(JSON{"email": "a+b@x", "phone": "+34600"}).
				Do()

			resp := api.Request("GET", "/p/q/email:a+b@x").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJsonMap()["paging"], JSON{"limit": 10, "page": 1, "total": 1})

			resp = api.Request("GET", "/p/q/phone:startsWith(+34)").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJsonMap()["paging"], JSON{"limit": 10, "page": 1, "total": 1})
		})

		a.Alternative("Update and delete by id", func(a *biff.A) {
			api.Request("POST", "/shop/users").
				WithBodyJson(JSON{"id": "u1", "name": "A", "role": "admin"}).
				Do()

			a.Alternative("Patch", func(a *biff.A) {
				resp := api.Request("PATCH", "/shop/users").
					WithBodyJson(JSON{"id": "u1", "name": "B", "role": nil}).
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": "u1", "_id": "u1", "name": "B"})
			})

			a.Alternative("Patch missing document", func(a *biff.A) {
				resp := api.Request("PATCH", "/shop/users").
					WithBodyJson(JSON{"id": "u2", "name": "B"}).
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"error": JSON{
						"message": "document 'u2' not found",
						"code":    404,
					},
				})
			})

			a.Alternative("Delete", func(a *biff.A) {
				resp := api.Request("DELETE", "/shop/users").
					WithBodyJson(JSON{"id": "u1"}).
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": "u1", "_id": "u1", "name": "A", "role": "admin"})

				resp = api.Request("GET", "/shop/users").Do()
				biff.AssertEqualJson(resp.BodyJsonMap()["paging"], JSON{"limit": 10, "page": 1, "total": 0})
			})
		})

		a.Alternative("Malformed body", func(a *biff.A) {
			resp := api.Request("POST", "/shop/people").
				WithBodyString(`{"name": `).
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			body := resp.BodyJsonMap()
			biff.AssertEqualJson(body["error"].(JSON)["code"], 400)
		})

		a.Alternative("Body is not an object", func(a *biff.A) {
			resp := api.Request("POST", "/shop/people").
				WithBodyString(`"hello"`).
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Unknown route", func(a *biff.A) {
			resp := api.Request("GET", "/a/b/c/d/e/f").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"error": "not found"})
		})

		a.Alternative("Unknown method", func(a *biff.A) {
			resp := api.Request("PUT", "/shop/people").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"error": "not found"})
		})

		a.Alternative("Invalid database name", func(a *biff.A) {
			resp := api.Request("GET", "/../people").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"error": JSON{
					"message": "invalid name '..'",
					"code":    400,
				},
			})
		})

		a.Alternative("Release", func(a *biff.A) {
			resp := api.Request("GET", "/release").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson(), "test")
		})

		a.Alternative("Metrics", func(a *biff.A) {
			api.Request("GET", "/release").Do()
			resp := api.Request("GET", "/metrics").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertTrue(len(resp.BodyString()) > 0)
		})

		a.Alternative("Service openapi", func(a *biff.A) {
			resp := api.Request("GET", "/openapi.json").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJsonMap()["info"].(JSON)["title"], "docrest")
		})

		a.Alternative("Registry stopped", func(a *biff.A) {
			biff.AssertNil(r.Stop())

			resp := api.Request("GET", "/shop/people").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"error": JSON{
					"message": "temporary unavailable: closing",
					"code":    503,
				},
			})
		})
	})
}

func TestCompression(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		r := registry.New(&registry.Config{Dir: t.TempDir()})
		biff.AssertNil(r.Start())

		b := Build(r, "test", false)
		b.WithInterceptors(
			Compression,
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(Handler(b))

		api.Request("POST", "/shop/images").
			WithBodyJson(JSON{"name": "dot", "data": base64.StdEncoding.EncodeToString([]byte("PNG-bytes"))}).
			Do()

		a.Alternative("Gzip when accepted", func(a *biff.A) {
			resp := api.Request("GET", "/shop/images").
				WithHeader("Accept-Encoding", "gzip").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")

			gz, err := gzip.NewReader(bytes.NewReader(resp.BodyBytes()))
			biff.AssertNil(err)
			body, err := io.ReadAll(gz)
			biff.AssertNil(err)

			envelope := JSON{}
			biff.AssertNil(json.Unmarshal(body, &envelope))
			biff.AssertEqualJson(envelope["paging"], JSON{"limit": 10, "page": 1, "total": 1})
		})

		a.Alternative("Plain when not accepted", func(a *biff.A) {
			resp := api.Request("GET", "/shop/images").
				WithHeader("Accept-Encoding", "identity").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "")
			biff.AssertEqualJson(resp.BodyJsonMap()["paging"], JSON{"limit": 10, "page": 1, "total": 1})
		})

		a.Alternative("Images are sent as they are", func(a *biff.A) {
			resp := api.Request("GET", "/shop/images").
				WithHeader("Accept-Encoding", "gzip").
				WithQuery("_fields", "data:base64:image/png").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Type"), "image/png")
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "")
			biff.AssertEqual(resp.BodyString(), "PNG-bytes")
		})
	})
}
