package api

import (
	"net/http"
	"strings"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/docrest/api/apiresource"
	"github.com/fulldump/docrest/metrics"
	"github.com/fulldump/docrest/registry"
)

func Build(reg *registry.Registry, version string, enableMetrics bool) *box.B {

	b := box.NewBox()

	// Operational resources are declared before the generic ones because
	// {database} would match any single segment otherwise.
	b.Resource("/openapi.json")

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	if enableMetrics {
		b.Resource("/metrics").
			WithActions(box.Get(metrics.Handler()).WithName("metrics"))
	}

	apiresource.Build(b.R).
		WithInterceptors(
			InterceptorUnavailable(reg),
			apiresource.InjectRegistry(reg),
		)

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "docrest"
	spec.Info.Description = "Generic REST resources over a document store."
	spec.Info.Version = version
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}

var pathEscaper = strings.NewReplacer(":", "%3A", "+", "%2B")

// Handler serves b with colons and plus signs escaped in the path. Box reads
// a colon as the start of an action name and unescapes segments as query
// values, where + is a space. Here both are literal filter characters
// (/db/col/name:startsWith(Ful), /db/col/phone:+34600).
func Handler(b *box.B) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		w = &statusRecorder{ResponseWriter: w}

		if !strings.ContainsAny(r.URL.Path, ":+") {
			b.ServeHTTP(w, r)
			return
		}

		u := *r.URL
		u.RawPath = pathEscaper.Replace(r.URL.EscapedPath())

		r2 := r.WithContext(r.Context())
		r2.URL = &u
		b.ServeHTTP(w, r2)
	})
}
