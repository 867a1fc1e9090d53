package httpmw

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// unmatchedRoute names requests that matched no route pattern, so raw
// article paths never become span names.
const unmatchedRoute = "unmatched"

// RoutePattern returns the chi pattern that served r, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// AnnotateHTTPRoute renames the server span to "METHOD pattern" and tags
// it with http.route and the article slug or tag, when present.
func AnnotateHTTPRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		span := trace.SpanFromContext(r.Context())
		if !span.IsRecording() {
			return
		}
		route := RoutePattern(r)
		span.SetAttributes(attribute.String("http.route", route))
		if slug := chi.URLParam(r, "slug"); slug != "" {
			span.SetAttributes(attribute.String("blog.article.slug", slug))
		}
		if tag := chi.URLParam(r, "tag"); tag != "" {
			span.SetAttributes(attribute.String("blog.tag", tag))
		}
		span.SetName(r.Method + " " + route)
	})
}
