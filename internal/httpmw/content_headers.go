package httpmw

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ContentInfo describes the active content snapshot.
// content.Manager implements it.
type ContentInfo interface {
	ContentVersion() string
	ContentHash() string
	ContentSource() string
}

const shortHashLen = 12

// ContentHeaders stamps every response with the content snapshot that
// served it: X-Content-Source, X-Content-Version and a short
// X-Content-Hash. Nothing is set while no snapshot is loaded.
func ContentHeaders(info ContentInfo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if info == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			src, v, h := info.ContentSource(), info.ContentVersion(), info.ContentHash()
			if len(h) > shortHashLen {
				h = h[:shortHashLen]
			}
			span := trace.SpanFromContext(r.Context())
			for _, kv := range [][2]string{
				{"X-Content-Source", src},
				{"X-Content-Version", v},
				{"X-Content-Hash", h},
			} {
				if kv[1] != "" {
					w.Header().Set(kv[0], kv[1])
				}
			}
			if span.IsRecording() {
				if v != "" {
					span.SetAttributes(attribute.String("content.version", v))
				}
				if h != "" {
					span.SetAttributes(attribute.String("content.hash", info.ContentHash()))
				}
				if src != "" {
					span.SetAttributes(attribute.String("content.source", src))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
