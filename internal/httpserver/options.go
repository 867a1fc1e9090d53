package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-blog/internal/health"
	"github.com/keithlinneman/linnemanlabs-blog/internal/httpmw"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
)

// RouteRegistrar attaches a group of routes to the public router.
// sitehttp.Routes.RegisterRoutes is one.
type RouteRegistrar func(chi.Router)

type Options struct {
	Logger log.Logger
	Port   int

	UseRecoverMW bool
	// OnPanic runs for every recovered handler panic.
	OnPanic func()

	MetricsMW   func(http.Handler) http.Handler
	RateLimitMW func(http.Handler) http.Handler

	ClientIPOpts httpmw.ClientIPOptions

	Health    health.Probe
	Readiness health.Probe

	// ContentInfo stamps X-Content-* headers on every response.
	ContentInfo httpmw.ContentInfo

	// Routes are registered in order. The site registrar goes last since
	// it owns the NotFound fallback.
	Routes []RouteRegistrar
}
