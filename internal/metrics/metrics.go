package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keithlinneman/linnemanlabs-blog/internal/version"
)

// ServerMetrics owns a private registry with the process collectors, the
// http request series and the blog's content and article series.
type ServerMetrics struct {
	reg     *prometheus.Registry
	handler http.Handler

	// http
	inflight       prometheus.Gauge
	reqTotal       *prometheus.CounterVec
	reqDur         *prometheus.HistogramVec
	respBytes      *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	httpPanicTotal prometheus.Counter

	buildInfo       *prometheus.GaugeVec
	profilingActive prometheus.Gauge

	ratelimitDeniedTotal   prometheus.Counter
	ratelimitCapacityTotal prometheus.Counter

	// content snapshot
	contentSource          *prometheus.GaugeVec
	contentLoadedTimestamp prometheus.Gauge
	contentBundleInfo      *prometheus.GaugeVec
	articles               prometheus.Gauge

	// article pages
	articleNotFound   prometheus.Counter
	listingIncomplete prometheus.Counter
	renderDur         *prometheus.HistogramVec

	// content watchers, labelled by source (s3, disk)
	watcherPollsTotal    *prometheus.CounterVec
	watcherSwapsTotal    *prometheus.CounterVec
	watcherErrorsTotal   *prometheus.CounterVec
	bundleLoadDuration   *prometheus.HistogramVec
	watcherLastSuccessTs *prometheus.GaugeVec
	watcherStale         *prometheus.GaugeVec
}

// New returns a fresh registry + standard collectors + HTTP metrics
// safe labels only (method, route, code) to avoid path/cardinality explosions
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		respBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Response size by method and route",
			Buckets: []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304},
		}, []string{"method", "route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total 5xx HTTP server errors by method and route (SLI)",
		}, []string{"method", "route"}),
		httpPanicTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_panic_total",
			Help: "Total number of recovered handler panics",
		}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"app", "component", "version", "commit", "commit_date", "build_id", "build_date", "vcs_dirty", "go_version"}),
		profilingActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "profiling_active",
			Help: "Whether continuous profiling is active (1) or disabled/failed (0)",
		}),
		ratelimitDeniedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_total",
			Help: "Total requests rejected by rate limiter",
		}),
		ratelimitCapacityTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_capacity_total",
			Help: "Total number of times the rate limiter visitor table was full",
		}),
		contentSource: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "content_source_info",
			Help: "Current content source (label carries value, gauge is always 1)",
		}, []string{"source"}),
		contentLoadedTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "content_loaded_timestamp_seconds",
			Help: "Unix timestamp of when the current content snapshot was loaded",
		}),
		contentBundleInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "content_bundle_info",
			Help: "Currently active content snapshot (label carries identity, value is always 1)",
		}, []string{"sha256"}),
		articles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blog_articles",
			Help: "Number of article files in the active content snapshot",
		}),
		articleNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_article_not_found_total",
			Help: "Total article requests whose slug did not resolve",
		}),
		listingIncomplete: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_listing_incomplete_total",
			Help: "Total listings rendered with at least one article skipped",
		}),
		renderDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_page_render_duration_seconds",
			Help:    "Time to load content and render a page, by page kind",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"page"}),
		watcherPollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_watcher_polls_total",
			Help: "Total number of watcher poll or reload cycles",
		}, []string{"source"}),
		watcherSwapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_watcher_swaps_total",
			Help: "Total number of successful content snapshot swaps",
		}, []string{"source"}),
		watcherErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_watcher_errors_total",
			Help: "Total watcher errors by source and type",
		}, []string{"source", "type"}),
		bundleLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "content_load_duration_seconds",
			Help:    "Time to fetch, extract and hash a content snapshot",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		watcherLastSuccessTs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "content_watcher_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful watcher cycle",
		}, []string{"source"}),
		watcherStale: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "content_watcher_stale",
			Help: "Whether the content watcher is stale (1) or healthy (0)",
		}, []string{"source"}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.respBytes,
		m.errorsTotal,
		m.httpPanicTotal,
		m.buildInfo,
		m.profilingActive,
		m.ratelimitDeniedTotal,
		m.ratelimitCapacityTotal,
		m.contentSource,
		m.contentLoadedTimestamp,
		m.contentBundleInfo,
		m.articles,
		m.articleNotFound,
		m.listingIncomplete,
		m.renderDur,
		m.watcherPollsTotal,
		m.watcherSwapsTotal,
		m.watcherErrorsTotal,
		m.bundleLoadDuration,
		m.watcherLastSuccessTs,
		m.watcherStale,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}

func (m *ServerMetrics) IncHttpPanic() {
	m.httpPanicTotal.Inc()
}

// set once at startup.
func (m *ServerMetrics) SetBuildInfoFromVersion(app, component string, vi *version.Info) {
	dirty := "unknown"
	if vi.VCSDirty != nil {
		dirty = strconv.FormatBool(*vi.VCSDirty)
	}
	m.buildInfo.With(prometheus.Labels{
		"app":         app,
		"component":   component,
		"version":     vi.Version,
		"commit":      vi.Commit,
		"commit_date": vi.CommitDate,
		"build_id":    vi.BuildId,
		"build_date":  vi.BuildDate,
		"go_version":  vi.GoVersion,
		"vcs_dirty":   dirty,
	}).Set(1)
}

func (m *ServerMetrics) SetProfilingActive(active bool) {
	m.profilingActive.Set(boolGauge(active))
}

func (m *ServerMetrics) IncRateLimitDenied() {
	m.ratelimitDeniedTotal.Inc()
}

func (m *ServerMetrics) IncRateLimitCapacity() {
	m.ratelimitCapacityTotal.Inc()
}

func (m *ServerMetrics) SetContentSource(source string) {
	m.contentSource.Reset() // clear previous label value
	m.contentSource.WithLabelValues(source).Set(1)
}

func (m *ServerMetrics) SetContentLoadedTimestamp(t time.Time) {
	m.contentLoadedTimestamp.Set(float64(t.Unix()))
}

func (m *ServerMetrics) SetContentBundle(sha256 string) {
	m.contentBundleInfo.Reset()
	m.contentBundleInfo.WithLabelValues(sha256).Set(1)
}

func (m *ServerMetrics) SetArticles(n int) {
	m.articles.Set(float64(n))
}

func (m *ServerMetrics) IncArticleNotFound() {
	m.articleNotFound.Inc()
}

func (m *ServerMetrics) IncListingIncomplete() {
	m.listingIncomplete.Inc()
}

// ObserveRender records page render time. page is a fixed kind
// (listing, article, tag, not_found), never a slug.
func (m *ServerMetrics) ObserveRender(page string, seconds float64) {
	m.renderDur.WithLabelValues(page).Observe(seconds)
}

func (m *ServerMetrics) IncWatcherPolls(source string) {
	m.watcherPollsTotal.WithLabelValues(source).Inc()
}

func (m *ServerMetrics) IncWatcherSwaps(source string) {
	m.watcherSwapsTotal.WithLabelValues(source).Inc()
}

func (m *ServerMetrics) IncWatcherError(source, errType string) {
	m.watcherErrorsTotal.WithLabelValues(source, errType).Inc()
}

func (m *ServerMetrics) ObserveBundleLoadDuration(source string, seconds float64) {
	m.bundleLoadDuration.WithLabelValues(source).Observe(seconds)
}

func (m *ServerMetrics) SetWatcherLastSuccess(source string, unixSeconds float64) {
	m.watcherLastSuccessTs.WithLabelValues(source).Set(unixSeconds)
}

func (m *ServerMetrics) SetWatcherStale(source string, stale bool) {
	m.watcherStale.WithLabelValues(source).Set(boolGauge(stale))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
