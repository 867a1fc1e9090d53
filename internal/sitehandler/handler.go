package sitehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pages"
	"github.com/keithlinneman/linnemanlabs-blog/internal/theme"
)

// Page kinds used as the render metric label.
const (
	pageListing  = "listing"
	pageArticle  = "article"
	pageTag      = "tag"
	pageNotFound = "not_found"
)

var tracer = otel.Tracer("linnemanlabs-blog/sitehandler")

// Handler serves the blog pages, the JSON API and the embedded assets.
// Routes are attached by sitehttp.
type Handler struct {
	opts Options
}

func New(opts Options) (*Handler, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Handler{opts: opts}, nil
}

// library returns the active library, or serves the maintenance page and
// returns false.
func (h *Handler) library(w http.ResponseWriter, r *http.Request) (*article.Library, bool) {
	lib, ok := h.opts.Content.Library()
	if !ok || lib == nil {
		h.serveMaintenance(w, r)
		return nil, false
	}
	return lib, true
}

// Listing serves "/".
func (h *Handler) Listing(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	list, listErr := lib.List(ctx)
	tags := article.CountTags(list)
	if listErr != nil {
		h.incomplete()
	}
	page := pages.Listing(h.opts.Site, pages.ListingData{
		Articles:   list,
		Tags:       tags,
		Incomplete: listErr != nil,
		Now:        h.opts.Now(),
	})
	h.renderPage(w, r, http.StatusOK, page)
	h.observe(pageListing, start)
}

// Article serves "/{slug}".
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")
	ctx, span := tracer.Start(r.Context(), "article.render")
	span.SetAttributes(attribute.String("article.slug", slug))
	defer span.End()
	start := time.Now()

	a, err := lib.Resolve(ctx, slug)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			span.SetAttributes(attribute.Bool("article.found", false))
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err, "resolve article")
		return
	}
	rendered, err := a.Render(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		h.serverError(w, r, err, "render article", "slug", slug)
		return
	}
	h.renderPage(w, r, http.StatusOK, pages.Article(h.opts.Site, pages.ArticleData{
		Article:  a,
		Rendered: rendered,
		Now:      h.opts.Now(),
	}))
	h.observe(pageArticle, start)
}

// Tag serves "/tags/{tag}". Unknown tags render an empty listing rather
// than a 404 so tag links never break while content reloads.
func (h *Handler) Tag(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}
	tag := chi.URLParam(r, "tag")
	start := time.Now()

	list, err := lib.ListByTag(r.Context(), tag)
	if err != nil {
		h.incomplete()
	}
	h.renderPage(w, r, http.StatusOK, pages.TagListing(h.opts.Site, tag, pages.ListingData{
		Articles:   list,
		Incomplete: err != nil,
		Now:        h.opts.Now(),
	}))
	h.observe(pageTag, start)
}

// NotFound serves the themed 404 page for any unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.library(w, r); !ok {
		return
	}
	h.notFound(w, r)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	if h.opts.Metrics != nil {
		h.opts.Metrics.IncArticleNotFound()
	}
	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")

	var buf bytes.Buffer
	if err := pages.NotFound(h.opts.Site, pages.NotFoundMessage).Render(r.Context(), &buf); err != nil {
		h.opts.Logger.Error(r.Context(), err, "render not found page")
		h.serveFallback404(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, buf.Bytes())
	h.observe(pageNotFound, start)
}

// MethodNotAllowed answers anything but GET/HEAD.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, HEAD")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// ThemeCSS serves the generated stylesheet.
func (h *Handler) ThemeCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", h.opts.OtherCacheControl)
	_, _ = w.Write([]byte(theme.Stylesheet()))
}

// TailwindConfig serves the token JSON for external CSS builds.
func (h *Handler) TailwindConfig(w http.ResponseWriter, r *http.Request) {
	data, err := theme.TailwindConfig()
	if err != nil {
		h.serverError(w, r, err, "encode tailwind config")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", h.opts.OtherCacheControl)
	_, _ = w.Write(data)
}

// Asset serves a file from StaticFS. The file name is the chi wildcard, or
// the bare path for root level files such as /robots.txt.
func (h *Handler) Asset(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" {
		rel = strings.TrimPrefix(r.URL.Path, "/")
	}
	name, ok := resolveAsset(rel, h.opts.StaticFS)
	if !ok {
		w.Header().Set("Cache-Control", "no-store")
		http.NotFound(w, r)
		return
	}
	if cc := cacheControlForFile(name, &h.opts); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	http.ServeFileFS(w, r, h.opts.StaticFS, name)
}

// renderPage renders c fully before writing so a render error can still
// become a 500.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		h.serverError(w, r, err, "render page")
		return
	}
	w.Header().Set("Cache-Control", h.opts.HTMLCacheControl)
	writeHTML(w, status, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string, kv ...any) {
	h.opts.Logger.Error(r.Context(), err, msg, kv...)
	w.Header().Set("Cache-Control", "no-store")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) incomplete() {
	if h.opts.Metrics != nil {
		h.opts.Metrics.IncListingIncomplete()
	}
}

func (h *Handler) observe(page string, start time.Time) {
	if h.opts.Metrics != nil {
		h.opts.Metrics.ObserveRender(page, time.Since(start).Seconds())
	}
}

func (h *Handler) serveMaintenance(w http.ResponseWriter, r *http.Request) {
	// Maintenance should never be cached.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Retry-After", "60")

	serveFileWithStatus(w, r, http.StatusServiceUnavailable, h.opts.FallbackFS, h.opts.MaintenanceFile)
}

func (h *Handler) serveFallback404(w http.ResponseWriter, r *http.Request) {
	if existsFile(h.opts.FallbackFS, h.opts.Fallback404File) {
		serveFileWithStatus(w, r, http.StatusNotFound, h.opts.FallbackFS, h.opts.Fallback404File)
		return
	}
	// last resort: plain text
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(pages.NotFoundMessage))
}

// API

type apiError struct {
	Error string `json:"error"`
}

type apiList struct {
	Articles   []article.Summary `json:"articles"`
	Incomplete bool              `json:"incomplete"`
}

type apiArticle struct {
	article.Summary
	TOC []article.TOCEntry `json:"toc"`
}

// APIList serves "/api/articles".
func (h *Handler) APIList(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.opts.Content.Library()
	if !ok || lib == nil {
		h.writeJSON(r.Context(), w, http.StatusServiceUnavailable, apiError{Error: "content not loaded"})
		return
	}
	list, err := lib.List(r.Context())
	if err != nil {
		h.incomplete()
	}
	if list == nil {
		list = []article.Summary{}
	}
	h.writeJSON(r.Context(), w, http.StatusOK, apiList{Articles: list, Incomplete: err != nil})
}

// APIArticle serves "/api/articles/{slug}".
func (h *Handler) APIArticle(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.opts.Content.Library()
	if !ok || lib == nil {
		h.writeJSON(r.Context(), w, http.StatusServiceUnavailable, apiError{Error: "content not loaded"})
		return
	}
	a, err := lib.Resolve(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if h.opts.Metrics != nil {
			h.opts.Metrics.IncArticleNotFound()
		}
		h.writeJSON(r.Context(), w, http.StatusNotFound, apiError{Error: pages.NotFoundMessage})
		return
	}
	rendered, err := a.Render(r.Context())
	if err != nil {
		h.opts.Logger.Error(r.Context(), err, "render article", "slug", a.Slug)
		h.writeJSON(r.Context(), w, http.StatusInternalServerError, apiError{Error: "render failed"})
		return
	}
	toc := rendered.TOC
	if toc == nil {
		toc = []article.TOCEntry{}
	}
	h.writeJSON(r.Context(), w, http.StatusOK, apiArticle{Summary: a.Summary(), TOC: toc})
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		h.opts.Logger.Error(ctx, err, "encode json response")
	}
}

// we want to serve a file but force an HTTP status code (404/503)
// but http.ServeFileFS writes a status code on its own so wrapping
// ResponseWriter and overriding the first WriteHeader call here
type statusOverrideWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusOverrideWriter) WriteHeader(code int) {
	if w.wroteHeader {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *statusOverrideWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(w.status)
	}
	return w.ResponseWriter.Write(b)
}

func serveFileWithStatus(w http.ResponseWriter, r *http.Request, status int, fsys fs.FS, name string) {
	sw := &statusOverrideWriter{ResponseWriter: w, status: status}
	http.ServeFileFS(sw, r, fsys, name)
}
