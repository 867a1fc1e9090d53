// Package provenancehttp serves what the blog is running: the binary's
// build metadata and the content snapshot behind the pages.
package provenancehttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-blog/internal/content"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/version"
)

const (
	ContentPath = "/api/provenance/content"
	BuildPath   = "/api/provenance/build"
)

// SnapshotProvider is implemented by content.Manager.
type SnapshotProvider interface {
	Get() (*content.Snapshot, bool)
}

type API struct {
	content SnapshotProvider
	logger  log.Logger
	now     func() time.Time
}

func NewAPI(snapshots SnapshotProvider, logger log.Logger) *API {
	if logger == nil {
		logger = log.Nop()
	}
	return &API{content: snapshots, logger: logger, now: time.Now}
}

// RegisterRoutes attaches the provenance endpoints. Register before the
// site so they are explicit routes rather than article slugs.
func (api *API) RegisterRoutes(r chi.Router) {
	r.Get(ContentPath, api.HandleContent)
	r.Get(BuildPath, api.HandleBuild)
}

// ContentResponse describes the active snapshot.
type ContentResponse struct {
	Source     content.Source `json:"source"`
	Version    string         `json:"version,omitempty"`
	SHA256     string         `json:"sha256,omitempty"`
	Articles   int            `json:"articles"`
	VerifiedAt time.Time      `json:"verified_at,omitempty"`
	LoadedAt   time.Time      `json:"loaded_at"`
	ServerTime time.Time      `json:"server_time"`
	Error      string         `json:"error,omitempty"`
}

func (api *API) HandleContent(w http.ResponseWriter, r *http.Request) {
	resp := ContentResponse{Source: content.SourceUnknown, ServerTime: api.now().UTC()}
	snap, ok := api.content.Get()
	if !ok {
		resp.Error = "no content loaded"
		api.writeJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Source = snap.Meta.Source
	resp.Version = snap.Meta.Version
	resp.SHA256 = snap.Meta.SHA256
	resp.Articles = snap.Meta.Articles
	resp.VerifiedAt = snap.Meta.VerifiedAt
	resp.LoadedAt = snap.LoadedAt
	api.writeJSON(w, r, http.StatusOK, resp)
}

func (api *API) HandleBuild(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, r, http.StatusOK, version.Get())
}

func (api *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.logger.Error(r.Context(), err, "encode provenance response")
	}
}
