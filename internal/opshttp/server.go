package opshttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/health"
	"github.com/keithlinneman/linnemanlabs-blog/internal/httpmw"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// Ops listener paths.
const (
	MetricsPath = "/metrics"
	HealthyPath = "/-/healthy"
	ReadyPath   = "/-/ready"
	ContentPath = "/-/content"
)

// NewHandler builds the ops mux: metrics, probes, content status and
// pprof (or 404s shadowing it). Only loopback and private peers get in.
func NewHandler(L log.Logger, opts *Options) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(HealthyPath, health.HealthzHandler(opts.Health))
	mux.Handle(ReadyPath, health.ReadyzHandler(opts.Readiness))

	if opts.Metrics != nil {
		mux.Handle(MetricsPath, opts.Metrics)
	}
	if opts.Content != nil {
		mux.Handle(ContentPath, contentHandler(opts.Content))
	}

	if opts.EnablePprof {
		RegisterPprof(mux)
	} else {
		mux.HandleFunc("/debug/pprof/", http.NotFound)
	}

	var h http.Handler = requireNonPublicNetwork(L, mux)
	if opts.UseRecoverMW {
		h = httpmw.Recover(L, opts.OnPanic)(h)
	}
	return h
}

type contentInfo struct {
	Source   string    `json:"source"`
	Version  string    `json:"version"`
	SHA256   string    `json:"sha256"`
	LoadedAt time.Time `json:"loaded_at"`
	Loaded   bool      `json:"loaded"`
}

func contentHandler(c ContentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loadedAt := c.LoadedAt()
		info := contentInfo{
			Source:   c.ContentSource(),
			Version:  c.ContentVersion(),
			SHA256:   c.ContentHash(),
			LoadedAt: loadedAt,
			Loaded:   !loadedAt.IsZero(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(info)
	}
}

// requireNonPublicNetwork rejects peers that are not loopback, private or
// link-local. The ops port is never meant to face the internet, this
// catches a misconfigured security group.
func requireNonPublicNetwork(L log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip := net.ParseIP(host)
		if ip == nil || !(ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()) {
			L.Warn(r.Context(), "ops request from public network rejected",
				"network.peer.address", host,
				"url.path", r.URL.Path,
			)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start runs the ops server on opts.Port (default 9000).
// Returns stop(ctx) for graceful shutdown.
func Start(ctx context.Context, L log.Logger, opts *Options) (func(context.Context) error, error) {
	if L == nil {
		L = log.Nop()
	}
	port := opts.Port
	if port == 0 {
		port = 9000
	}
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(L, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// pprof profile runs for 30s by default
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, xerrors.Wrapf(err, "listen for ops on %s", addr)
	}

	go func() {
		L.Info(ctx, "ops http server listening", "addr", addr)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			L.Error(ctx, err, "ops http server error")
		}
	}()

	var once sync.Once
	stop := func(sctx context.Context) (retErr error) {
		once.Do(func() {
			L.Info(sctx, "ops http server shutting down")
			c, cancel := context.WithTimeout(sctx, 5*time.Second)
			defer cancel()
			retErr = srv.Shutdown(c)
		})
		return retErr
	}
	return stop, nil
}
