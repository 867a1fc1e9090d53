package main

import (
	"context"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cfg"
	"github.com/keithlinneman/linnemanlabs-blog/internal/content"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/metrics"
	"github.com/keithlinneman/linnemanlabs-blog/internal/webassets"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// contentRuntime is the content manager plus whatever keeps it current.
type contentRuntime struct {
	mgr    *content.Manager
	loader *content.Loader
}

// loadSeed installs the embedded example articles.
func loadSeed(ctx context.Context, L log.Logger, mgr *content.Manager) error {
	seedFS, ok := webassets.SeedFS()
	if !ok {
		return xerrors.New("no embedded seed articles")
	}
	snap, err := content.LoadFS(seedFS, content.SourceSeed)
	if err != nil {
		return xerrors.Wrap(err, "load seed articles")
	}
	mgr.Set(*snap)
	L.Info(ctx, "loaded seed articles", "articles", snap.Meta.Articles)
	return nil
}

// loadContent loads the configured source into a new manager. Seed
// articles are installed first so a failed disk or s3 load still leaves
// something to serve; the error reports that failure.
func loadContent(ctx context.Context, L log.Logger, conf cfg.App) (*contentRuntime, error) {
	rt := &contentRuntime{mgr: content.NewManager()}
	if err := loadSeed(ctx, L, rt.mgr); err != nil {
		L.Warn(ctx, "seed articles unavailable", "error", err.Error())
		if conf.ContentSource == cfg.SourceSeed {
			return rt, err
		}
	}

	switch conf.ContentSource {
	case cfg.SourceSeed:
		return rt, nil

	case cfg.SourceDisk:
		snap, err := content.LoadDir(conf.ContentDir)
		if err != nil {
			return rt, err
		}
		if err := content.ValidateSnapshot(ctx, snap, content.DiskValidationOptions()); err != nil {
			return rt, xerrors.Wrapf(err, "validate %s", conf.ContentDir)
		}
		rt.mgr.Set(*snap)
		L.Info(ctx, "loaded articles from disk",
			"dir", conf.ContentDir,
			"articles", snap.Meta.Articles,
			"content_version", snap.Meta.Version,
		)
		return rt, nil

	case cfg.SourceS3:
		loader, err := content.NewLoader(ctx, content.LoaderOptions{
			Logger:   L,
			SSMParam: conf.ContentSSMParam,
			S3Bucket: conf.ContentS3Bucket,
			S3Prefix: conf.ContentS3Prefix,
		})
		if err != nil {
			return rt, xerrors.Wrap(err, "create content loader")
		}
		rt.loader = loader
		if err := loader.LoadIntoManager(ctx, rt.mgr, content.DefaultValidationOptions()); err != nil {
			return rt, xerrors.Wrap(err, "load content bundle")
		}
		L.Info(ctx, "loaded content bundle from s3",
			"content_version", rt.mgr.ContentVersion(),
			"content_hash", rt.mgr.ContentHash(),
		)
		return rt, nil
	}
	return rt, xerrors.Newf("unknown content source %q", conf.ContentSource)
}

// publish copies the active snapshot's identity into the metrics.
func (rt *contentRuntime) publish(m *metrics.ServerMetrics) {
	snap, ok := rt.mgr.Get()
	if !ok {
		m.SetContentSource(string(content.SourceUnknown))
		return
	}
	m.SetContentSource(string(snap.Meta.Source))
	m.SetContentBundle(snap.Meta.SHA256)
	m.SetArticles(snap.Meta.Articles)
	if !snap.LoadedAt.IsZero() {
		m.SetContentLoadedTimestamp(snap.LoadedAt)
	}
}

// startWatchers keeps the manager current for disk and s3 sources. The
// watchers stop when ctx is cancelled.
func (rt *contentRuntime) startWatchers(ctx context.Context, L log.Logger, conf cfg.App, m *metrics.ServerMetrics) {
	onSwap := func(string, string) { rt.publish(m) }

	switch conf.ContentSource {
	case cfg.SourceDisk:
		if !conf.WatchContent {
			return
		}
		w := content.NewDirWatcher(&content.DirWatcherOptions{
			Logger:  L,
			Dir:     conf.ContentDir,
			Manager: rt.mgr,
			OnSwap:  onSwap,
			Metrics: m,
		})
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				L.Error(ctx, err, "content dir watcher stopped")
			}
		}()

	case cfg.SourceS3:
		if rt.loader == nil || !conf.EnableContentUpdates {
			return
		}
		w := content.NewWatcher(&content.WatcherOptions{
			Logger:       L,
			Loader:       rt.loader,
			Manager:      rt.mgr,
			PollInterval: conf.ContentPollInterval,
			OnSwap:       onSwap,
			Metrics:      m,
		})
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				L.Error(ctx, err, "content watcher stopped")
			}
		}()
	}
}
