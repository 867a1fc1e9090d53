package content

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

type DirWatcherOptions struct {
	Logger   log.Logger
	Dir      string
	Manager  *Manager
	Debounce time.Duration

	// nil means DiskValidationOptions()
	Validation *ValidationOptions

	OnSwap  func(hash, version string)
	Metrics WatcherMetrics
}

// DirWatcher re-snapshots a content directory when its article files change.
type DirWatcher struct {
	dir        string
	manager    *Manager
	logger     log.Logger
	debounce   time.Duration
	validation ValidationOptions
	onSwap     func(hash, version string)
	metrics    WatcherMetrics

	currentHash string
}

func NewDirWatcher(opts *DirWatcherOptions) *DirWatcher {
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	validation := DiskValidationOptions()
	if opts.Validation != nil {
		validation = *opts.Validation
	}
	currentHash := ""
	if snap, ok := opts.Manager.Get(); ok && snap.Meta.Source == SourceDisk {
		currentHash = snap.Meta.SHA256
	}
	return &DirWatcher{
		dir:         opts.Dir,
		manager:     opts.Manager,
		logger:      opts.Logger,
		debounce:    debounce,
		validation:  validation,
		onSwap:      opts.OnSwap,
		metrics:     opts.Metrics,
		currentHash: currentHash,
	}
}

// relevant reports whether an event can change the article set.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	_, ok := article.SlugOf(filepath.Base(ev.Name))
	return ok
}

// Run watches the directory until ctx is cancelled.
func (w *DirWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return xerrors.Wrap(err, "create fsnotify watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return xerrors.Wrapf(err, "watch %s", w.dir)
	}

	w.logger.Info(ctx, "content dir watcher starting",
		"dir", w.dir,
		"debounce", w.debounce.String(),
	)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "content dir watcher stopping", "reason", ctx.Err())
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug(ctx, "content file changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(ctx, err, "content dir watcher: fsnotify error")
			if w.metrics != nil {
				w.metrics.IncWatcherError(string(SourceDisk), "watch")
			}

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

// reload snapshots the directory and swaps it in when it changed and passes validation.
func (w *DirWatcher) reload(ctx context.Context) pollResult {
	const src = string(SourceDisk)
	if w.metrics != nil {
		w.metrics.IncWatcherPolls(src)
	}

	start := time.Now()
	snap, err := LoadDir(w.dir)
	if w.metrics != nil {
		w.metrics.ObserveBundleLoadDuration(src, time.Since(start).Seconds())
	}
	if err != nil {
		w.logger.Error(ctx, err, "content dir watcher: reload failed", "dir", w.dir)
		if w.metrics != nil {
			w.metrics.IncWatcherError(src, "load")
		}
		return pollLoadError
	}
	if w.metrics != nil {
		w.metrics.SetWatcherLastSuccess(src, float64(time.Now().Unix()))
	}

	if snap.Meta.SHA256 == w.currentHash {
		return pollNoChange
	}

	if err := ValidateSnapshot(ctx, snap, w.validation); err != nil {
		w.logger.Error(ctx, err, "content dir watcher: changed content failed validation, keeping current content",
			"rejected_hash", truncHash(snap.Meta.SHA256),
		)
		if w.metrics != nil {
			w.metrics.IncWatcherError(src, "validation")
		}
		return pollValidationError
	}

	w.manager.Set(*snap)
	w.currentHash = snap.Meta.SHA256
	w.logger.Info(ctx, "content dir watcher: content reloaded",
		"version", snap.Meta.Version,
		"articles", snap.Meta.Articles,
	)
	if w.metrics != nil {
		w.metrics.IncWatcherSwaps(src)
		w.metrics.SetArticles(snap.Meta.Articles)
	}
	notifySwap(ctx, w.logger, w.onSwap, snap.Meta.SHA256, snap.Meta.Version)
	return pollSwapped
}
