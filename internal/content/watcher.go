package content

import (
	"context"
	"fmt"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cryptoutil"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
)

const (
	// DefaultPollInterval is how often the watcher checks SSM for a new hash.
	DefaultPollInterval = 30 * time.Second

	// maxBackoff caps exponential backoff on consecutive SSM errors.
	maxBackoff = 5 * time.Minute
)

type pollResult int

const (
	pollNoChange pollResult = iota
	pollSwapped
	pollSSMError
	pollLoadError
	pollValidationError
)

// BundleFetcher is what the Watcher needs from a Loader.
type BundleFetcher interface {
	FetchCurrentBundleHash(ctx context.Context) (string, error)
	LoadHash(ctx context.Context, hash string) (*Snapshot, error)
}

// WatcherMetrics is implemented by the metrics package. source is "s3" or
// "disk" so both watchers share one set of series.
type WatcherMetrics interface {
	IncWatcherPolls(source string)
	IncWatcherSwaps(source string)
	IncWatcherError(source, errType string)
	ObserveBundleLoadDuration(source string, seconds float64)
	SetWatcherLastSuccess(source string, unixSeconds float64)
	SetWatcherStale(source string, stale bool)
	SetArticles(n int)
}

type WatcherOptions struct {
	Logger       log.Logger
	Loader       BundleFetcher
	Manager      *Manager
	PollInterval time.Duration

	// nil means DefaultValidationOptions()
	Validation *ValidationOptions

	// OnSwap runs on the poll goroutine after each successful swap.
	OnSwap func(hash, version string)

	Metrics WatcherMetrics

	// StaleThreshold is how long without a successful SSM poll before the
	// content is reported stale. Zero means 30 minutes.
	StaleThreshold time.Duration
}

// Watcher polls SSM and hot-swaps new bundles into the manager.
type Watcher struct {
	loader     BundleFetcher
	manager    *Manager
	logger     log.Logger
	interval   time.Duration
	validation ValidationOptions
	onSwap     func(hash, version string)
	metrics    WatcherMetrics

	currentHash     string
	consecutiveErrs int

	staleThreshold time.Duration
	lastSuccessAt  time.Time
	staleLogged    bool

	pollCount int64
	swapCount int64
}

func NewWatcher(opts *WatcherOptions) *Watcher {
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	// seed from the manager so the first poll does not reload startup content
	currentHash := ""
	if snap, ok := opts.Manager.Get(); ok && snap.Meta.Source == SourceS3 {
		currentHash = snap.Meta.SHA256
	}

	validation := DefaultValidationOptions()
	if opts.Validation != nil {
		validation = *opts.Validation
	}

	staleThreshold := opts.StaleThreshold
	if staleThreshold <= 0 {
		staleThreshold = 30 * time.Minute
	}

	return &Watcher{
		loader:         opts.Loader,
		manager:        opts.Manager,
		logger:         opts.Logger,
		interval:       interval,
		validation:     validation,
		onSwap:         opts.OnSwap,
		metrics:        opts.Metrics,
		currentHash:    currentHash,
		staleThreshold: staleThreshold,
		lastSuccessAt:  time.Now(),
	}
}

// Run starts the poll loop and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info(ctx, "content watcher starting",
		"poll_interval", w.interval.String(),
		"current_hash", truncHash(w.currentHash),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "content watcher stopping",
				"reason", ctx.Err(),
				"polls", w.pollCount,
				"swaps", w.swapCount,
			)
			return ctx.Err()
		case <-ticker.C:
			w.afterPoll(ctx, ticker, w.checkOnce(ctx))
		}
	}
}

// afterPoll adjusts the poll cadence and staleness state.
func (w *Watcher) afterPoll(ctx context.Context, ticker *time.Ticker, result pollResult) {
	if result == pollSSMError {
		w.consecutiveErrs++
		backoff := w.backoffDuration()
		w.logger.Warn(ctx, "content watcher: backing off",
			"consecutive_errors", w.consecutiveErrs,
			"next_poll_in", backoff.String(),
		)
		ticker.Reset(backoff)

		if time.Since(w.lastSuccessAt) > w.staleThreshold && !w.staleLogged {
			w.logger.Error(ctx, fmt.Errorf("last successful SSM poll was %s ago", time.Since(w.lastSuccessAt).Truncate(time.Second)),
				"content watcher: content is stale, unable to verify freshness",
			)
			w.staleLogged = true
			if w.metrics != nil {
				w.metrics.SetWatcherStale(string(SourceS3), true)
			}
		}
		return
	}

	if w.consecutiveErrs > 0 {
		w.logger.Info(ctx, "content watcher: recovered, resuming normal interval",
			"had_consecutive_errors", w.consecutiveErrs,
		)
		w.consecutiveErrs = 0
		ticker.Reset(w.interval)
	}
	if w.staleLogged {
		w.logger.Info(ctx, "content watcher: staleness recovered")
		w.staleLogged = false
		if w.metrics != nil {
			w.metrics.SetWatcherStale(string(SourceS3), false)
		}
	}
}

// checkOnce performs a single poll-compare-swap cycle.
func (w *Watcher) checkOnce(ctx context.Context) pollResult {
	const src = string(SourceS3)
	w.pollCount++
	if w.metrics != nil {
		w.metrics.IncWatcherPolls(src)
	}

	hash, err := w.loader.FetchCurrentBundleHash(ctx)
	if err != nil {
		w.logger.Error(ctx, err, "content watcher: SSM poll failed")
		if w.metrics != nil {
			w.metrics.IncWatcherError(src, "ssm")
		}
		return pollSSMError
	}

	now := time.Now()
	w.lastSuccessAt = now
	if w.metrics != nil {
		w.metrics.SetWatcherLastSuccess(src, float64(now.Unix()))
	}

	if cryptoutil.HashEqual(hash, w.currentHash) {
		return pollNoChange
	}

	w.logger.Info(ctx, "content watcher: new bundle hash detected",
		"old_hash", truncHash(w.currentHash),
		"new_hash", truncHash(hash),
	)

	loadStart := time.Now()
	snap, err := w.loader.LoadHash(ctx, hash)
	if w.metrics != nil {
		w.metrics.ObserveBundleLoadDuration(src, time.Since(loadStart).Seconds())
	}
	if err != nil {
		w.logger.Error(ctx, err, "content watcher: failed to load bundle",
			"hash", truncHash(hash),
		)
		if w.metrics != nil {
			w.metrics.IncWatcherError(src, "load")
		}
		return pollLoadError
	}

	if err := ValidateSnapshot(ctx, snap, w.validation); err != nil {
		w.logger.Error(ctx, err, "content watcher: new bundle failed validation, keeping current content",
			"rejected_hash", truncHash(hash),
			"current_hash", truncHash(w.currentHash),
		)
		if w.metrics != nil {
			w.metrics.IncWatcherError(src, "validation")
		}
		return pollValidationError
	}

	oldHash := w.currentHash
	w.manager.Set(*snap)
	w.currentHash = hash
	w.swapCount++

	version := w.manager.ContentVersion()
	w.logger.Info(ctx, "content watcher: bundle swapped",
		"old_hash", truncHash(oldHash),
		"new_hash", truncHash(hash),
		"version", version,
		"articles", snap.Meta.Articles,
		"total_swaps", w.swapCount,
	)
	if w.metrics != nil {
		w.metrics.IncWatcherSwaps(src)
		w.metrics.SetArticles(snap.Meta.Articles)
	}
	notifySwap(ctx, w.logger, w.onSwap, hash, version)

	return pollSwapped
}

// backoffDuration doubles the interval per consecutive error, capped at maxBackoff.
func (w *Watcher) backoffDuration() time.Duration {
	d := w.interval
	for i := 0; i < w.consecutiveErrs && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// notifySwap runs fn, logging instead of crashing the watcher if it panics.
func notifySwap(ctx context.Context, logger log.Logger, fn func(hash, version string), hash, version string) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, fmt.Errorf("OnSwap panic: %v", r),
				"content watcher: OnSwap callback panicked, continuing",
				"hash", truncHash(hash),
			)
		}
	}()
	fn(hash, version)
}

// truncHash returns the first 12 characters of a hash for logging.
func truncHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
