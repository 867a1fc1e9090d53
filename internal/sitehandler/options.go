package sitehandler

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pages"
)

var ErrInvalidOptions = errors.New("sitehandler: invalid options")

// LibraryProvider returns the article library of the active content
// snapshot, or false while none is loaded.
type LibraryProvider interface {
	Library() (*article.Library, bool)
}

// PageMetrics is implemented by metrics.ServerMetrics.
type PageMetrics interface {
	IncArticleNotFound()
	IncListingIncomplete()
	ObserveRender(page string, seconds float64)
}

type Options struct {
	Logger log.Logger
	// Active content
	Content LibraryProvider
	// FallbackFS holds the maintenance page and the last-resort 404.
	FallbackFS fs.FS
	// StaticFS is served under /assets/ (and /robots.txt).
	StaticFS fs.FS

	Site    pages.Site
	Metrics PageMetrics
	// Now is the clock used for relative dates. Default time.Now.
	Now func() time.Time

	MaintenanceFile string // default: "maintenance.html"
	Fallback404File string // default: "404.html"

	// Cache policies.
	HTMLCacheControl  string // default: "no-cache"
	AssetCacheControl string // default: "public, max-age=86400"
	OtherCacheControl string // default: "public, max-age=3600"
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MaintenanceFile == "" {
		o.MaintenanceFile = "maintenance.html"
	}
	if o.Fallback404File == "" {
		o.Fallback404File = "404.html"
	}
	if o.HTMLCacheControl == "" {
		o.HTMLCacheControl = "no-cache"
	}
	if o.AssetCacheControl == "" {
		o.AssetCacheControl = "public, max-age=86400"
	}
	if o.OtherCacheControl == "" {
		o.OtherCacheControl = "public, max-age=3600"
	}
}

func (o *Options) validate() error {
	if o.Content == nil {
		return fmt.Errorf("%w: Content is nil", ErrInvalidOptions)
	}
	if o.FallbackFS == nil {
		return fmt.Errorf("%w: FallbackFS is nil", ErrInvalidOptions)
	}
	if o.StaticFS == nil {
		return fmt.Errorf("%w: StaticFS is nil", ErrInvalidOptions)
	}
	// fail fast on boot if mispackaged
	if _, err := fs.Stat(o.FallbackFS, o.MaintenanceFile); err != nil {
		return fmt.Errorf("%w: missing %q in fallback FS: %v", ErrInvalidOptions, o.MaintenanceFile, err)
	}
	return nil
}
