package opshttp

import (
	"net/http"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/health"
)

// ContentStatus describes the active content snapshot.
// content.Manager implements it.
type ContentStatus interface {
	ContentSource() string
	ContentVersion() string
	ContentHash() string
	LoadedAt() time.Time
}

type Options struct {
	Port        int
	Metrics     http.Handler
	EnablePprof bool
	Health      health.Probe
	Readiness   health.Probe
	// Content backs /-/content. Omitted when nil.
	Content      ContentStatus
	UseRecoverMW bool
	OnPanic      func()
}
