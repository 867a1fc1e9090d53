package content

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
)

type Manager struct {
	active atomic.Pointer[Snapshot]
}

func NewManager() *Manager { return &Manager{} }

// Set sets the active snapshot safely
func (m *Manager) Set(s Snapshot) {
	// copy so later changes by the caller are not observed
	cp := new(Snapshot)
	*cp = s
	if cp.LoadedAt.IsZero() {
		cp.LoadedAt = time.Now().UTC()
	}
	if cp.FS != nil && cp.library == nil {
		cp.library = article.NewLibrary(cp.FS)
	}
	m.active.Store(cp)
}

// Get retrieves the active snapshot value
func (m *Manager) Get() (*Snapshot, bool) {
	s := m.active.Load()
	return s, s != nil && s.FS != nil
}

// Library returns the article library of the active snapshot.
func (m *Manager) Library() (*article.Library, bool) {
	s, ok := m.Get()
	if !ok {
		return nil, false
	}
	return s.library, true
}

// ContentVersion returns the current content version for headers
// Implements httpmw.ContentInfo interface
func (m *Manager) ContentVersion() string {
	s := m.active.Load()
	if s == nil {
		return ""
	}
	return s.Meta.Version
}

// ContentHash returns the current content hash for headers
// Implements httpmw.ContentInfo interface
func (m *Manager) ContentHash() string {
	s := m.active.Load()
	if s == nil {
		return ""
	}
	return s.Meta.SHA256
}

// Source returns the source of the current content, or SourceUnknown if not available
func (m *Manager) Source() Source {
	s := m.active.Load()
	if s == nil {
		return SourceUnknown
	}
	return s.Meta.Source
}

// ContentSource is Source as a plain string for response headers.
// Implements httpmw.ContentInfo interface
func (m *Manager) ContentSource() string {
	return string(m.Source())
}

// LoadedAt returns the time when the current content snapshot was loaded, or zero if not available
func (m *Manager) LoadedAt() time.Time {
	s := m.active.Load()
	if s == nil {
		return time.Time{}
	}
	return s.LoadedAt
}

// ReadyErr returns an error if there is no active snapshot
func (m *Manager) ReadyErr() error {
	if _, ok := m.Get(); !ok {
		return errors.New("content: no active snapshot")
	}
	return nil
}
