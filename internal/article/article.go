package article

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// ErrNotFound is returned (wrapped) for every slug that cannot be loaded.
var ErrNotFound = errors.New("article not found")

// Extensions accepted for content files, in resolution order.
var Extensions = []string{".md", ".mdx", ".markdown"}

const wordsPerMinute = 200

type Metadata struct {
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// CreatedRaw and ModifiedRaw hold a declared date that could not be
	// parsed, as written. The matching time.Time is zero then.
	CreatedRaw  string `json:"created_raw,omitempty"`
	ModifiedRaw string `json:"modified_raw,omitempty"`
}

// HasTag reports whether tag is one of m.Tags. Matching is exact.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Article is one loaded content file. It is cheap to build and meant to be
// discarded after the response or page it was loaded for.
type Article struct {
	Slug     string
	Path     string
	Metadata Metadata
	Body     []byte

	md goldmark.Markdown
}

// Summary is the listing view of an article.
type Summary struct {
	Slug        string   `json:"slug"`
	Path        string   `json:"path"`
	Metadata    Metadata `json:"metadata"`
	ReadingTime int      `json:"reading_time_minutes"`
}

type TOCEntry struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Rendered is the output of Article.Render. HTML already carries the
// table of contents at its end when TOC is non-empty.
type Rendered struct {
	HTML        string
	TOC         []TOCEntry
	ReadingTime int
}

func (a *Article) Summary() Summary {
	return Summary{
		Slug:        a.Slug,
		Path:        a.Path,
		Metadata:    a.Metadata,
		ReadingTime: a.ReadingTime(),
	}
}

// ReadingTime is the estimated reading time in whole minutes, at least 1.
func (a *Article) ReadingTime() int {
	return readingTime(string(a.Body))
}

func readingTime(s string) int {
	words := len(strings.Fields(s))
	mins := (words + wordsPerMinute - 1) / wordsPerMinute
	if mins < 1 {
		return 1
	}
	return mins
}

// Render converts the markdown body to HTML.
func (a *Article) Render(ctx context.Context) (*Rendered, error) {
	md := a.md
	if md == nil {
		md = defaultMarkdown
	}
	out, toc, err := render(ctx, md, a.Body)
	if err != nil {
		return nil, err
	}
	return &Rendered{HTML: out, TOC: toc, ReadingTime: a.ReadingTime()}, nil
}
