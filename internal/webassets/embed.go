// Package webassets embeds the files the binary needs before any content
// is loaded: the maintenance and fallback 404 pages, the seed articles and
// the static assets served under /assets/.
package webassets

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
)

//go:embed fallback seed static
var embedded embed.FS

func sub(dir string) fs.FS {
	s, err := fs.Sub(embedded, dir)
	if err != nil {
		panic(fmt.Errorf("webassets: %s subfs: %w", dir, err))
	}
	return s
}

// FallbackFS holds maintenance.html and 404.html.
func FallbackFS() fs.FS { return sub("fallback") }

// StaticFS holds ui.js, the favicon and robots.txt.
func StaticFS() fs.FS { return sub("static") }

// SeedFS returns the embedded example articles, and false if the seed
// directory has no article files.
func SeedFS() (fs.FS, bool) {
	s := sub("seed")
	files, err := article.NewLibrary(s).Files()
	if err != nil || len(files) == 0 {
		return nil, false
	}
	return s, true
}
