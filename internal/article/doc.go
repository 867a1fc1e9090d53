// Package article maps slugs to markdown files in a content filesystem.
//
// A content root holds one file per article directly under its top level.
// The file name without its extension is the slug. Each file may open with
// YAML (---) or TOML (+++) front matter carrying the article metadata; the
// remainder is markdown rendered with goldmark.
//
// Library is read-only and safe for concurrent use. It holds no state beyond
// the fs.FS it was built over, so a new snapshot means a new Library.
package article
