package sitehandler

import (
	"io/fs"
	"strings"

	"github.com/keithlinneman/linnemanlabs-blog/internal/pathutil"
)

// resolveAsset maps the part of a URL path after /assets/ to a file in
// fsys. Only plain relative paths to regular files resolve; directories,
// dot segments, backslashes and NULs never do.
func resolveAsset(rel string, fsys fs.FS) (string, bool) {
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", false
	}
	if strings.ContainsAny(rel, "\x00\\") || pathutil.HasDotSegments("/"+rel) {
		return "", false
	}
	if !existsFile(fsys, rel) {
		return "", false
	}
	return rel, true
}

func existsFile(fsys fs.FS, name string) bool {
	if name == "" || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
