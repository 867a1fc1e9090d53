// Package prerender writes the blog as static files by driving the site
// router in-process, so a build and a live server emit the same bytes.
package prerender

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pages"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pathutil"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// notFoundTarget is a path no route matches; its response becomes 404.html.
const notFoundTarget = "/_prerender/404"

type Options struct {
	Logger log.Logger
	// Handler is the site router, usually sitehttp routes on a chi mux.
	Handler http.Handler
	Library *article.Library
	// StaticFS is copied under assets/, with robots.txt also at the root.
	StaticFS fs.FS
	OutDir   string
	// Archive, when set, is the path of a .tar.gz of OutDir. Its digest is
	// written next to it as <Archive>.sha256.
	Archive string
}

// Result summarises a build.
type Result struct {
	Pages         int
	Assets        int
	Bytes         int64
	Incomplete    bool
	ArchiveSHA256 string
}

// page is one request and the file its body is written to.
type page struct {
	target string
	file   string
	status int
}

func (o *Options) validate() error {
	if o.Handler == nil {
		return xerrors.New("prerender: Handler is nil")
	}
	if o.Library == nil {
		return xerrors.New("prerender: Library is nil")
	}
	if o.OutDir == "" {
		return xerrors.New("prerender: OutDir is empty")
	}
	return nil
}

// Build renders every page and copies the static assets into OutDir.
// Articles that fail to list are reported in the returned error but do not
// stop the rest of the build; the result is then marked Incomplete.
func Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	L := opts.Logger
	if L == nil {
		L = log.Nop()
	}
	start := time.Now()

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, xerrors.Wrapf(err, "create %s", opts.OutDir)
	}

	planned, listErr := plan(ctx, opts.Library)
	res := &Result{Incomplete: listErr != nil}
	errs := []error{listErr}

	for _, p := range planned {
		n, err := renderTo(ctx, opts.Handler, opts.OutDir, p)
		if err != nil {
			L.Error(ctx, err, "prerender page failed", "target", p.target)
			errs = append(errs, err)
			continue
		}
		res.Pages++
		res.Bytes += n
	}

	if opts.StaticFS != nil {
		n, size, err := copyStatic(opts.StaticFS, opts.OutDir)
		if err != nil {
			errs = append(errs, err)
		}
		res.Assets += n
		res.Bytes += size
	}

	if err := errors.Join(errs...); err != nil {
		return res, err
	}

	if opts.Archive != "" {
		sum, err := WriteArchive(opts.OutDir, opts.Archive)
		if err != nil {
			return res, err
		}
		res.ArchiveSHA256 = sum
	}

	L.Info(ctx, "prerender complete",
		"out_dir", opts.OutDir,
		"pages", res.Pages,
		"assets", res.Assets,
		"size", humanize.Bytes(uint64(res.Bytes)),
		"archive_sha256", res.ArchiveSHA256,
		"duration", time.Since(start).String(),
	)
	return res, nil
}

// plan lists the pages of the current library.
func plan(ctx context.Context, lib *article.Library) ([]page, error) {
	out := []page{
		{target: "/", file: "index.html", status: http.StatusOK},
		{target: notFoundTarget, file: "404.html", status: http.StatusNotFound},
		{target: "/assets/theme.css", file: "assets/theme.css", status: http.StatusOK},
		{target: "/assets/tailwind.json", file: "assets/tailwind.json", status: http.StatusOK},
		{target: "/api/articles", file: "api/articles/index.json", status: http.StatusOK},
	}

	summaries, listErr := lib.List(ctx)
	for _, s := range summaries {
		out = append(out,
			page{target: pages.ArticlePath(s.Slug), file: path.Join(s.Slug, "index.html"), status: http.StatusOK},
			page{target: "/api/articles/" + url.PathEscape(s.Slug), file: path.Join("api/articles", s.Slug, "index.json"), status: http.StatusOK},
		)
	}

	for _, t := range article.CountTags(summaries) {
		// tags become directory names
		if !pathutil.IsPlainSegment(t.Tag) {
			continue
		}
		out = append(out, page{
			target: pages.TagPath(t.Tag),
			file:   path.Join("tags", t.Tag, "index.html"),
			status: http.StatusOK,
		})
	}
	return out, listErr
}

func renderTo(ctx context.Context, h http.Handler, outDir string, p page) (int64, error) {
	req := httptest.NewRequest(http.MethodGet, p.target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != p.status {
		return 0, xerrors.Newf("GET %s: status %d, want %d", p.target, rec.Code, p.status)
	}
	body := rec.Body.Bytes()
	if err := writeFile(outDir, p.file, body); err != nil {
		return 0, err
	}
	return int64(len(body)), nil
}

func copyStatic(fsys fs.FS, outDir string) (int, int64, error) {
	var n int
	var size int64
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return xerrors.Wrapf(err, "read asset %s", p)
		}
		if err := writeFile(outDir, path.Join("assets", p), data); err != nil {
			return err
		}
		if p == "robots.txt" {
			if err := writeFile(outDir, p, data); err != nil {
				return err
			}
		}
		n++
		size += int64(len(data))
		return nil
	})
	return n, size, err
}

// writeFile writes data to rel under outDir. rel is slash separated and
// must stay inside outDir.
func writeFile(outDir, rel string, data []byte) error {
	if pathutil.HasDotSegments(rel) || strings.HasPrefix(rel, "/") {
		return xerrors.Newf("refusing to write outside output dir: %q", rel)
	}
	dst := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return xerrors.Wrapf(err, "create dir for %s", rel)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return xerrors.Wrapf(err, "write %s", rel)
	}
	return nil
}
