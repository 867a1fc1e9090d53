package article

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pathutil"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// Library resolves slugs and lists articles in a content filesystem.
type Library struct {
	fsys fs.FS
	md   goldmark.Markdown
}

type Option func(*Library)

// WithMarkdown overrides the markdown renderer handed to loaded articles.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(l *Library) { l.md = md }
}

func NewLibrary(fsys fs.FS, opts ...Option) *Library {
	l := &Library{fsys: fsys, md: defaultMarkdown}
	for _, o := range opts {
		o(l)
	}
	return l
}

// TagCount is one entry of the tag cloud.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// validSlug rejects anything that is not a single plain file name.
// Dotfiles are editor droppings, never articles.
func validSlug(slug string) bool {
	return pathutil.IsPlainSegment(slug) && !strings.HasPrefix(slug, ".")
}

// SlugOf returns the slug for a content file name and whether the name is
// an article file at all.
func SlugOf(name string) (string, bool) {
	ext := path.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			slug := strings.TrimSuffix(name, ext)
			return slug, validSlug(slug)
		}
	}
	return "", false
}

// Resolve loads the article for slug. The candidate file is <slug><ext> in
// the content root, tried for each accepted extension in order. Matching is
// exact: no case folding and no trailing slash stripping. Every failure is
// logged and returned wrapping ErrNotFound.
func (l *Library) Resolve(ctx context.Context, slug string) (*Article, error) {
	a, err := l.resolve(ctx, slug)
	if err != nil {
		log.FromContext(ctx).Error(ctx, err, "article not found", "slug", slug)
		return nil, err
	}
	return a, nil
}

func (l *Library) resolve(ctx context.Context, slug string) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, notFound(slug, err)
	}
	if !validSlug(slug) {
		return nil, notFound(slug, xerrors.Newf("invalid slug %q", slug))
	}

	for _, ext := range Extensions {
		p := slug + ext
		a, err := l.load(p, slug)
		if err == nil {
			return a, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return nil, notFound(slug, err)
	}
	return nil, notFound(slug, nil)
}

func notFound(slug string, cause error) error {
	if cause == nil {
		return xerrors.Newf("resolve %q: %w", slug, ErrNotFound)
	}
	return xerrors.Newf("resolve %q: %w: %w", slug, ErrNotFound, cause)
}

// load reads and parses one content file.
func (l *Library) load(p, slug string) (*Article, error) {
	src, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, err
	}
	meta, body, err := parseFrontMatter(src)
	if err != nil {
		return nil, xerrors.Wrapf(err, "load %s", p)
	}
	return &Article{
		Slug:     slug,
		Path:     p,
		Metadata: meta,
		Body:     body,
		md:       l.md,
	}, nil
}

// Files returns the article file names in the content root in lexical
// order. When two files share a slug only the first accepted extension is
// kept, matching what Resolve would load.
func (l *Library) Files() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, xerrors.Wrap(err, "read content root")
	}

	bySlug := map[string]string{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		slug, ok := SlugOf(e.Name())
		if !ok {
			continue
		}
		if prev, dup := bySlug[slug]; dup && extRank(prev) <= extRank(e.Name()) {
			continue
		}
		bySlug[slug] = e.Name()
	}

	files := make([]string, 0, len(bySlug))
	for _, f := range bySlug {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func extRank(name string) int {
	ext := path.Ext(name)
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return len(Extensions)
}

// List loads every article and returns their summaries in file order.
// A file that fails to load is skipped and the rest are still loaded; the
// failures are logged once as a joined error which is also returned next
// to the partial list.
func (l *Library) List(ctx context.Context) ([]Summary, error) {
	files, err := l.Files()
	if err != nil {
		log.FromContext(ctx).Error(ctx, err, "list articles")
		return nil, err
	}

	out := make([]Summary, 0, len(files))
	var errs []error
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		slug, _ := SlugOf(name)
		a, err := l.load(name, slug)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, a.Summary())
	}

	if len(errs) > 0 {
		err := xerrors.Wrapf(errors.Join(errs...), "list articles: %d of %d failed", len(errs), len(files))
		log.FromContext(ctx).Error(ctx, err, "article listing incomplete",
			"loaded", len(out),
			"failed", len(errs),
		)
		return out, err
	}
	return out, nil
}

// ListByTag is List filtered to articles carrying tag.
func (l *Library) ListByTag(ctx context.Context, tag string) ([]Summary, error) {
	all, err := l.List(ctx)
	out := make([]Summary, 0, len(all))
	for _, s := range all {
		if s.Metadata.HasTag(tag) {
			out = append(out, s)
		}
	}
	return out, err
}

// Tags counts tag use across all loadable articles. See CountTags.
func (l *Library) Tags(ctx context.Context) ([]TagCount, error) {
	all, err := l.List(ctx)
	return CountTags(all), err
}

// CountTags counts tag use across list, most used first and alphabetical
// within a count. Callers that already hold a listing use it to avoid
// loading every article a second time.
func CountTags(list []Summary) []TagCount {
	counts := map[string]int{}
	for _, s := range list {
		for _, t := range s.Metadata.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
