package article

import (
	"bytes"
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// heading levels listed in the table of contents
const (
	tocMinLevel = 2
	tocMaxLevel = 3
)

var tocKey = parser.NewContextKey()

var defaultMarkdown = NewMarkdown()

// NewMarkdown returns the goldmark instance used to render articles:
// GFM, generated heading ids, anchor links prepended to headings and
// collection of table of contents entries.
// Raw HTML in content files is passed through.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(headingTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
	)
}

// headingTransformer records toc entries and prepends a self link to every
// heading that has an id.
type headingTransformer struct{}

func (headingTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, h)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	var toc []TOCEntry
	for _, h := range headings {
		v, ok := h.AttributeString("id")
		if !ok {
			continue
		}
		id, ok := v.([]byte)
		if !ok || len(id) == 0 {
			continue
		}

		if h.Level >= tocMinLevel && h.Level <= tocMaxLevel {
			toc = append(toc, TOCEntry{Level: h.Level, ID: string(id), Text: nodeText(h, source)})
		}

		link := ast.NewLink()
		link.Destination = append([]byte("#"), id...)
		link.SetAttributeString("class", []byte("heading-anchor"))
		link.SetAttributeString("tabindex", []byte("-1"))
		link.AppendChild(link, ast.NewString([]byte("#")))
		if first := h.FirstChild(); first != nil {
			h.InsertBefore(h, first, link)
		} else {
			h.AppendChild(h, link)
		}
	}
	pc.Set(tocKey, toc)
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func render(ctx context.Context, md goldmark.Markdown, body []byte) (string, []TOCEntry, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return "", nil, xerrors.Wrap(err, "render markdown")
	}

	out, err := widont(buf.String())
	if err != nil {
		return "", nil, err
	}

	toc, _ := pc.Get(tocKey).([]TOCEntry)
	if len(toc) > 0 {
		out += renderTOC(toc)
	}
	return out, toc, nil
}

// renderTOC writes entries as nested ordered lists. The first entry sets
// the top level; shallower headings later on are clamped to it.
func renderTOC(entries []TOCEntry) string {
	var b strings.Builder
	b.WriteString(`<nav class="toc">`)

	base := entries[0].Level
	depth := 0
	for i, e := range entries {
		lvl := e.Level - base + 1
		if lvl < 1 {
			lvl = 1
		}
		if i > 0 && lvl <= depth {
			b.WriteString(`</li>`)
			for depth > lvl {
				b.WriteString(`</ol></li>`)
				depth--
			}
		}
		for depth < lvl {
			depth++
			b.WriteString(`<ol class="toc-level toc-level-` + strconv.Itoa(depth) + `">`)
			if depth < lvl {
				b.WriteString(`<li class="toc-item">`)
			}
		}
		b.WriteString(`<li class="toc-item toc-item-h` + strconv.Itoa(e.Level) + `">`)
		b.WriteString(`<a class="toc-link" href="#` + html.EscapeString(e.ID) + `">`)
		b.WriteString(html.EscapeString(e.Text))
		b.WriteString(`</a>`)
	}
	b.WriteString(`</li>`)
	for depth > 1 {
		b.WriteString(`</ol></li>`)
		depth--
	}
	b.WriteString(`</ol></nav>`)
	return b.String()
}
