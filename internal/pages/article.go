package pages

import (
	"time"

	"github.com/a-h/templ"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/ui"
)

// ArticleData feeds the article page.
type ArticleData struct {
	Article  *article.Article
	Rendered *article.Rendered
	Now      time.Time
}

// Article renders "/{slug}". The rendered HTML is trusted author content
// and is written unescaped inside the prose wrapper.
func Article(site Site, d ArticleData) templ.Component {
	a := d.Article
	m := a.Metadata
	title := titleOf(a.Slug, m)

	header := []templ.Component{
		ui.Element("h1", "", nil, ui.Text(title)),
		metaLine(m, d.Rendered.ReadingTime, d.Now),
	}
	if !m.Modified.IsZero() && !m.Modified.Equal(m.Created) {
		header = append(header, ui.Element("p", "article-meta", nil, ui.Text("Updated "), dateTime(m.Modified, d.Now)))
	} else if m.Modified.IsZero() && m.ModifiedRaw != "" {
		header = append(header, ui.Element("p", "article-meta", nil, ui.Text("Updated "+m.ModifiedRaw)))
	}
	if tags := tagBadges(m.Tags); tags != nil {
		header = append(header, tags)
	}

	body := ui.Element("article", "article", ui.Attrs{"data-slug": a.Slug},
		ui.Element("header", "article-header", nil, header...),
		ui.Separator(ui.Horizontal, true),
		ui.Element("div", "prose", nil, templ.Raw(d.Rendered.HTML)),
		ui.Element("footer", "article-footer", nil,
			ui.Button(ui.ButtonProps{Variant: ui.VariantLink, Href: "/"}, ui.Text("← All articles")),
		),
	)
	return Layout(site, title, m.Description, body)
}
