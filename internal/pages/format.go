package pages

import (
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/ui"
)

const dateLayout = "Jan 2, 2006"

// dateTime renders a <time> element with the absolute date and, when now
// is set, the relative age as its title.
func dateTime(t, now time.Time) templ.Component {
	attrs := ui.Attrs{"datetime": t.UTC().Format(time.RFC3339)}
	if !now.IsZero() {
		attrs["title"] = humanize.RelTime(t, now, "ago", "from now")
	}
	return ui.Element("time", "", attrs, ui.Text(t.Format(dateLayout)))
}

func readingTime(mins int) string {
	return strconv.Itoa(mins) + " min read"
}

func titleOf(slug string, m article.Metadata) string {
	if m.Title != "" {
		return m.Title
	}
	return slug
}

// ArticlePath is the URL of an article. Slugs are file names and may hold
// spaces or '?', so they are escaped as one path segment.
func ArticlePath(slug string) string { return "/" + url.PathEscape(slug) }

// TagPath is the URL of a tag listing.
func TagPath(tag string) string { return "/tags/" + url.PathEscape(tag) }

// tagBadges renders one link badge per tag, in author order.
func tagBadges(tags []string) templ.Component {
	if len(tags) == 0 {
		return nil
	}
	badges := make([]templ.Component, 0, len(tags))
	for _, t := range tags {
		badges = append(badges, ui.Badge(ui.BadgeProps{Variant: ui.VariantSecondary, Href: TagPath(t)}, ui.Text(t)))
	}
	return ui.Element("div", "article-tags", nil, badges...)
}

// metaLine is "By author · date · N min read".
func metaLine(m article.Metadata, mins int, now time.Time) templ.Component {
	var parts []templ.Component
	sep := func() {
		if len(parts) > 0 {
			parts = append(parts, ui.Text(" · "))
		}
	}
	if m.Author != "" {
		parts = append(parts, ui.Text("By "+m.Author))
	}
	if !m.Created.IsZero() {
		sep()
		parts = append(parts, dateTime(m.Created, now))
	} else if m.CreatedRaw != "" {
		sep()
		parts = append(parts, ui.Text(m.CreatedRaw))
	}
	if mins > 0 {
		sep()
		parts = append(parts, ui.Text(readingTime(mins)))
	}
	return ui.Element("p", "article-meta", nil, parts...)
}
