package pages

import (
	"sort"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/ui"
)

// featuredCount is how many recent articles the listing carousel shows.
const featuredCount = 3

// ListingData feeds the listing and tag pages.
type ListingData struct {
	Articles []article.Summary
	Tags     []article.TagCount
	// Incomplete is set when some articles failed to load; the listing
	// still shows the ones that did.
	Incomplete bool
	Now        time.Time
}

// Listing renders "/" with every article's metadata.
func Listing(site Site, d ListingData) templ.Component {
	site = site.orDefault()
	body := []templ.Component{
		ui.Element("h1", "", nil, ui.Text(site.Title)),
		ui.Element("p", "listing-description", nil, ui.Text(site.Description)),
	}
	if d.Incomplete {
		body = append(body, incompleteNotice())
	}
	if len(d.Tags) > 0 {
		body = append(body, tagDrawer(d.Tags))
	}
	if f := featured(d.Articles, d.Now); f != nil {
		body = append(body, f)
	}
	body = append(body, ui.Separator(ui.Horizontal, true), articleList(d.Articles, d.Now))
	return Layout(site, "", "", ui.Element("section", "listing", nil, body...))
}

// TagListing renders "/tags/{tag}". Articles is already filtered.
func TagListing(site Site, tag string, d ListingData) templ.Component {
	heading := "Tagged “" + tag + "”"
	body := []templ.Component{
		ui.Element("h1", "", nil, ui.Text(heading)),
		ui.Element("p", "listing-description", nil, ui.Text(articleCount(len(d.Articles)))),
	}
	if d.Incomplete {
		body = append(body, incompleteNotice())
	}
	body = append(body,
		ui.Separator(ui.Horizontal, true),
		articleList(d.Articles, d.Now),
		ui.Button(ui.ButtonProps{Variant: ui.VariantLink, Href: "/"}, ui.Text("← All articles")),
	)
	return Layout(site, heading, "", ui.Element("section", "listing", nil, body...))
}

func articleCount(n int) string {
	if n == 1 {
		return "1 article"
	}
	return strconv.Itoa(n) + " articles"
}

func incompleteNotice() templ.Component {
	return ui.Element("p", "listing-warning", ui.Attrs{"role": "status"},
		ui.Text("Some articles could not be loaded and are not listed."))
}

func articleList(list []article.Summary, now time.Time) templ.Component {
	if len(list) == 0 {
		return ui.Element("p", "listing-empty", nil, ui.Text("No articles yet."))
	}
	items := make([]templ.Component, 0, len(list))
	for _, s := range list {
		items = append(items, ui.Element("li", "", nil, summaryCard(s, now)))
	}
	return ui.Element("ul", "article-list", nil, items...)
}

func summaryCard(s article.Summary, now time.Time) templ.Component {
	header := []templ.Component{
		ui.CardTitle(ui.CardProps{}, ui.Element("a", "", ui.Attrs{"href": ArticlePath(s.Slug)}, ui.Text(titleOf(s.Slug, s.Metadata)))),
	}
	if s.Metadata.Description != "" {
		header = append(header, ui.CardDescription(ui.CardProps{}, ui.Text(s.Metadata.Description)))
	}
	parts := []templ.Component{
		ui.CardHeader(ui.CardProps{}, header...),
		ui.CardContent(ui.CardProps{}, metaLine(s.Metadata, s.ReadingTime, now)),
	}
	if tags := tagBadges(s.Metadata.Tags); tags != nil {
		parts = append(parts, ui.CardFooter(ui.CardProps{}, tags))
	}
	return ui.CardRoot(ui.CardProps{Class: "article-card", Attrs: ui.Attrs{"data-slug": s.Slug}}, parts...)
}

// featured is a carousel of the most recently created articles. It is
// omitted when fewer than two articles carry a creation date.
func featured(list []article.Summary, now time.Time) templ.Component {
	dated := make([]article.Summary, 0, len(list))
	for _, s := range list {
		if !s.Metadata.Created.IsZero() {
			dated = append(dated, s)
		}
	}
	if len(dated) < 2 {
		return nil
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Metadata.Created.After(dated[j].Metadata.Created)
	})
	if len(dated) > featuredCount {
		dated = dated[:featuredCount]
	}
	items := make([]templ.Component, 0, len(dated))
	for _, s := range dated {
		items = append(items, ui.CarouselItem(summaryCard(s, now)))
	}
	return ui.CarouselRoot(ui.CarouselProps{Label: "Recent articles", Class: "featured"},
		ui.CarouselContent(items...),
		ui.CarouselPrevious(),
		ui.CarouselNext(),
	)
}

func tagDrawer(tags []article.TagCount) templ.Component {
	badges := make([]templ.Component, 0, len(tags))
	for _, t := range tags {
		badges = append(badges, ui.Badge(ui.BadgeProps{Variant: ui.VariantOutline, Href: TagPath(t.Tag)},
			ui.Text(t.Tag+" ("+strconv.Itoa(t.Count)+")")))
	}
	return ui.DrawerRoot(
		ui.DrawerTrigger(ui.ButtonProps{Size: ui.SizeSmall}, ui.Text("Browse tags")),
		ui.DrawerContent(
			ui.DrawerHeader(
				ui.DrawerTitle(ui.Text("Tags")),
				ui.DrawerDescription(ui.Text(strconv.Itoa(len(tags))+" tags across all articles")),
			),
			ui.ScrollArea(ui.ScrollAreaProps{Class: "tag-cloud"}, ui.Element("div", "article-tags", nil, badges...)),
			ui.DrawerFooter(ui.DrawerClose(ui.ButtonProps{}, ui.Text("Close"))),
		),
	)
}
