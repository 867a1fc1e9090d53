package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/keithlinneman/linnemanlabs-blog/internal/ui"
)

// Asset paths referenced by every page.
const (
	StylesheetPath = "/assets/theme.css"
	ScriptPath     = "/assets/ui.js"
	FaviconPath    = "/assets/favicon.svg"
)

// Site is the chrome shared by all pages.
type Site struct {
	Title       string
	Description string
	// Version is shown in the footer when set.
	Version string
}

// DefaultSite is used when the caller leaves Site zero.
var DefaultSite = Site{
	Title:       "LinnemanLabs Blog",
	Description: "Notes on building and running software.",
}

func (s Site) orDefault() Site {
	if s.Title == "" {
		s.Title = DefaultSite.Title
	}
	if s.Description == "" {
		s.Description = DefaultSite.Description
	}
	return s
}

// pageTitle is "<title> | <site>", or just the site title.
func (s Site) pageTitle(title string) string {
	if title == "" || title == s.Title {
		return s.Title
	}
	return title + " | " + s.Title
}

// Layout wraps body in the html document with the site header and footer.
func Layout(site Site, title, description string, body ...templ.Component) templ.Component {
	site = site.orDefault()
	if description == "" {
		description = site.Description
	}
	head := ui.Element("head", "", nil,
		ui.Element("meta", "", ui.Attrs{"charset": "utf-8"}),
		ui.Element("meta", "", ui.Attrs{"name": "viewport", "content": "width=device-width, initial-scale=1"}),
		ui.Element("title", "", nil, ui.Text(site.pageTitle(title))),
		ui.Element("meta", "", ui.Attrs{"name": "description", "content": description}),
		ui.Element("link", "", ui.Attrs{"rel": "stylesheet", "href": StylesheetPath}),
		ui.Element("link", "", ui.Attrs{"rel": "icon", "href": FaviconPath, "type": "image/svg+xml"}),
		ui.Element("script", "", ui.Attrs{"src": ScriptPath, "defer": "defer"}),
	)
	header := ui.Element("header", "site-header", nil,
		ui.Element("a", "site-title", ui.Attrs{"href": "/"}, ui.Text(site.Title)),
		ui.Button(ui.ButtonProps{Variant: ui.VariantGhost, Size: ui.SizeSmall, Href: "/"}, ui.Text("Articles")),
	)
	var footerText []templ.Component
	footerText = append(footerText, ui.Text(site.Title))
	if site.Version != "" {
		footerText = append(footerText, ui.Text(" · "+site.Version))
	}
	footer := ui.Element("footer", "site-footer", nil,
		ui.Separator(ui.Horizontal, true),
		ui.Element("p", "", nil, footerText...),
	)
	doc := ui.Element("html", "", ui.Attrs{"lang": "en"},
		head,
		ui.Element("body", "", nil,
			header,
			ui.Element("main", "site-main", nil, body...),
			footer,
		),
	)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!doctype html>\n"); err != nil {
			return err
		}
		return doc.Render(ctx, w)
	})
}
