package pages

import (
	"github.com/a-h/templ"

	"github.com/keithlinneman/linnemanlabs-blog/internal/ui"
)

// NotFoundMessage is shown for slugs that do not resolve.
const NotFoundMessage = "Blog article not found"

// NotFound renders the themed 404 page. An empty message uses
// NotFoundMessage.
func NotFound(site Site, message string) templ.Component {
	if message == "" {
		message = NotFoundMessage
	}
	body := ui.Element("section", "not-found", nil,
		ui.Element("h1", "", nil, ui.Text("404")),
		ui.Element("p", "", nil, ui.Text(message)),
		ui.Button(ui.ButtonProps{Variant: ui.VariantDefault, Href: "/"}, ui.Text("Back to all articles")),
	)
	return Layout(site, "Not found", message, body)
}
