package ui

import "github.com/a-h/templ"

// CardProps configures any card part.
type CardProps struct {
	Class string
	Attrs Attrs
}

// CardRoot is the bordered card container.
func CardRoot(p CardProps, children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-card", p.Class)}, p.Attrs, children)
}

func CardHeader(p CardProps, children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-card-header", p.Class)}, p.Attrs, children)
}

// CardTitle renders as an h3 so card titles sit below the page h1/h2.
func CardTitle(p CardProps, children ...templ.Component) templ.Component {
	return element("h3", []attr{class("ui-card-title", p.Class)}, p.Attrs, children)
}

func CardDescription(p CardProps, children ...templ.Component) templ.Component {
	return element("p", []attr{class("ui-card-description", p.Class)}, p.Attrs, children)
}

func CardContent(p CardProps, children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-card-content", p.Class)}, p.Attrs, children)
}

func CardFooter(p CardProps, children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-card-footer", p.Class)}, p.Attrs, children)
}
