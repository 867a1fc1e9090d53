package ui

import "github.com/a-h/templ"

// BadgeProps configures a Badge. A badge with an Href renders as a link.
type BadgeProps struct {
	Variant Variant
	Href    string
	Class   string
	Attrs   Attrs
}

var badgeVariants = []Variant{VariantDefault, VariantSecondary, VariantDestructive, VariantOutline}

// Badge renders a small pill label.
func Badge(p BadgeProps, children ...templ.Component) templ.Component {
	v := p.Variant.pick(badgeVariants...)
	attrs := []attr{class("ui-badge", "ui-badge-"+string(v), p.Class)}
	if p.Href != "" {
		attrs = append(attrs, attr{key: "href", value: string(templ.URL(p.Href))})
		return element("a", attrs, p.Attrs, children)
	}
	return element("span", attrs, p.Attrs, children)
}
