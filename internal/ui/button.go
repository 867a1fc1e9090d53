package ui

import "github.com/a-h/templ"

// Size is a button size.
type Size string

const (
	SizeDefault Size = "default"
	SizeSmall   Size = "sm"
	SizeLarge   Size = "lg"
	SizeIcon    Size = "icon"
)

// ButtonProps configures a Button. With an Href it renders as an anchor,
// otherwise as a <button> of Type (default "button").
type ButtonProps struct {
	Variant  Variant
	Size     Size
	Href     string
	Type     string
	Label    string
	Disabled bool
	Class    string
	Attrs    Attrs
}

var buttonVariants = []Variant{VariantDefault, VariantSecondary, VariantDestructive, VariantOutline, VariantGhost, VariantLink}

// Button renders a clickable control.
func Button(p ButtonProps, children ...templ.Component) templ.Component {
	return buttonWith(p, "", children)
}

func buttonWith(p ButtonProps, hook string, children []templ.Component) templ.Component {
	tag := "button"
	if p.Href != "" {
		tag = "a"
	}
	return element(tag, buttonAttrs(p, hook), p.Attrs, children)
}

// buttonAttrs builds the shared button attributes. extraClass is the hook
// class composite components (carousel arrows, drawer trigger) add.
func buttonAttrs(p ButtonProps, extraClass string) []attr {
	v := p.Variant.pick(buttonVariants...)
	sizeClass := ""
	switch p.Size {
	case SizeSmall, SizeLarge, SizeIcon:
		sizeClass = "ui-button-" + string(p.Size)
	}
	attrs := []attr{class("ui-button", "ui-button-"+string(v), sizeClass, extraClass, p.Class)}
	if p.Label != "" {
		attrs = append(attrs, attr{key: "aria-label", value: p.Label})
	}
	if p.Href != "" {
		attrs = append(attrs, attr{key: "href", value: string(templ.URL(p.Href))})
		if p.Disabled {
			attrs = append(attrs, attr{key: "aria-disabled", value: "true"})
		}
		return attrs
	}
	typ := p.Type
	if typ == "" {
		typ = "button"
	}
	attrs = append(attrs, attr{key: "type", value: typ})
	if p.Disabled {
		attrs = append(attrs, attr{key: "disabled", bare: true})
	}
	return attrs
}
