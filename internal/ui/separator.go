package ui

import "github.com/a-h/templ"

type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Separator draws a one pixel rule. Decorative separators are hidden from
// assistive technology.
func Separator(o Orientation, decorative bool) templ.Component {
	if o != Vertical {
		o = Horizontal
	}
	attrs := []attr{class("ui-separator", "ui-separator-"+string(o))}
	if decorative {
		attrs = append(attrs, attr{key: "role", value: "none"})
	} else {
		attrs = append(attrs, attr{key: "role", value: "separator"}, attr{key: "aria-orientation", value: string(o)})
	}
	return element("div", attrs, nil, nil)
}
