package ui

import "github.com/a-h/templ"

// ScrollAreaProps configures a ScrollArea. MaxHeight is any CSS length.
type ScrollAreaProps struct {
	MaxHeight string
	Class     string
	Attrs     Attrs
}

// ScrollArea is a bounded region that scrolls its overflow.
func ScrollArea(p ScrollAreaProps, children ...templ.Component) templ.Component {
	attrs := []attr{class("ui-scroll-area", p.Class)}
	if p.MaxHeight != "" {
		attrs = append(attrs, attr{key: "style", value: "max-height: " + p.MaxHeight})
	}
	return element("div", attrs, p.Attrs, children)
}
