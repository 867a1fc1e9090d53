package ui

import "github.com/a-h/templ"

// CarouselProps configures the carousel container.
type CarouselProps struct {
	Label string
	Class string
	Attrs Attrs
}

// CarouselRoot wraps a horizontally scrolling track. Navigation is handled
// by ui.js through the data-ui-carousel hooks; without script the track
// still scrolls natively.
func CarouselRoot(p CarouselProps, children ...templ.Component) templ.Component {
	attrs := []attr{
		class("ui-carousel", p.Class),
		{key: "role", value: "region"},
		{key: "aria-roledescription", value: "carousel"},
		{key: "data-ui-carousel", bare: true},
	}
	if p.Label != "" {
		attrs = append(attrs, attr{key: "aria-label", value: p.Label})
	}
	return element("div", attrs, p.Attrs, children)
}

// CarouselContent is the scroll-snapping track holding the items.
func CarouselContent(children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-carousel-content"), {key: "data-ui-carousel-track", bare: true}}, nil, children)
}

// CarouselItem is one slide.
func CarouselItem(children ...templ.Component) templ.Component {
	return element("div", []attr{
		class("ui-carousel-item"),
		{key: "role", value: "group"},
		{key: "aria-roledescription", value: "slide"},
	}, nil, children)
}

// CarouselPrevious scrolls the track back one slide.
func CarouselPrevious() templ.Component {
	p := ButtonProps{Variant: VariantOutline, Size: SizeIcon, Label: "Previous slide", Attrs: Attrs{}.with("data-ui-carousel-prev", "")}
	return buttonWith(p, "ui-carousel-previous", []templ.Component{Text("‹")})
}

// CarouselNext scrolls the track forward one slide.
func CarouselNext() templ.Component {
	p := ButtonProps{Variant: VariantOutline, Size: SizeIcon, Label: "Next slide", Attrs: Attrs{}.with("data-ui-carousel-next", "")}
	return buttonWith(p, "ui-carousel-next", []templ.Component{Text("›")})
}
