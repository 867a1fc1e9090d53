package ui

import "github.com/a-h/templ"

// DrawerRoot groups a trigger with the dialog it opens.
func DrawerRoot(children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-drawer"), {key: "data-ui-drawer", bare: true}}, nil, children)
}

// DrawerTrigger is a button that opens the enclosing drawer.
func DrawerTrigger(p ButtonProps, children ...templ.Component) templ.Component {
	if p.Variant == "" {
		p.Variant = VariantOutline
	}
	p.Attrs = p.Attrs.with("data-ui-drawer-open", "")
	return buttonWith(p, "ui-drawer-trigger", children)
}

// DrawerContent is the modal sheet. It is a native <dialog>, so Escape and
// the backdrop close it without script.
func DrawerContent(children ...templ.Component) templ.Component {
	return element("dialog", []attr{class("ui-drawer-content")}, nil, children)
}

func DrawerHeader(children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-drawer-header")}, nil, children)
}

func DrawerTitle(children ...templ.Component) templ.Component {
	return element("h2", []attr{class("ui-drawer-title")}, nil, children)
}

func DrawerDescription(children ...templ.Component) templ.Component {
	return element("p", []attr{class("ui-drawer-description")}, nil, children)
}

func DrawerFooter(children ...templ.Component) templ.Component {
	return element("div", []attr{class("ui-drawer-footer")}, nil, children)
}

// DrawerClose is a button that closes the enclosing dialog. It submits a
// method=dialog form so it works without script.
func DrawerClose(p ButtonProps, children ...templ.Component) templ.Component {
	if p.Variant == "" {
		p.Variant = VariantOutline
	}
	p.Type = "submit"
	p.Href = ""
	p.Attrs = p.Attrs.with("data-ui-drawer-close", "")
	btn := buttonWith(p, "ui-drawer-close", children)
	return element("form", []attr{{key: "method", value: "dialog"}}, nil, []templ.Component{btn})
}
