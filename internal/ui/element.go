package ui

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Attrs are extra attributes merged onto a component's root element.
// Keys are rendered in sorted order after the component's own attributes.
type Attrs map[string]string

// attr is one rendered attribute. Bare attributes (disabled, open) render
// without a value.
type attr struct {
	key   string
	value string
	bare  bool
}

var voidTags = map[string]bool{"hr": true, "br": true, "img": true, "input": true, "meta": true, "link": true}

// element renders <tag attrs>children</tag>.
func element(tag string, attrs []attr, extra Attrs, children []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<" + tag)
		for _, a := range attrs {
			writeAttr(&b, a)
		}
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeAttr(&b, attr{key: k, value: extra[k]})
		}
		b.WriteString(">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if voidTags[tag] {
			return nil
		}
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

func writeAttr(b *strings.Builder, a attr) {
	if a.key == "" {
		return
	}
	b.WriteString(" " + templ.EscapeString(a.key))
	if a.bare {
		return
	}
	b.WriteString(`="` + templ.EscapeString(a.value) + `"`)
}

// Text is an escaped text node.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Classes joins the non-empty class names.
func Classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

func class(names ...string) attr { return attr{key: "class", value: Classes(names...)} }

// Variant selects a component's color treatment.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
	VariantGhost       Variant = "ghost"
	VariantLink        Variant = "link"
)

// pick returns v when it is one of allowed, otherwise the default variant.
func (v Variant) pick(allowed ...Variant) Variant {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return VariantDefault
}

// with returns a copy of a with the key/value pairs set.
func (a Attrs) with(kv ...string) Attrs {
	out := make(Attrs, len(a)+len(kv)/2)
	for k, v := range a {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

// Element renders an arbitrary tag for page markup that has no dedicated
// component.
func Element(tag, className string, attrs Attrs, children ...templ.Component) templ.Component {
	var own []attr
	if className != "" {
		own = append(own, class(className))
	}
	return element(tag, own, attrs, children)
}
