package theme

import (
	"encoding/json"
	"strings"
	"sync"
)

// ProseClass is the wrapper class rendered article bodies carry.
const ProseClass = "prose"

// Stylesheet returns the complete theme CSS. The result is computed once.
func Stylesheet() string {
	stylesheetOnce.Do(func() { stylesheet = buildStylesheet() })
	return stylesheet
}

var (
	stylesheetOnce sync.Once
	stylesheet     string
)

func buildStylesheet() string {
	var b strings.Builder

	b.WriteString(":root {\n")
	writeVars(&b, "  ", false)
	b.WriteString("  --radius: " + Radius + ";\n")
	b.WriteString("}\n\n")

	b.WriteString(".dark {\n")
	writeVars(&b, "  ", true)
	b.WriteString("}\n\n")

	b.WriteString("@media (prefers-color-scheme: dark) {\n")
	b.WriteString("  :root:not(.light) {\n")
	writeVars(&b, "    ", true)
	b.WriteString("  }\n}\n\n")

	for _, r := range baseRules() {
		writeRule(&b, r.Selector, r.Decls)
	}
	for _, r := range Typography() {
		writeRule(&b, "."+ProseClass+" "+r.Selector, r.Decls)
	}
	for _, r := range componentRules() {
		writeRule(&b, r.Selector, r.Decls)
	}
	return b.String()
}

func writeVars(b *strings.Builder, indent string, dark bool) {
	for _, v := range Vars {
		c := v.Light
		if dark {
			c = v.Dark
		}
		b.WriteString(indent + "--" + v.Name + ": " + c.String() + ";\n")
	}
}

func writeRule(b *strings.Builder, sel string, decls []Decl) {
	b.WriteString(sel + " {\n")
	for _, d := range decls {
		b.WriteString("  " + d.Prop + ": " + d.Value + ";\n")
	}
	b.WriteString("}\n")
}

// color is a solid reference to a custom property.
func color(name string) string { return "hsl(var(--" + name + "))" }

func baseRules() []Rule {
	return []Rule{
		{"*, ::before, ::after", []Decl{{"box-sizing", "border-box"}, {"border-color", color("border")}}},
		{"body", []Decl{
			{"margin", "0"},
			{"background-color", color("background")},
			{"color", color("foreground")},
			{"font-family", `ui-sans-serif, system-ui, sans-serif`},
			{"line-height", "1.6"},
		}},
		{"a", []Decl{{"color", "inherit"}}},
		{".site-header, .site-main, .site-footer", []Decl{
			{"max-width", Rem(768)},
			{"margin", "0 auto"},
			{"padding", Rem(16) + " " + Rem(24)},
		}},
		{".site-header", []Decl{{"display", "flex"}, {"align-items", "center"}, {"justify-content", "space-between"}}},
		{".site-footer", []Decl{{"color", color("muted-foreground")}, {"font-size", Rem(14)}}},
		{".prose", []Decl{{"max-width", "65ch"}}},
		{".prose pre", []Decl{
			{"overflow-x", "auto"},
			{"padding", Rem(12)},
			{"border-radius", "var(--radius)"},
			{"background-color", color("muted")},
		}},
		{".prose .heading-anchor", []Decl{
			{"margin-right", Rem(6)},
			{"text-decoration", "none"},
			{"color", color("muted-foreground")},
		}},
		{".toc", []Decl{{"margin-top", Rem(32)}, {"font-size", Rem(14)}}},
		{".toc-level", []Decl{{"list-style", "none"}, {"padding-left", Rem(16)}}},
		{".article-meta", []Decl{{"color", color("muted-foreground")}, {"font-size", Rem(14)}}},
		{".article-tags", []Decl{{"display", "flex"}, {"flex-wrap", "wrap"}, {"gap", Rem(6)}}},
		{".article-list", []Decl{{"display", "grid"}, {"gap", Rem(16)}, {"padding", "0"}, {"list-style", "none"}}},
	}
}

func componentRules() []Rule {
	fg := func(role string) []Decl {
		return []Decl{{"background-color", color(role)}, {"color", color(role + "-foreground")}}
	}
	return []Rule{
		{".ui-badge", []Decl{
			{"display", "inline-flex"},
			{"align-items", "center"},
			{"border", "1px solid transparent"},
			{"border-radius", "9999px"},
			{"padding", Rem(2) + " " + Rem(10)},
			{"font-size", Rem(12)},
			{"font-weight", "600"},
			{"text-decoration", "none"},
		}},
		{".ui-badge-default", fg("primary")},
		{".ui-badge-secondary", fg("secondary")},
		{".ui-badge-destructive", fg("destructive")},
		{".ui-badge-outline", []Decl{{"color", color("foreground")}, {"border-color", color("border")}}},

		{".ui-button", []Decl{
			{"display", "inline-flex"},
			{"align-items", "center"},
			{"justify-content", "center"},
			{"gap", Rem(8)},
			{"height", Rem(40)},
			{"padding", "0 " + Rem(16)},
			{"border", "1px solid transparent"},
			{"border-radius", "calc(var(--radius) - 2px)"},
			{"font-size", Rem(14)},
			{"font-weight", "500"},
			{"cursor", "pointer"},
			{"text-decoration", "none"},
		}},
		{".ui-button:focus-visible", []Decl{{"outline", "2px solid " + color("ring")}, {"outline-offset", "2px"}}},
		{".ui-button:disabled", []Decl{{"opacity", "0.5"}, {"pointer-events", "none"}}},
		{".ui-button-default", fg("primary")},
		{".ui-button-secondary", fg("secondary")},
		{".ui-button-destructive", fg("destructive")},
		{".ui-button-outline", []Decl{{"background-color", color("background")}, {"border-color", color("input")}}},
		{".ui-button-ghost", []Decl{{"background-color", "transparent"}}},
		{".ui-button-ghost:hover, .ui-button-outline:hover", fg("accent")},
		{".ui-button-link", []Decl{{"background-color", "transparent"}, {"color", color("primary")}, {"text-decoration", "underline"}}},
		{".ui-button-sm", []Decl{{"height", Rem(36)}, {"padding", "0 " + Rem(12)}}},
		{".ui-button-lg", []Decl{{"height", Rem(44)}, {"padding", "0 " + Rem(32)}}},
		{".ui-button-icon", []Decl{{"width", Rem(40)}, {"padding", "0"}}},

		{".ui-card", []Decl{
			{"border", "1px solid " + color("border")},
			{"border-radius", "var(--radius)"},
			{"background-color", color("card")},
			{"color", color("card-foreground")},
		}},
		{".ui-card-header", []Decl{{"display", "flex"}, {"flex-direction", "column"}, {"gap", Rem(6)}, {"padding", Rem(24)}}},
		{".ui-card-title", []Decl{{"margin", "0"}, {"font-size", Rem(24)}, {"font-weight", "600"}, {"line-height", "1.2"}}},
		{".ui-card-description", []Decl{{"margin", "0"}, {"font-size", Rem(14)}, {"color", color("muted-foreground")}}},
		{".ui-card-content", []Decl{{"padding", "0 " + Rem(24) + " " + Rem(24)}}},
		{".ui-card-footer", []Decl{{"display", "flex"}, {"align-items", "center"}, {"padding", "0 " + Rem(24) + " " + Rem(24)}}},

		{".ui-carousel", []Decl{{"position", "relative"}}},
		{".ui-carousel-content", []Decl{
			{"display", "flex"},
			{"overflow-x", "auto"},
			{"scroll-snap-type", "x mandatory"},
			{"scroll-behavior", "smooth"},
		}},
		{".ui-carousel-item", []Decl{{"flex", "0 0 100%"}, {"min-width", "0"}, {"scroll-snap-align", "start"}}},
		{".ui-carousel-previous, .ui-carousel-next", []Decl{{"position", "absolute"}, {"top", "50%"}, {"transform", "translateY(-50%)"}}},
		{".ui-carousel-previous", []Decl{{"left", "-" + Rem(48)}}},
		{".ui-carousel-next", []Decl{{"right", "-" + Rem(48)}}},

		{".ui-drawer-content", []Decl{
			{"position", "fixed"},
			{"inset", "auto 0 0 0"},
			{"width", "100%"},
			{"max-width", "none"},
			{"margin", "0"},
			{"border", "1px solid " + color("border")},
			{"border-radius", Rem(10) + " " + Rem(10) + " 0 0"},
			{"background-color", color("background")},
			{"color", color("foreground")},
		}},
		{".ui-drawer-content::backdrop", []Decl{{"background-color", "rgb(0 0 0 / 0.8)"}}},
		{".ui-drawer-header", []Decl{{"display", "grid"}, {"gap", Rem(6)}, {"padding", Rem(16)}, {"text-align", "center"}}},
		{".ui-drawer-title", []Decl{{"margin", "0"}, {"font-size", Rem(18)}, {"font-weight", "600"}}},
		{".ui-drawer-description", []Decl{{"margin", "0"}, {"font-size", Rem(14)}, {"color", color("muted-foreground")}}},
		{".ui-drawer-footer", []Decl{{"display", "flex"}, {"flex-direction", "column"}, {"gap", Rem(8)}, {"padding", Rem(16)}}},

		{".ui-scroll-area", []Decl{{"position", "relative"}, {"overflow", "auto"}}},
		{".ui-drawer-content .ui-scroll-area", []Decl{{"max-height", "50vh"}, {"padding", "0 " + Rem(16)}}},

		{".ui-separator", []Decl{{"flex-shrink", "0"}, {"border", "0"}, {"background-color", color("border")}}},
		{".ui-separator-horizontal", []Decl{{"height", "1px"}, {"width", "100%"}}},
		{".ui-separator-vertical", []Decl{{"height", "100%"}, {"width", "1px"}}},
	}
}

// TailwindConfig returns the theme extension as JSON for an external
// tailwind build: the color roles and the prose typography overrides.
func TailwindConfig() ([]byte, error) {
	css := make(map[string]map[string]string)
	for _, r := range Typography() {
		m := make(map[string]string, len(r.Decls))
		for _, d := range r.Decls {
			m[camel(d.Prop)] = d.Value
		}
		css[r.Selector] = m
	}
	cfg := map[string]any{
		"darkMode": []string{"class"},
		"content":  []string{"./internal/**/*.templ", "./internal/**/*.go"},
		"theme": map[string]any{
			"extend": map[string]any{
				"colors": Colors(),
				"borderRadius": map[string]string{
					"lg": "var(--radius)",
					"md": "calc(var(--radius) - 2px)",
					"sm": "calc(var(--radius) - 4px)",
				},
				"typography": map[string]any{
					"DEFAULT": map[string]any{"css": css},
				},
			},
		},
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// camel turns a CSS property name into its JS object key.
func camel(prop string) string {
	parts := strings.Split(prop, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
