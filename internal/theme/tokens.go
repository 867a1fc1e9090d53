package theme

import "fmt"

// HSL is a color triplet in the space separated form CSS custom
// properties expect ("222.2 84% 4.9%").
type HSL struct {
	H, S, L float64
}

func (c HSL) String() string {
	return fmt.Sprintf("%s %s%% %s%%", round(c.H), round(c.S), round(c.L))
}

// Var is one custom property with its light and dark value.
type Var struct {
	Name  string
	Light HSL
	Dark  HSL
}

// Vars lists the color custom properties in declaration order.
var Vars = []Var{
	{"background", HSL{0, 0, 100}, HSL{222.2, 84, 4.9}},
	{"foreground", HSL{222.2, 84, 4.9}, HSL{210, 40, 98}},
	{"muted", HSL{210, 40, 96.1}, HSL{217.2, 32.6, 17.5}},
	{"muted-foreground", HSL{215.4, 16.3, 46.9}, HSL{215, 20.2, 65.1}},
	{"popover", HSL{0, 0, 100}, HSL{222.2, 84, 4.9}},
	{"popover-foreground", HSL{222.2, 84, 4.9}, HSL{210, 40, 98}},
	{"card", HSL{0, 0, 100}, HSL{222.2, 84, 4.9}},
	{"card-foreground", HSL{222.2, 84, 4.9}, HSL{210, 40, 98}},
	{"border", HSL{214.3, 31.8, 91.4}, HSL{217.2, 32.6, 17.5}},
	{"input", HSL{214.3, 31.8, 91.4}, HSL{217.2, 32.6, 17.5}},
	{"primary", HSL{222.2, 47.4, 11.2}, HSL{210, 40, 98}},
	{"primary-foreground", HSL{210, 40, 98}, HSL{222.2, 47.4, 11.2}},
	{"secondary", HSL{210, 40, 96.1}, HSL{217.2, 32.6, 17.5}},
	{"secondary-foreground", HSL{222.2, 47.4, 11.2}, HSL{210, 40, 98}},
	{"accent", HSL{210, 40, 96.1}, HSL{217.2, 32.6, 17.5}},
	{"accent-foreground", HSL{222.2, 47.4, 11.2}, HSL{210, 40, 98}},
	{"destructive", HSL{0, 72.2, 50.6}, HSL{0, 62.8, 30.6}},
	{"destructive-foreground", HSL{210, 40, 98}, HSL{210, 40, 98}},
	{"ring", HSL{222.2, 84, 4.9}, HSL{212.7, 26.8, 83.9}},
}

// Radius is the base corner radius exposed as --radius.
const Radius = "0.5rem"

// Role is a named color with an optional foreground pairing. Plain roles
// (border, input, ring, background, foreground) have no foreground.
type Role struct {
	Name       string
	Foreground bool
}

// Roles are the semantic colors available to components.
var Roles = []Role{
	{Name: "border"},
	{Name: "input"},
	{Name: "ring"},
	{Name: "background"},
	{Name: "foreground"},
	{Name: "primary", Foreground: true},
	{Name: "secondary", Foreground: true},
	{Name: "destructive", Foreground: true},
	{Name: "muted", Foreground: true},
	{Name: "accent", Foreground: true},
	{Name: "popover", Foreground: true},
	{Name: "card", Foreground: true},
}

// AlphaPlaceholder is substituted by tailwind with the utility's opacity.
const AlphaPlaceholder = "<alpha-value>"

// ColorValue is the tailwind color expression for a custom property.
func ColorValue(varName string) string {
	return "hsl(var(--" + varName + ") / " + AlphaPlaceholder + ")"
}

// Colors returns the tailwind color map. Roles with a foreground map to
// {"DEFAULT": ..., "foreground": ...}, the rest to a single string.
func Colors() map[string]any {
	out := make(map[string]any, len(Roles))
	for _, r := range Roles {
		if !r.Foreground {
			out[r.Name] = ColorValue(r.Name)
			continue
		}
		out[r.Name] = map[string]string{
			"DEFAULT":    ColorValue(r.Name),
			"foreground": ColorValue(r.Name + "-foreground"),
		}
	}
	return out
}

// Decl is a single CSS declaration.
type Decl struct {
	Prop  string
	Value string
}

// Rule is a selector (relative to the prose root) and its declarations.
type Rule struct {
	Selector string
	Decls    []Decl
}

// Typography returns the prose overrides applied to rendered articles.
func Typography() []Rule {
	return []Rule{
		{"p", []Decl{{"font-size", Rem(17)}}},
		{"li", []Decl{{"font-size", Rem(17)}}},
		{"h2", []Decl{{"font-size", Rem(25)}, {"font-weight", "500"}}},
		{"h3", []Decl{{"font-size", Rem(21)}, {"font-weight", "500"}}},
		{"code::before", []Decl{{"content", `""`}}},
		{"code::after", []Decl{{"content", `""`}}},
	}
}
