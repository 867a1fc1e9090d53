// Package ui is the component barrel the page templates build on: badges,
// buttons, cards, a carousel, a drawer, a scroll area and a separator.
//
// Every component is a templ.Component that emits semantic ui-* classes
// styled by theme.Stylesheet. Components hold no state; the only errors
// they return are writer errors.
package ui
