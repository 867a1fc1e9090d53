// Package pages composes the ui barrel into the blog's full HTML
// documents: the article listing, a single article, a tag listing and the
// not-found page, all wrapped in one shared layout.
package pages
