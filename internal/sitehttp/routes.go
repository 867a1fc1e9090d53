package sitehttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-blog/internal/httpmw"
)

// Site is the set of handlers the public blog is made of.
// *sitehandler.Handler implements it.
type Site interface {
	Listing(http.ResponseWriter, *http.Request)
	Article(http.ResponseWriter, *http.Request)
	Tag(http.ResponseWriter, *http.Request)
	APIList(http.ResponseWriter, *http.Request)
	APIArticle(http.ResponseWriter, *http.Request)
	ThemeCSS(http.ResponseWriter, *http.Request)
	TailwindConfig(http.ResponseWriter, *http.Request)
	Asset(http.ResponseWriter, *http.Request)
	NotFound(http.ResponseWriter, *http.Request)
	MethodNotAllowed(http.ResponseWriter, *http.Request)
}

// Route patterns, shared with the static build.
const (
	PathListing    = "/"
	PathArticle    = "/{slug}"
	PathTag        = "/tags/{tag}"
	PathAPIList    = "/api/articles"
	PathAPIArticle = "/api/articles/{slug}"
	PathThemeCSS   = "/assets/theme.css"
	PathTailwind   = "/assets/tailwind.json"
	PathAssets     = "/assets/*"
	PathRobots     = "/robots.txt"
)

type Routes struct {
	Site Site
}

func New(site Site) *Routes {
	return &Routes{Site: site}
}

// RegisterRoutes should be passed LAST so the site owns the NotFound and
// MethodNotAllowed fallbacks. Explicit routes registered by other
// registrars (health, api) still take precedence.
func (rt *Routes) RegisterRoutes(r chi.Router) {
	r.Get(PathListing, rt.Site.Listing)
	api := r.With(httpmw.Scope("api"))
	api.Get(PathAPIList, rt.Site.APIList)
	api.Get(PathAPIArticle, rt.Site.APIArticle)
	r.Get(PathThemeCSS, rt.Site.ThemeCSS)
	r.Get(PathTailwind, rt.Site.TailwindConfig)
	r.Get(PathAssets, rt.Site.Asset)
	r.Get(PathRobots, rt.Site.Asset)
	r.Get(PathTag, rt.Site.Tag)
	r.Get(PathArticle, rt.Site.Article)

	r.NotFound(rt.Site.NotFound)
	r.MethodNotAllowed(rt.Site.MethodNotAllowed)
}
