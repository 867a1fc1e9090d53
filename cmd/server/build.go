package main

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cfg"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pages"
	"github.com/keithlinneman/linnemanlabs-blog/internal/prerender"
	"github.com/keithlinneman/linnemanlabs-blog/internal/sitehandler"
	"github.com/keithlinneman/linnemanlabs-blog/internal/sitehttp"
	v "github.com/keithlinneman/linnemanlabs-blog/internal/version"
	"github.com/keithlinneman/linnemanlabs-blog/internal/webassets"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

func newBuildCmd(conf *cfg.App) *cobra.Command {
	b := &cfg.Build{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Pre-render every page to a static directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.ValidateBuild(*b); err != nil {
				stderrf("config error: %v", err)
				return err
			}
			res, err := runBuild(cmd.Context(), *conf, *b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages and %d assets to %s\n", res.Pages, res.Assets, b.OutDir)
			if res.ArchiveSHA256 != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", res.ArchiveSHA256, b.Archive)
			}
			return nil
		},
	}
	cfg.RegisterBuild(cmd.Flags(), b)
	return cmd
}

// runBuild loads the configured content once and renders it through the
// same handlers the server uses. Unlike serve, a failed load is fatal: a
// build never silently publishes the seed articles.
func runBuild(ctx context.Context, conf cfg.App, b cfg.Build) (*prerender.Result, error) {
	L, err := newLogger(conf, "build")
	if err != nil {
		stderrf("logger init error: %v", err)
		return nil, err
	}
	defer L.Sync()
	ctx = log.WithContext(ctx, L)

	rt, err := loadContent(ctx, L, conf)
	if err != nil {
		L.Error(ctx, err, "content load failed", "content_source", conf.ContentSource)
		return nil, err
	}
	lib, ok := rt.mgr.Library()
	if !ok {
		return nil, xerrors.New("no content loaded")
	}

	site := pages.DefaultSite
	site.Version = v.Get().Version
	h, err := sitehandler.New(sitehandler.Options{
		Logger:     L,
		Content:    rt.mgr,
		FallbackFS: webassets.FallbackFS(),
		StaticFS:   webassets.StaticFS(),
		Site:       site,
	})
	if err != nil {
		return nil, err
	}
	r := chi.NewRouter()
	sitehttp.New(h).RegisterRoutes(r)

	res, err := prerender.Build(ctx, prerender.Options{
		Logger:   L,
		Handler:  r,
		Library:  lib,
		StaticFS: webassets.StaticFS(),
		OutDir:   b.OutDir,
		Archive:  b.Archive,
	})
	if err != nil {
		L.Error(ctx, err, "prerender failed", "out_dir", b.OutDir)
		return res, err
	}
	return res, nil
}
