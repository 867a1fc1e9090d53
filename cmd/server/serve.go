package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cfg"
	"github.com/keithlinneman/linnemanlabs-blog/internal/health"
	"github.com/keithlinneman/linnemanlabs-blog/internal/httpserver"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/metrics"
	"github.com/keithlinneman/linnemanlabs-blog/internal/opshttp"
	"github.com/keithlinneman/linnemanlabs-blog/internal/otelx"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pages"
	"github.com/keithlinneman/linnemanlabs-blog/internal/prof"
	"github.com/keithlinneman/linnemanlabs-blog/internal/provenancehttp"
	"github.com/keithlinneman/linnemanlabs-blog/internal/ratelimit"
	"github.com/keithlinneman/linnemanlabs-blog/internal/sitehandler"
	"github.com/keithlinneman/linnemanlabs-blog/internal/sitehttp"
	v "github.com/keithlinneman/linnemanlabs-blog/internal/version"
	"github.com/keithlinneman/linnemanlabs-blog/internal/webassets"
)

// drainPeriod is how long readiness fails before the listeners close, so
// the load balancer stops routing to us first.
const drainPeriod = 60 * time.Second

func runServe(ctx context.Context, conf cfg.App) error {
	vi := v.Get()

	L, err := newLogger(conf, "server")
	if err != nil {
		stderrf("logger init error: %v", err)
		return err
	}
	// no-op for slog, kept so a buffered backend flushes on exit
	defer L.Sync()
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing application",
		"version", vi.Version,
		"commit", vi.Commit,
		"commit_date", vi.CommitDate,
		"build_id", vi.BuildId,
		"build_date", vi.BuildDate,
		"go_version", vi.GoVersion,
		"vcs_dirty", vi.VCSDirty,
		"http_port", conf.HTTPPort,
		"admin_port", conf.AdminPort,
		"enable_pprof", conf.EnablePprof,
		"enable_pyroscope", conf.EnablePyroscope,
		"enable_tracing", conf.EnableTracing,
		"otlp_endpoint", conf.OTLPEndpoint,
		"trace_sample", conf.TraceSample,
		"rate_limit_rps", conf.RateLimitRPS,
		"rate_limit_burst", conf.RateLimitBurst,
		"content_source", conf.ContentSource,
		"content_dir", conf.ContentDir,
		"watch_content", conf.WatchContent,
		"enable_content_updates", conf.EnableContentUpdates,
		"content_ssm_param", conf.ContentSSMParam,
		"content_s3_bucket", conf.ContentS3Bucket,
		"content_s3_prefix", conf.ContentS3Prefix,
	)

	m := metrics.New()
	m.SetBuildInfoFromVersion(v.AppName, "server", &vi)

	stopProf, err := prof.Start(ctx, prof.Options{
		Enabled:       conf.EnablePyroscope,
		AppName:       v.AppName,
		ServerAddress: conf.PyroServer,
		TenantID:      conf.PyroTenantID,
		Tags: map[string]string{
			"app":            v.AppName,
			"component":      "server",
			"version":        vi.Version,
			"commit":         vi.Commit,
			"content_source": conf.ContentSource,
		},
	})
	if err != nil {
		L.Error(ctx, err, "pyroscope start failed", "pyro_server", conf.PyroServer)
	}
	m.SetProfilingActive(err == nil && conf.EnablePyroscope)
	defer stopProf()

	// insecure: the collector runs on localhost
	shutdownOTEL, err := otelx.Init(ctx, otelx.Options{
		Enabled:       conf.EnableTracing,
		Endpoint:      conf.OTLPEndpoint,
		Insecure:      true,
		Sample:        conf.TraceSample,
		Service:       v.AppName,
		Component:     "server",
		Version:       vi.Version,
		ContentSource: conf.ContentSource,
	})
	if err != nil {
		L.Error(ctx, err, "otel init failed")
		shutdownOTEL = func(context.Context) error { return nil }
	}

	rt, err := loadContent(ctx, L, conf)
	if err != nil {
		// keep serving whatever loaded (seed, or maintenance) and let the
		// watchers pick up a fixed source
		L.Error(ctx, err, "content load failed", "content_source", conf.ContentSource)
	}
	rt.publish(m)
	rt.startWatchers(ctx, L, conf, m)

	site := pages.DefaultSite
	site.Version = vi.Version
	siteHandler, err := sitehandler.New(sitehandler.Options{
		Logger:     L,
		Content:    rt.mgr,
		FallbackFS: webassets.FallbackFS(),
		StaticFS:   webassets.StaticFS(),
		Site:       site,
		Metrics:    m,
	})
	if err != nil {
		L.Error(ctx, err, "failed to create site handler")
		return err
	}

	var gate health.ShutdownGate
	readiness := health.All(gate.Probe(), health.ContentLoaded(rt.mgr))

	limiter := ratelimit.New(ctx,
		ratelimit.WithRate(conf.RateLimitRPS, conf.RateLimitBurst),
		ratelimit.WithOnDenied(func(string) { m.IncRateLimitDenied() }),
		// logged once per visitor until it is evicted
		ratelimit.WithOnFirstDenied(func(ip string) {
			L.Warn(ctx, "rate limit triggered", "ip", ip)
		}),
		ratelimit.WithOnCapacity(func() {
			m.IncRateLimitCapacity()
			L.Warn(ctx, "rate limit visitor table full, admitting new visitors unlimited")
		}),
	)

	provenanceAPI := provenancehttp.NewAPI(rt.mgr, L)

	siteHTTPStop, err := httpserver.Start(ctx, &httpserver.Options{
		Logger:       L,
		Port:         conf.HTTPPort,
		UseRecoverMW: true,
		OnPanic:      m.IncHttpPanic,
		MetricsMW:    m.Middleware,
		RateLimitMW:  limiter.Middleware,
		Health:       health.Fixed(true, ""),
		Readiness:    readiness,
		ContentInfo:  rt.mgr,
		Routes: []httpserver.RouteRegistrar{
			provenanceAPI.RegisterRoutes,
			sitehttp.New(siteHandler).RegisterRoutes,
		},
	})
	if err != nil {
		L.Error(ctx, err, "failed to start site http listener")
		return err
	}
	defer func() { _ = siteHTTPStop(context.Background()) }()

	// the ops port also rejects public peers in middleware, in case the
	// network policy in front of it is ever misconfigured
	opsHTTPStop, err := opshttp.Start(ctx, L, &opshttp.Options{
		Port:         conf.AdminPort,
		Metrics:      m.Handler(),
		EnablePprof:  conf.EnablePprof,
		Health:       health.Fixed(true, ""),
		Readiness:    readiness,
		Content:      rt.mgr,
		UseRecoverMW: true,
		OnPanic:      m.IncHttpPanic,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start ops http listener")
		return err
	}
	defer func() { _ = opsHTTPStop(context.Background()) }()

	if err := notifySystemd(); err != nil {
		// worst case systemd kills us after its start timeout
		L.Warn(ctx, "failed to notify systemd of readiness", "error", err.Error())
	}

	<-ctx.Done()
	bg := context.Background()
	L.Info(bg, "shutdown signal received")

	gate.Set("draining")
	L.Info(bg, "shutdown gate closed, draining", "period", drainPeriod.String())

	forceCh := make(chan os.Signal, 1)
	signal.Notify(forceCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-time.After(drainPeriod):
		L.Info(bg, "drain period complete")
	case <-forceCh:
		L.Warn(bg, "second signal received, skipping drain")
	}
	signal.Stop(forceCh)

	shutdownCtx, cancel := context.WithTimeout(bg, 10*time.Second)
	defer cancel()

	if err := siteHTTPStop(shutdownCtx); err != nil {
		L.Error(bg, err, "site http server shutdown")
	}
	if err := opsHTTPStop(shutdownCtx); err != nil {
		L.Error(bg, err, "ops http server shutdown")
	}
	if err := shutdownOTEL(shutdownCtx); err != nil {
		L.Error(bg, err, "otel shutdown")
	}
	stopProf()

	L.Info(bg, "shutdown complete")
	return nil
}
