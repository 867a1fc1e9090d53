package cfg

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func wantErrContains(t *testing.T, err error, sub string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got <nil>", sub)
	}
	if !strings.Contains(err.Error(), sub) {
		t.Fatalf("error %q does not contain %q", err.Error(), sub)
	}
}

// newTestFlags registers flags on a fresh FlagSet and parses args.
func newTestFlags(t *testing.T, args []string) (*pflag.FlagSet, *App) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c := &App{}
	Register(fs, c)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse: %v", err)
	}
	return fs, c
}

func TestRegister_Defaults(t *testing.T) {
	_, c := newTestFlags(t, nil)

	if !c.LogJSON {
		t.Error("LogJSON: want true")
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel: want %q, got %q", "info", c.LogLevel)
	}
	if c.HTTPPort != 8080 {
		t.Errorf("HTTPPort: want 8080, got %d", c.HTTPPort)
	}
	if c.AdminPort != 9000 {
		t.Errorf("AdminPort: want 9000, got %d", c.AdminPort)
	}
	if c.ContentSource != SourceDisk {
		t.Errorf("ContentSource: want %q, got %q", SourceDisk, c.ContentSource)
	}
	if c.ContentDir != "content" {
		t.Errorf("ContentDir: want %q, got %q", "content", c.ContentDir)
	}
	if !c.WatchContent {
		t.Error("WatchContent: want true")
	}
	if c.ContentPollInterval != 30*time.Second {
		t.Errorf("ContentPollInterval: want 30s, got %s", c.ContentPollInterval)
	}
	if c.StacktraceLevel != "error" {
		t.Errorf("StacktraceLevel: want %q, got %q", "error", c.StacktraceLevel)
	}
	if err := Validate(*c); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRegister_CLIOverrides(t *testing.T) {
	_, c := newTestFlags(t, []string{
		"--log-json=false",
		"--log-level=debug",
		"--http-port=9090",
		"--admin-port=9100",
		"--content-source=s3",
		"--content-dir=/srv/posts",
		"--watch-content=false",
		"--content-poll-interval=2m",
		"--content-s3-bucket=my-bucket",
		"--content-s3-prefix=my/prefix",
		"--rate-limit-rps=2.5",
		"--rate-limit-burst=5",
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"LogJSON", c.LogJSON, false},
		{"LogLevel", c.LogLevel, "debug"},
		{"HTTPPort", c.HTTPPort, 9090},
		{"AdminPort", c.AdminPort, 9100},
		{"ContentSource", c.ContentSource, SourceS3},
		{"ContentDir", c.ContentDir, "/srv/posts"},
		{"WatchContent", c.WatchContent, false},
		{"ContentPollInterval", c.ContentPollInterval, 2 * time.Minute},
		{"ContentS3Bucket", c.ContentS3Bucket, "my-bucket"},
		{"ContentS3Prefix", c.ContentS3Prefix, "my/prefix"},
		{"RateLimitRPS", c.RateLimitRPS, 2.5},
		{"RateLimitBurst", c.RateLimitBurst, 5},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestFillFromEnv(t *testing.T) {
	pfx := "TESTCFG_"
	t.Setenv(pfx+"LOG_JSON", "false")
	t.Setenv(pfx+"HTTP_PORT", "8088")
	t.Setenv(pfx+"CONTENT_DIR", "/var/blog")
	t.Setenv(pfx+"CONTENT_POLL_INTERVAL", "45s")
	t.Setenv(pfx+"TRACE_SAMPLE", "0.25")

	fs, c := newTestFlags(t, nil)
	FillFromEnv(fs, pfx, nil)

	if c.LogJSON {
		t.Error("LogJSON: want false from env")
	}
	if c.HTTPPort != 8088 {
		t.Errorf("HTTPPort: want 8088, got %d", c.HTTPPort)
	}
	if c.ContentDir != "/var/blog" {
		t.Errorf("ContentDir: want /var/blog, got %q", c.ContentDir)
	}
	if c.ContentPollInterval != 45*time.Second {
		t.Errorf("ContentPollInterval: want 45s, got %s", c.ContentPollInterval)
	}
	if c.TraceSample != 0.25 {
		t.Errorf("TraceSample: want 0.25, got %f", c.TraceSample)
	}
}

func TestFillFromEnv_CLITakesPrecedence(t *testing.T) {
	pfx := "TESTCFG2_"
	t.Setenv(pfx+"HTTP_PORT", "7777")
	t.Setenv(pfx+"LOG_LEVEL", "warn")
	t.Setenv(pfx+"ENABLE_PPROF", "false")

	fs, c := newTestFlags(t, []string{"--http-port=9090", "--log-level=debug", "--enable-pprof=true"})

	var msgs []string
	FillFromEnv(fs, pfx, func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	})

	if c.HTTPPort != 9090 {
		t.Errorf("HTTPPort: want 9090 (cli), got %d", c.HTTPPort)
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel: want debug (cli), got %q", c.LogLevel)
	}
	if !c.EnablePprof {
		t.Error("EnablePprof: want true (cli)")
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 override messages, got %d: %v", len(msgs), msgs)
	}
	for _, m := range msgs {
		if !strings.Contains(m, "overrides env") {
			t.Errorf("unexpected message: %s", m)
		}
	}
}

func TestFillFromEnv_InvalidEnvIgnored(t *testing.T) {
	pfx := "TESTCFG3_"
	t.Setenv(pfx+"HTTP_PORT", "not-a-number")

	fs, c := newTestFlags(t, nil)

	var msgs []string
	FillFromEnv(fs, pfx, func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	})

	if c.HTTPPort != 8080 {
		t.Errorf("HTTPPort: want 8080 (default), got %d", c.HTTPPort)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "ignoring invalid env") {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestValidate_OK(t *testing.T) {
	_, c := newTestFlags(t, []string{
		"--enable-pyroscope=true",
		"--pyro-server=https://pyro:4040",
		"--pyro-tenant=test-tenant",
		"--enable-tracing=true",
		"--otlp-endpoint=otel:4317",
		"--trace-sample=0.2",
		"--content-source=s3",
		"--content-s3-bucket=bucket",
	})
	if err := Validate(*c); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_InvalidCombined(t *testing.T) {
	_, c := newTestFlags(t, []string{
		"--http-port=0",
		"--admin-port=70000",
		"--log-level=nope",
		"--stacktrace-level=alsonope",
		"--trace-sample=2.0",
		"--enable-pyroscope=true",
		"--pyro-server=not-a-url",
		"--enable-tracing=true",
		"--otlp-endpoint=otel",
		"--max-error-links=0",
		"--rate-limit-rps=0",
		"--content-source=ftp",
	})

	err := Validate(*c)
	for _, sub := range []string{
		"invalid HTTP_PORT",
		"invalid ADMIN_PORT",
		"invalid LOG_LEVEL",
		"invalid STACKTRACE_LEVEL",
		"invalid TRACE_SAMPLE",
		"PYRO_SERVER must be a URL",
		"PYRO_TENANT required",
		"OTLP_ENDPOINT must be host:port",
		"MAX_ERROR_LINKS",
		"RATE_LIMIT_RPS",
		"invalid CONTENT_SOURCE",
	} {
		wantErrContains(t, err, sub)
	}
}

func TestValidate_ContentSources(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"seed", []string{"--content-source=seed"}, ""},
		{"disk empty dir", []string{"--content-source=disk", "--content-dir="}, "CONTENT_DIR required"},
		{"s3 no bucket", []string{"--content-source=s3"}, "CONTENT_S3_BUCKET is required"},
		{"s3 fast poll", []string{"--content-source=s3", "--content-s3-bucket=b", "--content-poll-interval=10ms"}, "CONTENT_POLL_INTERVAL"},
		{"s3 no updates fast poll", []string{"--content-source=s3", "--content-s3-bucket=b", "--enable-content-updates=false", "--content-poll-interval=10ms"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestFlags(t, tt.args)
			err := Validate(*c)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			wantErrContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateBuild(t *testing.T) {
	if err := ValidateBuild(Build{OutDir: "dist"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ValidateBuild(Build{OutDir: "dist", Archive: "site.tgz"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	wantErrContains(t, ValidateBuild(Build{}), "OUT is required")
	wantErrContains(t, ValidateBuild(Build{OutDir: "d", Archive: "site.zip"}), "ARCHIVE must end")
}
