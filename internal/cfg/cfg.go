package cfg

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
)

// EnvPrefix is prepended to upper-cased flag names when reading the environment.
const EnvPrefix = "LMBLOG_"

// Content sources accepted by -content-source.
const (
	SourceSeed = "seed"
	SourceDisk = "disk"
	SourceS3   = "s3"
)

type App struct {
	LogJSON           bool
	LogLevel          string
	StacktraceLevel   string
	IncludeErrorLinks bool
	MaxErrorLinks     int

	HTTPPort    int
	AdminPort   int
	EnablePprof bool

	RateLimitRPS   float64
	RateLimitBurst int

	EnablePyroscope bool
	PyroServer      string
	PyroTenantID    string
	EnableTracing   bool
	OTLPEndpoint    string
	TraceSample     float64

	ContentSource        string
	ContentDir           string
	WatchContent         bool
	EnableContentUpdates bool
	ContentPollInterval  time.Duration
	ContentSSMParam      string
	ContentS3Bucket      string
	ContentS3Prefix      string
}

// Build holds the flags of the build subcommand.
type Build struct {
	OutDir  string
	Archive string
}

// Register binds all config fields to the given FlagSet with defaults inline
func Register(fs *pflag.FlagSet, c *App) {
	fs.BoolVar(&c.LogJSON, "log-json", true, "JSON logs (true) or text (false)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warn|error")
	fs.StringVar(&c.StacktraceLevel, "stacktrace-level", "error", "debug|info|warn|error")
	fs.BoolVar(&c.IncludeErrorLinks, "include-error-links", true, "Include error links in log messages")
	fs.IntVar(&c.MaxErrorLinks, "max-error-links", 5, "max error chain depth (1..64)")

	fs.IntVar(&c.HTTPPort, "http-port", 8080, "listen TCP port (1..65535)")
	fs.IntVar(&c.AdminPort, "admin-port", 9000, "admin listen TCP port (1..65535)")
	fs.BoolVar(&c.EnablePprof, "enable-pprof", true, "Enable pprof profiling (on admin port only)")

	fs.Float64Var(&c.RateLimitRPS, "rate-limit-rps", 10, "per-ip refill rate in requests per second")
	fs.IntVar(&c.RateLimitBurst, "rate-limit-burst", 30, "per-ip burst size")

	fs.BoolVar(&c.EnablePyroscope, "enable-pyroscope", false, "Enable pushing Pyroscope data to server set in --pyro-server")
	fs.StringVar(&c.PyroServer, "pyro-server", "", "pyroscope server url to push to")
	fs.StringVar(&c.PyroTenantID, "pyro-tenant", "", "tenant (x-scope-orgid) to use for pyro-server")
	fs.BoolVar(&c.EnableTracing, "enable-tracing", false, "Enable OTLP tracing and push to otlp-endpoint")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", "", "OTLP endpoint to push to (gRPC) (host:port)")
	fs.Float64Var(&c.TraceSample, "trace-sample", 0.0, "trace sampling ratio (0..1)")

	fs.StringVar(&c.ContentSource, "content-source", SourceDisk, "seed|disk|s3")
	fs.StringVar(&c.ContentDir, "content-dir", "content", "directory holding one markdown file per article")
	fs.BoolVar(&c.WatchContent, "watch-content", true, "Reload articles when files under content-dir change")
	fs.BoolVar(&c.EnableContentUpdates, "enable-content-updates", true, "Poll SSM/S3 for new content bundles (content-source=s3)")
	fs.DurationVar(&c.ContentPollInterval, "content-poll-interval", 30*time.Second, "interval between SSM polls")
	fs.StringVar(&c.ContentSSMParam, "content-ssm-param", "/app/linnemanlabs-blog/server/content/stable/release/id", "ssm parameter name to get content bundle hash from")
	fs.StringVar(&c.ContentS3Bucket, "content-s3-bucket", "", "s3 bucket name to get content bundle from")
	fs.StringVar(&c.ContentS3Prefix, "content-s3-prefix", "apps/linnemanlabs-blog/content/bundles", "s3 prefix (key) to get content bundle from")
}

// RegisterBuild binds the build subcommand flags.
func RegisterBuild(fs *pflag.FlagSet, b *Build) {
	fs.StringVar(&b.OutDir, "out", "build", "output directory for pre-rendered pages")
	fs.StringVar(&b.Archive, "archive", "", "optional path of a .tar.gz of the output directory")
}

// FillFromEnv sets any flag not explicitly passed on the CLI from
// environment variables. Flag "foo-bar" maps to PREFIX_FOO_BAR.
// Precedence: cli flag > env var > default.
func FillFromEnv(fs *pflag.FlagSet, prefix string, logf func(string, ...any)) {
	fs.VisitAll(func(f *pflag.Flag) {
		key := prefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
		envVal, envSet := os.LookupEnv(key)
		if !envSet {
			return
		}
		if f.Changed {
			if logf != nil {
				logf("flag --%s: cli value %q overrides env %s=%q", f.Name, f.Value.String(), key, envVal)
			}
			return
		}
		prev := f.Value.String()
		if err := f.Value.Set(envVal); err != nil {
			_ = f.Value.Set(prev)
			if logf != nil {
				logf("flag --%s: ignoring invalid env %s=%q: %v", f.Name, key, envVal, err)
			}
		}
	})
}

// Validate checks that config values are within expected ranges and formats.
// Returns an error describing all invalid fields, or nil if all valid.
func Validate(c App) error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.HTTPPort))
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid ADMIN_PORT %d (must be 1..65535)", c.AdminPort))
	}
	if c.AdminPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("ADMIN_PORT and HTTP_PORT must differ (both %d)", c.HTTPPort))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err))
	}
	if c.StacktraceLevel != "" {
		if _, err := log.ParseLevel(c.StacktraceLevel); err != nil {
			errs = append(errs, fmt.Errorf("invalid STACKTRACE_LEVEL %q: %w", c.StacktraceLevel, err))
		}
	}

	if c.IncludeErrorLinks {
		if c.MaxErrorLinks < 1 || c.MaxErrorLinks > 64 {
			errs = append(errs, fmt.Errorf("MAX_ERROR_LINKS must be 1..64 (got %d)", c.MaxErrorLinks))
		}
	}

	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be > 0 (got %g)", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be >= 1 (got %d)", c.RateLimitBurst))
	}

	if c.TraceSample < 0 || c.TraceSample > 1 {
		errs = append(errs, fmt.Errorf("invalid TRACE_SAMPLE %.3f (must be 0..1)", c.TraceSample))
	}

	if c.EnablePyroscope {
		if c.PyroServer == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER required when ENABLE_PYROSCOPE=true"))
		} else if u, err := url.Parse(c.PyroServer); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER must be a URL (got %q)", c.PyroServer))
		}
		if c.PyroTenantID == "" {
			errs = append(errs, fmt.Errorf("PYRO_TENANT required when ENABLE_PYROSCOPE=true"))
		}
	}

	// grpc exporter wants host:port, no scheme
	if c.EnableTracing {
		if c.OTLPEndpoint == "" {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT required when ENABLE_TRACING=true"))
		} else if _, _, err := net.SplitHostPort(c.OTLPEndpoint); err != nil {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT must be host:port (got %q): %v", c.OTLPEndpoint, err))
		}
	}

	switch c.ContentSource {
	case SourceSeed:
	case SourceDisk:
		if c.ContentDir == "" {
			errs = append(errs, fmt.Errorf("CONTENT_DIR required when CONTENT_SOURCE=disk"))
		}
	case SourceS3:
		if c.ContentSSMParam == "" {
			errs = append(errs, fmt.Errorf("CONTENT_SSM_PARAM is required when CONTENT_SOURCE=s3"))
		}
		if c.ContentS3Bucket == "" {
			errs = append(errs, fmt.Errorf("CONTENT_S3_BUCKET is required when CONTENT_SOURCE=s3"))
		}
		if c.ContentS3Prefix == "" {
			errs = append(errs, fmt.Errorf("CONTENT_S3_PREFIX is required when CONTENT_SOURCE=s3"))
		}
		if c.EnableContentUpdates && c.ContentPollInterval < time.Second {
			errs = append(errs, fmt.Errorf("CONTENT_POLL_INTERVAL must be >= 1s (got %s)", c.ContentPollInterval))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid CONTENT_SOURCE %q (must be seed|disk|s3)", c.ContentSource))
	}

	return errors.Join(errs...)
}

// ValidateBuild checks the build subcommand flags.
func ValidateBuild(b Build) error {
	var errs []error
	if b.OutDir == "" {
		errs = append(errs, fmt.Errorf("OUT is required"))
	}
	if b.Archive != "" && !strings.HasSuffix(b.Archive, ".tar.gz") && !strings.HasSuffix(b.Archive, ".tgz") {
		errs = append(errs, fmt.Errorf("ARCHIVE must end in .tar.gz or .tgz (got %q)", b.Archive))
	}
	return errors.Join(errs...)
}
