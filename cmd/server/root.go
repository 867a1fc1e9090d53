package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cfg"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	v "github.com/keithlinneman/linnemanlabs-blog/internal/version"
)

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// newRootCmd runs the server when no subcommand is given.
func newRootCmd() *cobra.Command {
	conf := &cfg.App{}

	root := &cobra.Command{
		Use:           v.AppName,
		Short:         "Serve or pre-render a markdown blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// precedence: cli flag > env var > default
			cfg.FillFromEnv(cmd.Flags(), cfg.EnvPrefix, stderrf)
			if err := cfg.Validate(*conf); err != nil {
				stderrf("config error: %v", err)
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *conf)
		},
	}
	cfg.Register(root.PersistentFlags(), conf)

	root.AddCommand(
		newServeCmd(conf),
		newBuildCmd(conf),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(conf *cfg.App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog and ops HTTP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *conf)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		// version needs no config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), v.Get().String())
		},
	}
}

// newLogger builds the process logger from config.
func newLogger(conf cfg.App, component string) (log.Logger, error) {
	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	stackLvl := lvl
	if conf.StacktraceLevel != "" {
		if stackLvl, err = log.ParseLevel(conf.StacktraceLevel); err != nil {
			return nil, err
		}
	}
	vi := v.Get()
	lg, err := log.New(log.Options{
		App:               v.AppName,
		Version:           vi.Version,
		Commit:            vi.Commit,
		BuildId:           vi.BuildId,
		Level:             lvl,
		StacktraceLevel:   stackLvl,
		JSON:              conf.LogJSON,
		MaxErrorLinks:     conf.MaxErrorLinks,
		IncludeErrorLinks: conf.IncludeErrorLinks,
	})
	if err != nil {
		return nil, err
	}
	return lg.With("component", component), nil
}
