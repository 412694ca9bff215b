package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/pagedeps/internal/app"
	"github.com/hyperifyio/pagedeps/internal/report"
)

// NewRootCmd creates the pagedeps command.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		envFiles   []string
	)
	cmd := &cobra.Command{
		Use:   "pagedeps [flags] <list.csv>",
		Short: "Audit script dependencies and charset-aware sizes of web pages",
		Long: `pagedeps reads a list of "<label>,<location>" lines, fetches every page
concurrently and reports three views: the byte length of each page in the
charset it declares, the scripts each page loads, and how often each script
occurs across the whole list.

Locations starting with '~' or '.' are read from disk; anything else is
fetched with a single HTTP GET. A page that cannot be read or analysed is
logged and listed as a failure; it never stops the run.

Settings are taken from flags, then PAGEDEPS_* environment variables (also
loaded from --env-file), then the --config file.`,
		Version:       app.Version(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), configPath, envFiles, args)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	formats := make([]string, len(report.Formats))
	for i, f := range report.Formats {
		formats[i] = string(f)
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file (or PAGEDEPS_CONFIG)")
	f.StringSliceVar(&envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading PAGEDEPS_* variables")
	f.StringP("format", "f", app.DefaultFormat, "Report format: "+strings.Join(formats, ", "))
	f.StringP("output", "o", "", "Write the report to this file instead of stdout")
	f.Int("concurrency", app.DefaultConcurrency, "Maximum pages analysed at once (0 = no limit)")
	f.Duration("timeout", app.DefaultTimeout, "Timeout for each remote fetch")
	f.String("user-agent", app.DefaultUserAgent, "User-Agent header for remote fetches")
	f.String("tilde", app.DefaultTilde, "How a leading '~' in local locations is handled: always, windows or never")
	f.String("cache.dir", "", "Directory for the conditional-GET page cache (disabled when empty)")
	f.Duration("cache.maxAge", 0, "Purge cached pages older than this at startup (0 disables)")
	f.Bool("cache.clear", false, "Clear the cache directory before the run")
	f.Bool("cache.strictPerms", false, "Create cache files with 0600 and directories with 0700")
	f.String("log.file", "", "Also write JSON logs to this rotating file")
	f.BoolP("verbose", "v", false, "Verbose logging")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and
// explicitly set flags, in increasing precedence. The positional argument
// wins over every other input path source.
func resolveConfig(fs *pflag.FlagSet, configPath string, envFiles []string, args []string) (app.Config, error) {
	if err := app.LoadEnvFiles(envFiles...); err != nil {
		return app.Config{}, err
	}
	cfg := app.DefaultConfig()

	if configPath == "" {
		configPath = os.Getenv(app.EnvPrefix + "CONFIG")
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return app.Config{}, err
		}
	}
	if err := app.ApplyEnvOverrides(&cfg); err != nil {
		return app.Config{}, err
	}
	applyFlags(fs, &cfg)
	if len(args) == 1 {
		cfg.InputPath = args[0]
	}
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// applyFlags copies flags the user actually set onto cfg.
func applyFlags(fs *pflag.FlagSet, cfg *app.Config) {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	str("format", &cfg.Format)
	str("output", &cfg.OutputPath)
	str("user-agent", &cfg.UserAgent)
	str("tilde", &cfg.Tilde)
	str("cache.dir", &cfg.CacheDir)
	str("log.file", &cfg.LogFile)

	if fs.Changed("concurrency") {
		cfg.Concurrency, _ = fs.GetInt("concurrency")
	}
	if fs.Changed("timeout") {
		cfg.Timeout, _ = fs.GetDuration("timeout")
	}
	if fs.Changed("cache.maxAge") {
		cfg.CacheMaxAge, _ = fs.GetDuration("cache.maxAge")
	}

	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			*dst, _ = fs.GetBool(name)
		}
	}
	boolean("cache.clear", &cfg.CacheClear)
	boolean("cache.strictPerms", &cfg.CacheStrictPerms)
	boolean("verbose", &cfg.Verbose)
}

func run(ctx context.Context, cfg app.Config, stdout io.Writer) error {
	a, err := app.New(ctx, cfg, stdout)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
