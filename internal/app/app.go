package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
	"github.com/hyperifyio/pagedeps/internal/cache"
	"github.com/hyperifyio/pagedeps/internal/fetch"
	"github.com/hyperifyio/pagedeps/internal/input"
	"github.com/hyperifyio/pagedeps/internal/pipeline"
	"github.com/hyperifyio/pagedeps/internal/report"
)

type App struct {
	cfg       Config
	format    report.Format
	renderer  report.Renderer
	provider  *fetch.Provider
	httpCache *cache.HTTPCache
	stdout    io.Writer
}

// New validates cfg and prepares the content provider, cache and renderer.
// Reports without an output path go to stdout.
func New(ctx context.Context, cfg Config, stdout io.Writer) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	format, _ := report.ParseFormat(cfg.Format)
	renderer, err := report.New(format)
	if err != nil {
		return nil, err
	}
	tilde, _ := fetch.ParseTildePolicy(cfg.Tilde)
	if stdout == nil {
		stdout = os.Stdout
	}

	a := &App{cfg: cfg, format: format, renderer: renderer, stdout: stdout}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := cache.PurgeByAge(ctx, cfg.CacheDir, cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Dur("maxAge", cfg.CacheMaxAge).Msg("purged stale cache entries")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	a.provider = &fetch.Provider{
		Tilde: tilde,
		Remote: &fetch.Client{
			HTTPClient:        newHTTPClient(cfg.Timeout),
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.Timeout,
			Cache:             a.httpCache,
			RedirectMaxHops:   5,
			MaxConcurrent:     cfg.Concurrency,
		},
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run audits every page in the input list and writes the report. Only an
// unreadable input list or an unwritable report fail the run; per-page
// failures are logged and listed in the report.
func (a *App) Run(ctx context.Context) error {
	entries, bad, err := input.ReadFile(a.cfg.InputPath)
	if err != nil {
		return err
	}
	for _, le := range bad {
		log.Warn().Int("line", le.Line).Str("input", a.cfg.InputPath).Msg("skipping malformed input line")
	}
	log.Info().Int("entries", len(entries)).Str("input", a.cfg.InputPath).Msg("starting audit")

	res := pipeline.New(a.provider, pipeline.WithConcurrency(a.cfg.Concurrency)).Run(ctx, entries)
	return a.write(res)
}

func (a *App) write(res aggregate.Result) error {
	out := a.cfg.OutputPath
	if out == "" && a.format.Binary() {
		out = deriveOutputPath(a.cfg.InputPath, a.format)
	}
	if out == "" || out == "-" {
		if err := a.renderer.Render(a.stdout, res); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(out); dir != "." && strings.TrimSpace(dir) != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := a.renderer.Render(w, res); err != nil {
		_ = f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", out).Str("format", string(a.format)).Msg("wrote report")
	return nil
}
