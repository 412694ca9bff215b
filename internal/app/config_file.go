package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/pagedeps/internal/fetch"
	"github.com/hyperifyio/pagedeps/internal/report"
)

// FileConfig represents the single-file configuration schema. Durations are
// written as Go duration strings such as "30s" or "24h".
type FileConfig struct {
	Input       string `yaml:"input" json:"input"`
	Output      string `yaml:"output" json:"output"`
	Format      string `yaml:"format" json:"format"`
	Concurrency *int   `yaml:"concurrency" json:"concurrency"`
	Timeout     string `yaml:"timeout" json:"timeout"`
	UserAgent   string `yaml:"userAgent" json:"userAgent"`
	Tilde       string `yaml:"tilde" json:"tilde"`

	Cache struct {
		Dir         string `yaml:"dir" json:"dir"`
		MaxAge      string `yaml:"maxAge" json:"maxAge"`
		Clear       bool   `yaml:"clear" json:"clear"`
		StrictPerms bool   `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Log struct {
		File    string `yaml:"file" json:"file"`
		Verbose bool   `yaml:"verbose" json:"verbose"`
	} `yaml:"log" json:"log"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays the values set in fc onto cfg. It runs right
// after DefaultConfig, before environment and flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if fc.Format != "" {
		cfg.Format = fc.Format
	}
	if fc.Concurrency != nil {
		cfg.Concurrency = *fc.Concurrency
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.Tilde != "" {
		cfg.Tilde = fc.Tilde
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config: timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if fc.Cache.MaxAge != "" {
		d, err := time.ParseDuration(fc.Cache.MaxAge)
		if err != nil {
			return fmt.Errorf("config: cache.maxAge: %w", err)
		}
		cfg.CacheMaxAge = d
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	if fc.Log.File != "" {
		cfg.LogFile = fc.Log.File
	}
	if fc.Log.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if cfg.Concurrency < 0 {
		return errors.New("config: concurrency must not be negative")
	}
	if cfg.Timeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if _, err := report.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := fetch.ParseTildePolicy(cfg.Tilde); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.CacheClear && strings.TrimSpace(cfg.CacheDir) == "" {
		return errors.New("config: cache.clear requires cache.dir")
	}
	return nil
}
