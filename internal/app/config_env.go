package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "PAGEDEPS_"

// ApplyEnvOverrides overrides cfg fields with PAGEDEPS_* environment variables
// that are set. It sits above the config file and below flags. Malformed
// numbers and durations are reported rather than ignored.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.InputPath, "INPUT")
	setString(&cfg.OutputPath, "OUTPUT")
	setString(&cfg.Format, "FORMAT")
	setString(&cfg.UserAgent, "USER_AGENT")
	setString(&cfg.Tilde, "TILDE")
	setString(&cfg.CacheDir, "CACHE_DIR")
	setString(&cfg.LogFile, "LOG_FILE")

	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "CONCURRENCY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err)
		}
		cfg.Concurrency = n
	}

	setDuration := func(dst *time.Duration, key string) error {
		v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = d
		return nil
	}
	if err := setDuration(&cfg.Timeout, "TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE"); err != nil {
		return err
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvPrefix + key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.Verbose, "VERBOSE")
	return nil
}
