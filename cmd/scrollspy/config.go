package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/scrollspy/internal/httpserver"
	"github.com/tinytelemetry/scrollspy/internal/model"
	"go.uber.org/zap/zapcore"
)

const (
	defaultAPIAddr  = httpserver.DefaultAddr
	defaultLogLevel = "info"
)

type cliConfig struct {
	Observer           model.ObserverConfig `mapstructure:",squash"`
	SuppressDuration   time.Duration        `mapstructure:"suppress-duration"`
	ScrollOffset       int                  `mapstructure:"scroll-offset"`
	SmoothScroll       bool                 `mapstructure:"smooth-scroll"`
	SmoothFrames       int                  `mapstructure:"smooth-frames"`
	ReverseScrollWheel bool                 `mapstructure:"reverse-scroll-wheel"`
	HeadingLevel       int                  `mapstructure:"heading-level"`
	CodeStyle          string               `mapstructure:"code-style"`
	Watch              bool                 `mapstructure:"watch"`
	APIEnabled         bool                 `mapstructure:"api-enabled"`
	APIAddr            string               `mapstructure:"api-addr"`
	LogFile            string               `mapstructure:"log-file"`
	LogLevel           string               `mapstructure:"log-level"`
}

// loadConfig resolves settings from flags, SCROLLSPY_* environment
// variables, the config file and defaults, in that order.
func loadConfig(v *viper.Viper, configPath string) (cliConfig, error) {
	v.SetEnvPrefix("SCROLLSPY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("dead-zone-top", model.DefaultDeadZoneTop)
	v.SetDefault("dead-zone-bottom", model.DefaultDeadZoneBottom)
	v.SetDefault("suppress-duration", model.DefaultSuppressDuration)
	v.SetDefault("scroll-offset", model.DefaultDeadZoneTop)
	v.SetDefault("smooth-scroll", true)
	v.SetDefault("smooth-frames", model.DefaultSmoothFrames)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("heading-level", model.DefaultHeadingLevel)
	v.SetDefault("code-style", model.DefaultCodeStyle)
	v.SetDefault("watch", false)
	v.SetDefault("api-enabled", false)
	v.SetDefault("api-addr", defaultAPIAddr)
	v.SetDefault("log-file", "")
	v.SetDefault("log-level", defaultLogLevel)

	explicit := configPath != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			configPath = filepath.Join(home, ".config", "scrollspy", "config.yml")
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || os.IsNotExist(err)
			if !missing || explicit {
				return cliConfig{}, fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
	}

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	if err := c.Observer.Validate(); err != nil {
		return err
	}
	if c.SuppressDuration < 0 {
		return fmt.Errorf("suppress-duration %s is negative: %w", c.SuppressDuration, model.ErrInvalidArgument)
	}
	if c.ScrollOffset < 0 {
		return fmt.Errorf("scroll-offset %d is negative: %w", c.ScrollOffset, model.ErrInvalidArgument)
	}
	if c.SmoothFrames < 1 {
		return fmt.Errorf("smooth-frames must be at least 1, got %d: %w", c.SmoothFrames, model.ErrInvalidArgument)
	}
	if c.HeadingLevel < 1 || c.HeadingLevel > 6 {
		return fmt.Errorf("heading-level %d outside 1..6: %w", c.HeadingLevel, model.ErrInvalidArgument)
	}
	if c.APIEnabled && strings.TrimSpace(c.APIAddr) == "" {
		return fmt.Errorf("api-addr is required when api-enabled is set: %w", model.ErrInvalidArgument)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c cliConfig) level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log-level %q: %w", c.LogLevel, model.ErrInvalidArgument)
	}
	return lvl, nil
}
