// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the settings of the vortice command.
//
// Values come, lowest precedence first, from Default, a YAML file
// (vortice.yaml in the working directory or the user config directory),
// a .env file and VORTICE_ environment variables. Nested keys use an
// underscore in the environment: window.width is VORTICE_WINDOW_WIDTH.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "VORTICE"

// Config is the effective configuration.
type Config struct {
	Graphics Graphics `mapstructure:"graphics" yaml:"graphics"`
	Window   Window   `mapstructure:"window" yaml:"window"`
	Audio    Audio    `mapstructure:"audio" yaml:"audio"`
	Run      Run      `mapstructure:"run" yaml:"run"`
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"`
}

// Graphics selects and configures the graphics device.
type Graphics struct {
	Backend         string        `mapstructure:"backend" yaml:"backend"`
	Validation      string        `mapstructure:"validation" yaml:"validation"`
	PowerPreference string        `mapstructure:"power_preference" yaml:"power_preference"`
	WaitTimeout     time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`
	PresentMode     string        `mapstructure:"present_mode" yaml:"present_mode"`
}

// Window configures the platform view.
type Window struct {
	Title     string `mapstructure:"title" yaml:"title"`
	Width     int    `mapstructure:"width" yaml:"width"`
	Height    int    `mapstructure:"height" yaml:"height"`
	Resizable bool   `mapstructure:"resizable" yaml:"resizable"`
}

// Audio configures the audio device.
type Audio struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	SampleRate int  `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// Run configures the run command.
type Run struct {
	Platform  string `mapstructure:"platform" yaml:"platform"`
	MaxFrames uint64 `mapstructure:"max_frames" yaml:"max_frames"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Graphics: Graphics{
			Validation:      "disabled",
			PowerPreference: "high-performance",
			WaitTimeout:     graphics.DefaultWaitTimeout,
			PresentMode:     "fifo",
		},
		Window: Window{
			Title:     "vortice",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Audio: Audio{
			Enabled:    true,
			SampleRate: 48000,
		},
		Run: Run{
			Platform: "headless",
		},
		LogLevel: "info",
	}
}

// Load reads the configuration. An empty path searches for vortice.yaml;
// a missing file is not an error unless the path was given explicitly.
func Load(path string) (*Config, error) {
	return load(viper.New(), path, ".env")
}

func load(v *viper.Viper, path, envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	cfg := Default()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("vortice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "vortice"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables bind even when
// the file does not mention them.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("graphics.backend", c.Graphics.Backend)
	v.SetDefault("graphics.validation", c.Graphics.Validation)
	v.SetDefault("graphics.power_preference", c.Graphics.PowerPreference)
	v.SetDefault("graphics.wait_timeout", c.Graphics.WaitTimeout)
	v.SetDefault("graphics.present_mode", c.Graphics.PresentMode)
	v.SetDefault("window.title", c.Window.Title)
	v.SetDefault("window.width", c.Window.Width)
	v.SetDefault("window.height", c.Window.Height)
	v.SetDefault("window.resizable", c.Window.Resizable)
	v.SetDefault("audio.enabled", c.Audio.Enabled)
	v.SetDefault("audio.sample_rate", c.Audio.SampleRate)
	v.SetDefault("run.platform", c.Run.Platform)
	v.SetDefault("run.max_frames", c.Run.MaxFrames)
	v.SetDefault("log_level", c.LogLevel)
}

// Validate checks the enumerated values.
func (c *Config) Validate() error {
	if _, err := graphics.ParseValidationMode(c.Graphics.Validation); err != nil {
		return fmt.Errorf("config: graphics.validation: %w", err)
	}
	if _, err := graphics.ParsePowerPreference(c.Graphics.PowerPreference); err != nil {
		return fmt.Errorf("config: graphics.power_preference: %w", err)
	}
	if _, err := ParsePresentMode(c.Graphics.PresentMode); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Run.Platform {
	case "headless", "sdl2":
	default:
		return fmt.Errorf("config: run.platform: unknown platform %q", c.Run.Platform)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	return nil
}

// GraphicsOptions converts the graphics section into device options.
// Call it on a validated Config.
func (c *Config) GraphicsOptions() []graphics.Option {
	mode, _ := graphics.ParseValidationMode(c.Graphics.Validation)
	pref, _ := graphics.ParsePowerPreference(c.Graphics.PowerPreference)
	return []graphics.Option{
		graphics.WithBackend(c.Graphics.Backend),
		graphics.WithValidation(mode),
		graphics.WithPowerPreference(pref),
		graphics.WithWaitTimeout(c.Graphics.WaitTimeout),
	}
}

// ParsePresentMode parses fifo, immediate or mailbox.
func ParsePresentMode(s string) (graphics.PresentMode, error) {
	switch strings.ToLower(s) {
	case "", "fifo", "vsync":
		return graphics.PresentModeFifo, nil
	case "immediate":
		return graphics.PresentModeImmediate, nil
	case "mailbox":
		return graphics.PresentModeMailbox, nil
	}
	return 0, fmt.Errorf("config: unknown present mode %q", s)
}

// LevelOff is above every level the packages log at.
const LevelOff = slog.LevelError + 4

// ParseLogLevel parses a slog level name or "off".
func ParseLogLevel(s string) (level slog.Level, err error) {
	if strings.EqualFold(s, "off") {
		return LevelOff, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// YAML encodes the configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
