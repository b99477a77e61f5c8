// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := load(viper.New(), "", noEnvFile(t))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Window.Width != 1280 || cfg.Graphics.WaitTimeout != graphics.DefaultWaitTimeout {
		t.Errorf("load() = %+v, want defaults", cfg)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
	if err == nil {
		t.Error("load() with a missing explicit file should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "vortice.yaml", `
graphics:
  backend: software
  validation: gpu
  wait_timeout: 250ms
window:
  width: 640
  height: 360
run:
  max_frames: 30
log_level: debug
`)
	cfg, err := load(viper.New(), path, noEnvFile(t))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Graphics.Backend != "software" || cfg.Graphics.Validation != "gpu" {
		t.Errorf("graphics = %+v", cfg.Graphics)
	}
	if cfg.Graphics.WaitTimeout != 250*time.Millisecond {
		t.Errorf("WaitTimeout = %v, want 250ms", cfg.Graphics.WaitTimeout)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 360 {
		t.Errorf("window = %+v", cfg.Window)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Window.Title != "vortice" || cfg.Graphics.PowerPreference != "high-performance" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Run.MaxFrames != 30 {
		t.Errorf("MaxFrames = %d, want 30", cfg.Run.MaxFrames)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "vortice.yaml", "window:\n  width: 640\n")
	t.Setenv("VORTICE_WINDOW_WIDTH", "800")
	t.Setenv("VORTICE_GRAPHICS_BACKEND", "native")

	cfg, err := load(viper.New(), path, noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 800 {
		t.Errorf("Width = %d, want 800 from the environment", cfg.Window.Width)
	}
	if cfg.Graphics.Backend != "native" {
		t.Errorf("Backend = %q, want native", cfg.Graphics.Backend)
	}
}

func TestDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	env := writeFile(t, ".env", "VORTICE_WINDOW_TITLE=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("VORTICE_WINDOW_TITLE") })

	cfg, err := load(viper.New(), "", env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "from-dotenv" {
		t.Errorf("Title = %q, want from-dotenv", cfg.Window.Title)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"validation", func(c *Config) { c.Graphics.Validation = "loud" }, "graphics.validation"},
		{"power", func(c *Config) { c.Graphics.PowerPreference = "turbo" }, "graphics.power_preference"},
		{"present", func(c *Config) { c.Graphics.PresentMode = "sometimes" }, "present mode"},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }, "log level"},
		{"platform", func(c *Config) { c.Run.Platform = "glfw" }, "run.platform"},
		{"size", func(c *Config) { c.Window.Width = 0 }, "window size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"off":   LevelOff,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
}

func TestParsePresentMode(t *testing.T) {
	if m, err := ParsePresentMode("Mailbox"); err != nil || m != graphics.PresentModeMailbox {
		t.Errorf("ParsePresentMode(Mailbox) = %v, %v", m, err)
	}
	if m, _ := ParsePresentMode(""); m != graphics.PresentModeFifo {
		t.Errorf("ParsePresentMode(\"\") = %v, want fifo", m)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	c := Default()
	c.Graphics.Backend = "software"
	out, err := c.YAML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "wait_timeout: 5s") {
		t.Errorf("YAML() = %s, want a readable duration", out)
	}

	var back Config
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back != *c {
		t.Errorf("round trip = %+v, want %+v", back, *c)
	}
}

func TestGraphicsOptions(t *testing.T) {
	c := Default()
	if got := len(c.GraphicsOptions()); got != 4 {
		t.Errorf("len(GraphicsOptions()) = %d, want 4", got)
	}
}
