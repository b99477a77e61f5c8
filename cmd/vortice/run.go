// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/Sina-Ebrahimi/vortice"
	"github.com/Sina-Ebrahimi/vortice/audio"
	"github.com/Sina-Ebrahimi/vortice/input"
	"github.com/Sina-Ebrahimi/vortice/internal/config"
	"github.com/Sina-Ebrahimi/vortice/platform/headless"
	"github.com/Sina-Ebrahimi/vortice/platform/sdl2"
)

// headlessFrames bounds headless runs that set no frame limit.
const headlessFrames = 600

func newRunCmd() *cobra.Command {
	var (
		platform   string
		maxFrames  uint64
		profileDir string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("platform") {
				cfg.Run.Platform = platform
			}
			if cmd.Flags().Changed("frames") {
				cfg.Run.MaxFrames = maxFrames
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if profileDir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.Quiet).Stop()
			}
			return runGame(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "platform: headless or sdl2")
	cmd.Flags().Uint64Var(&maxFrames, "frames", 0, "stop after this many frames (0: until exit)")
	cmd.Flags().StringVar(&profileDir, "profile", "", "write a CPU profile to this directory")
	return cmd
}

func runGame(cmd *cobra.Command, cfg *config.Config) error {
	ctx, closeCtx, err := newPlatform(cfg)
	if err != nil {
		return err
	}
	defer closeCtx()

	mode, _ := config.ParsePresentMode(cfg.Graphics.PresentMode)
	stats := &frameStats{}
	var g *vortice.Game
	g, err = vortice.New(ctx,
		vortice.WithSystems(stats, vortice.SystemFuncs{
			UpdateFunc: func(vortice.GameTime) error {
				if g.Input().IsKeyJustPressed(input.KeyEscape) {
					g.Exit()
				}
				return nil
			},
		}),
		vortice.WithPresentMode(mode),
	)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d frames in %v (%.1f fps) on %s\n",
		stats.last.FrameCount, stats.last.Total.Round(time.Millisecond), stats.fps(), g.GraphicsDevice().Adapter().Name)
	return nil
}

func newPlatform(cfg *config.Config) (vortice.Context, func(), error) {
	var dev audio.Device
	if cfg.Audio.Enabled {
		dev = audio.NewOto(audio.Options{SampleRate: cfg.Audio.SampleRate})
	}

	switch cfg.Run.Platform {
	case "sdl2":
		c, err := sdl2.New(sdl2.Options{
			Title:     cfg.Window.Title,
			Width:     cfg.Window.Width,
			Height:    cfg.Window.Height,
			Resizable: cfg.Window.Resizable,
			Graphics:  cfg.GraphicsOptions(),
			Audio:     dev,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		frames := cfg.Run.MaxFrames
		if frames == 0 {
			frames = headlessFrames
		}
		c := headless.New(headless.Options{
			Width:     cfg.Window.Width,
			Height:    cfg.Window.Height,
			MaxFrames: frames,
			Graphics:  cfg.GraphicsOptions(),
			Audio:     dev,
		})
		return c, func() {}, nil
	}
}

// frameStats remembers the clock of the last frame.
type frameStats struct {
	vortice.BaseSystem
	last vortice.GameTime
}

func (s *frameStats) Update(t vortice.GameTime) error {
	s.last = t
	return nil
}

func (s *frameStats) fps() float64 {
	if s.last.Total <= 0 {
		return 0
	}
	return float64(s.last.FrameCount) / s.last.Total.Seconds()
}
