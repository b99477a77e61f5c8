// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

func newAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the adapters of every registered backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pref, _ := graphics.ParsePowerPreference(cfg.Graphics.PowerPreference)
			return listAdapters(cmd.OutOrStdout(), graphics.Available(), pref)
		},
	}
}

func listAdapters(w io.Writer, backends []string, pref graphics.PowerPreference) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BACKEND\tINDEX\tNAME\tVENDOR\tSOFTWARE\tUMA")
	for _, name := range backends {
		if !graphics.IsSupported(name) {
			fmt.Fprintf(tw, "%s\t-\t(not supported)\t\t\t\n", name)
			continue
		}
		b := graphics.GetBackend(name)
		f, err := b.CreateFactory(false)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		adapters, err := graphics.EnumerateAdapters(f, pref)
		if err != nil {
			f.Release()
			return fmt.Errorf("%s: %w", name, err)
		}
		for i, a := range adapters {
			d, err := a.Descriptor()
			if err != nil {
				fmt.Fprintf(tw, "%s\t%d\t(%v)\t\t\t\n", name, i, err)
			} else {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\t%t\n", name, i, d.Name, d.VendorID, d.Software, d.UnifiedMemory)
			}
			a.Release()
		}
		f.Release()
	}
	return tw.Flush()
}

func newCapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Create a device and print its capabilities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			d, err := graphics.Create(cfg.GraphicsOptions()...)
			if err != nil {
				return err
			}
			defer d.Close()
			return printCaps(cmd.OutOrStdout(), d)
		},
	}
}

func printCaps(w io.Writer, d *graphics.Device) error {
	c := d.Capabilities()
	v := d.Validation()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "backend\t%s\n", d.Backend())
	fmt.Fprintf(tw, "adapter\t%s\n", d.Adapter().Name)
	fmt.Fprintf(tw, "type\t%s\n", c.AdapterType)
	fmt.Fprintf(tw, "vendor\t%s\n", c.VendorID)
	fmt.Fprintf(tw, "feature level\t%s\n", d.FeatureLevel())
	fmt.Fprintf(tw, "cache coherent\t%t\n", c.CacheCoherent)
	fmt.Fprintf(tw, "tearing\t%t\n", d.TearingSupported())
	fmt.Fprintf(tw, "validation\t%s (filter installed: %t)\n", d.ValidationMode(), v.FilterInstalled)

	f := c.Features
	fmt.Fprintln(tw, "\nfeatures\t")
	for _, row := range []struct {
		name string
		ok   bool
	}{
		{"compute shader", f.ComputeShader},
		{"tessellation shader", f.TessellationShader},
		{"independent blend", f.IndependentBlend},
		{"multi viewport", f.MultiViewport},
		{"index uint32", f.IndexUint32},
		{"multi draw indirect", f.MultiDrawIndirect},
		{"fill mode non-solid", f.FillModeNonSolid},
		{"sampler anisotropy", f.SamplerAnisotropy},
		{"texture compression ETC2", f.TextureCompressionETC2},
		{"texture compression ASTC", f.TextureCompressionASTC},
		{"texture compression BC", f.TextureCompressionBC},
		{"texture cube array", f.TextureCubeArray},
		{"raytracing", f.Raytracing},
		{"wave ops", f.WaveOps},
		{"render pass", f.RenderPass},
	} {
		fmt.Fprintf(tw, "  %s\t%t\n", row.name, row.ok)
	}

	l := c.Limits
	fmt.Fprintln(tw, "\nlimits\t")
	fmt.Fprintf(tw, "  max texture 2D\t%d\n", l.MaxTextureDimension2D)
	fmt.Fprintf(tw, "  max texture 3D\t%d\n", l.MaxTextureDimension3D)
	fmt.Fprintf(tw, "  max array layers\t%d\n", l.MaxTextureArrayLayers)
	fmt.Fprintf(tw, "  max color attachments\t%d\n", l.MaxColorAttachments)
	fmt.Fprintf(tw, "  max vertex attributes\t%d\n", l.MaxVertexAttributes)
	fmt.Fprintf(tw, "  max uniform buffer range\t%d\n", l.MaxUniformBufferRange)
	fmt.Fprintf(tw, "  max storage buffer range\t%d\n", l.MaxStorageBufferRange)
	fmt.Fprintf(tw, "  max compute invocations\t%d\n", l.MaxComputeWorkGroupInvocations)
	return tw.Flush()
}
