package main

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/spf13/cobra"

	"imgstrip/internal/composite"
	"imgstrip/internal/config"
	"imgstrip/internal/imageio"
	"imgstrip/internal/layout"
)

type composeOptions struct {
	vertical       bool
	gap            int
	outDir         string
	normalizedSize float64
	concurrency    int
}

func newComposeCmd(root *rootOptions) *cobra.Command {
	opts := &composeOptions{}
	cmd := &cobra.Command{
		Use:   "compose <image>...",
		Short: "Export a composite of the given images without the UI",
		Long: `Decode the given images, lay them out in order and write
combined-image-hd.png at full resolution.

Examples:
  imgstrip compose a.png b.jpg
  imgstrip compose --vertical --gap 0 shots/*.png
  imgstrip compose -o ./out --normalized 720 a.png b.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			level := logLevel(cfg.LogLevel, root.verbose)
			if !root.verbose {
				level = max(level, slog.LevelWarn)
			}
			setupLogging(cmd.ErrOrStderr(), level)
			shutdown := setupTracing(cmd.Context())
			defer shutdown()

			return runCompose(cmd, cfg, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.vertical, "vertical", false, "stack images top to bottom (default from config)")
	cmd.Flags().IntVar(&opts.gap, "gap", -1, "gap between images in pixels (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default from config, else current directory)")
	cmd.Flags().Float64Var(&opts.normalizedSize, "normalized", 0, "cross-axis size in pixels (default 1080)")
	cmd.Flags().IntVar(&opts.concurrency, "jobs", imageio.DefaultConcurrency, "images decoded in parallel")
	return cmd
}

func runCompose(cmd *cobra.Command, cfg *config.Config, opts *composeOptions, paths []string) error {
	orientation := cfg.InitialOrientation()
	if cmd.Flags().Changed("vertical") {
		orientation = layout.Horizontal
		if opts.vertical {
			orientation = layout.Vertical
		}
	}
	gap := cfg.Gap
	if opts.gap >= 0 {
		gap = opts.gap
	}
	params := cfg.ExportParams()
	if opts.normalizedSize > 0 {
		params.NormalizedSize = opts.normalizedSize
	}
	dir := cfg.ExportDir
	if opts.outDir != "" {
		dir = opts.outDir
	}

	decoded, err := imageio.NewDecoder().DecodeAll(cmd.Context(), paths, opts.concurrency)
	if err != nil {
		return err
	}
	imgs := make([]image.Image, len(decoded))
	for i, d := range decoded {
		imgs[i] = d.Image
	}

	e := &composite.Exporter{
		Params:      params,
		Dir:         dir,
		FileName:    config.ExportFileName,
		Compression: composite.CompressionLevel(cfg.Compression),
	}
	// DecodeAll rejects zero-pixel files and cobra requires an argument, so
	// imgs is never empty here.
	out, err := e.Export(cmd.Context(), imgs, composite.Settings{Orientation: orientation, Gap: gap})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
