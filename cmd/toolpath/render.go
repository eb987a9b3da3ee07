package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"toolpath-viewer/internal/batch"
	"toolpath-viewer/internal/config"
)

var (
	renderOutput string
	renderLayer  int
	renderFlags  config.Flags
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a preview thumbnail of one toolpath",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, args[0])
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "", "output image (default: input name with the format extension)")
	f.IntVar(&renderLayer, "layer", -1, "highest layer drawn (default: all)")
	addRenderFlags(f, &renderFlags)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, path string) error {
	flags := renderFlags
	if renderOutput != "" && flags.Format == "" {
		flags.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(renderOutput)), ".")
	}
	cfg, log, err := setup(flags)
	if err != nil {
		return err
	}
	display, err := cfg.Display.Resolve()
	if err != nil {
		return err
	}
	bg, err := loadBackground(cfg)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("render: read %s: %w", path, err)
	}
	img, details, err := batch.Render(filepath.Base(path), string(raw), batch.Options{
		Display:     display,
		Layer:       renderLayer,
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Background:  bg,
		Trim:        cfg.Trim,
		TrimFill:    cfg.TrimFill,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	out := renderOutput
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + cfg.Format
	}
	if err := batch.WriteImage(out, img, cfg.Format); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d layers (showing 0-%d), %d moves, height %.2f mm -> %s\n",
		details.Name, details.LayerCount, details.Layer, details.TotalCommands, details.EstimatedHeight, out)
	return nil
}
