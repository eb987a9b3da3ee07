package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"toolpath-viewer/internal/batch"
	"toolpath-viewer/internal/config"
)

var (
	batchLayer int
	batchFlags config.Flags
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Render every toolpath under a directory",
	Long: `Walks <dir> for .gcode, .gco, .g and .nc files, renders each one with a worker pool
and writes the images plus manifest.json into the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0])
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.OutputDir, "output", "", "output directory (default: renders)")
	f.IntVar(&batchFlags.Workers, "workers", 0, "number of worker goroutines (default: NumCPU)")
	f.StringVar(&batchFlags.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
	f.IntVar(&batchLayer, "layer", -1, "highest layer drawn (default: all)")
	addRenderFlags(f, &batchFlags)
	rootCmd.AddCommand(batchCmd)
}

// addRenderFlags registers the flags shared by render and batch.
func addRenderFlags(f *pflag.FlagSet, flags *config.Flags) {
	f.IntVar(&flags.Size, "size", 0, "output size in pixels (default: 512)")
	f.IntVar(&flags.Supersample, "supersample", 0, "supersampling factor (default: 2)")
	f.StringVar(&flags.Format, "format", "", "webp or png (default: webp)")
	f.StringVar(&flags.Background, "background", "", "background image path or #rrggbb")
	f.BoolVar(&flags.HideTravel, "no-travel", false, "hide non-extruding moves")
	f.BoolVar(&flags.Trim, "trim", false, "crop to the model and recenter")
}

func runBatch(cmd *cobra.Command, dir string) error {
	cfg, log, err := setup(batchFlags)
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

	jobs, err := batch.FindJobs(dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No toolpaths to render.")
		return nil
	}

	fmt.Fprintf(out, "Toolpaths: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Fprintf(out, "Output: %s\n", cfg.OutputDir)
	fmt.Fprintln(out, "------------------------------------------------------------")

	start := time.Now()
	metrics := batch.NewMetrics()
	results := batch.Run(cmd.Context(), batch.Config{
		OutputDir:   cfg.OutputDir,
		Format:      cfg.Format,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Layer:       batchLayer,
		Display:     display,
		Background:  bg,
		Trim:        cfg.Trim,
		TrimFill:    cfg.TrimFill,
		Metrics:     metrics,
		Logger:      log,
	}, jobs)

	fmt.Fprintln(out, "------------------------------------------------------------")
	fmt.Fprintf(out, "Done in %.1fs\n", time.Since(start).Seconds())

	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Fprintf(out, "Rendered: %d/%d\n", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		fmt.Fprintf(out, "\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Fprintf(out, "  %s: %s\n", r.Job.Name, r.Error)
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", cfg.OutputDir, err)
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn("manifest write failed", "error", err)
	} else {
		fmt.Fprintf(out, "Manifest: %s\n", manifestPath)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("metrics write failed", "error", err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("batch: %d of %d files failed", len(failed), len(results))
	}
	return nil
}
