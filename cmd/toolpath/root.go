package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"toolpath-viewer/internal/config"
	"toolpath-viewer/internal/logging"
	"toolpath-viewer/internal/texture"
)

var (
	cfgFile  string
	logLevel string

	// backgrounds dedupes background decoding across commands and workers.
	backgrounds = texture.NewCache()
)

var rootCmd = &cobra.Command{
	Use:   "toolpath",
	Short: "Inspect and render G-code toolpaths",
	Long: `toolpath interprets 3D-printer and CNC G-code into a layered, bounded model and
renders preview thumbnails of it, one file at a time or a whole directory at once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

// setup loads the config file, applies flag overrides and builds the logger.
func setup(flags config.Flags) (config.Config, *slog.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logging.New(level)

	var cfg config.Config
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return config.Config{}, nil, err
		}
		log.Debug("config loaded", "path", cfgFile)
	}
	if err := cfg.Resolve(flags); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// loadBackground returns the configured background, or nil when none is set.
func loadBackground(cfg config.Config) (*image.NRGBA, error) {
	if cfg.Background == "" {
		return nil, nil
	}
	if c, ok := cfg.BackgroundColor(); ok {
		return texture.Solid(1, 1, c), nil
	}
	return backgrounds.Load(cfg.Background)
}
