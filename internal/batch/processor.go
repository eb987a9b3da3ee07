// Package batch renders directories of toolpath files to thumbnails with a bounded
// worker pool, and records what it did in a manifest and a metrics textfile.
package batch

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"toolpath-viewer/internal/geometry"
	"toolpath-viewer/internal/logging"
	"toolpath-viewer/internal/viewer"
)

// Extensions lists the file suffixes FindJobs treats as toolpaths.
var Extensions = []string{".gcode", ".gco", ".g", ".nc"}

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir   string
	Format      string
	RenderSize  int
	Supersample int
	Workers     int
	Layer       int // negative renders every layer
	Display     geometry.DisplayConfig
	Background  *image.NRGBA
	Trim        bool
	TrimFill    float64

	Metrics *Metrics
	Logger  *slog.Logger

	// ProgressInterval is how often progress is logged; zero means every 2s.
	ProgressInterval time.Duration
}

// Job is one input file. Name is the slash-separated path relative to the scanned
// directory without its extension, and names the output image.
type Job struct {
	Path string
	Name string
}

// Result holds the outcome of processing one job.
type Result struct {
	Job     Job
	Image   string // output path relative to OutputDir
	Success bool
	Error   string
	Details *viewer.Details
}

// FindJobs walks dir for toolpath files in lexical order.
func FindJobs(dir string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isToolpath(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{
			Path: path,
			Name: filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	return jobs, nil
}

func isToolpath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Run processes all jobs using a worker pool. Jobs not started before ctx is
// cancelled are reported as failed with the context error.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	log := logging.OrNop(cfg.Logger)
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "files_per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, max(cfg.Workers, 1)*2)
	var wg sync.WaitGroup

	for w := 0; w < max(cfg.Workers, 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Job: jobs[idx], Error: err.Error()}
				} else {
					results[idx] = processJob(cfg, log, jobs[idx])
				}
				cfg.Metrics.observeJob(results[idx].Success)
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, log *slog.Logger, job Job) Result {
	res := Result{Job: job}
	log = log.With("file", job.Name)

	raw, err := os.ReadFile(job.Path)
	if err != nil {
		res.Error = fmt.Sprintf("batch: read %s: %v", job.Path, err)
		log.Warn("job failed", "error", err)
		return res
	}

	img, details, err := Render(job.Name, string(raw), Options{
		Display:     cfg.Display,
		Layer:       cfg.Layer,
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Background:  cfg.Background,
		Trim:        cfg.Trim,
		TrimFill:    cfg.TrimFill,
		Metrics:     cfg.Metrics,
		Logger:      log,
	})
	if details.Name != "" {
		res.Details = &details
		cfg.Metrics.observeModel(details.TotalCommands, details.LayerCount)
	}
	if err != nil {
		res.Error = err.Error()
		log.Warn("job failed", "error", err)
		return res
	}

	res.Image = job.Name + "." + cfg.Format
	if err := WriteImage(filepath.Join(cfg.OutputDir, filepath.FromSlash(res.Image)), img, cfg.Format); err != nil {
		res.Image = ""
		res.Error = err.Error()
		log.Warn("job failed", "error", err)
		return res
	}

	res.Success = true
	log.Debug("rendered", "image", res.Image, "layers", details.LayerCount)
	return res
}
