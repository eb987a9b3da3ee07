package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"toolpath-viewer/internal/gcode"
	"toolpath-viewer/internal/geometry"
	"toolpath-viewer/internal/mathutil"
	"toolpath-viewer/internal/toolpath"
)

var (
	inspectFormat string
	inspectLayer  int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print layers, bounds and header metadata of a toolpath",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args[0], inspectFormat, inspectLayer)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "yaml", "output format: yaml or json")
	inspectCmd.Flags().IntVar(&inspectLayer, "layer", -1, "report visible geometry up to this layer")
	rootCmd.AddCommand(inspectCmd)
}

// Report is the inspect output.
type Report struct {
	File            string            `yaml:"file" json:"file"`
	Layers          int               `yaml:"layers" json:"layers"`
	TotalCommands   int               `yaml:"total_commands" json:"total_commands"`
	EstimatedHeight float64           `yaml:"estimated_height" json:"estimated_height"`
	Bounds          *BoxReport        `yaml:"bounds" json:"bounds"`
	Metadata        map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Skipped         map[string]int    `yaml:"skipped,omitempty" json:"skipped,omitempty"`
	LayerDetail     []LayerReport     `yaml:"layer_detail,omitempty" json:"layer_detail,omitempty"`
	Visible         *VisibleReport    `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// BoxReport is an axis-aligned box.
type BoxReport struct {
	Min [3]float64 `yaml:"min,flow" json:"min"`
	Max [3]float64 `yaml:"max,flow" json:"max"`
}

// LayerReport summarizes one layer.
type LayerReport struct {
	Index     int     `yaml:"index" json:"index"`
	Segments  int     `yaml:"segments" json:"segments"`
	Extruding int     `yaml:"extruding" json:"extruding"`
	Z         float64 `yaml:"z" json:"z"`
}

// VisibleReport describes what the viewer would draw with the slider at Layer.
type VisibleReport struct {
	Layer     int        `yaml:"layer" json:"layer"`
	Extruding int        `yaml:"extruding" json:"extruding"`
	Travel    int        `yaml:"travel" json:"travel"`
	Bounds    *BoxReport `yaml:"bounds" json:"bounds"`
}

func runInspect(w io.Writer, path, format string, layer int) error {
	model, err := gcode.ParseFile(path)
	if err != nil {
		return err
	}
	report := buildReport(path, model, layer)

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("inspect: encode: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return fmt.Errorf("inspect: unknown format %q", format)
}

func buildReport(path string, model *toolpath.Model, layer int) Report {
	r := Report{
		File:            path,
		Layers:          model.LayerCount(),
		TotalCommands:   model.TotalCommands,
		EstimatedHeight: model.EstimatedHeight,
		Bounds:          boxReport(model.Bounds),
		Metadata:        model.Metadata,
		Skipped:         model.Skipped,
	}
	for _, l := range model.Layers {
		lr := LayerReport{Index: l.Index, Segments: len(l.Segments)}
		for _, s := range l.Segments {
			if s.Extruding {
				lr.Extruding++
			}
		}
		lr.Z = l.Segments[len(l.Segments)-1].End.Z()
		r.LayerDetail = append(r.LayerDetail, lr)
	}

	if layer >= 0 {
		layer = min(layer, max(0, model.MaxLayerIndex()))
		res := geometry.Build(model, layer, geometry.DefaultDisplayConfig())
		r.Visible = &VisibleReport{
			Layer:     layer,
			Extruding: len(res.Extruding),
			Travel:    len(res.Travel),
			Bounds:    boxReport(res.VisibleBounds),
		}
	}
	return r
}

func boxReport(b mathutil.Box3) *BoxReport {
	if b.IsEmpty() {
		return nil
	}
	return &BoxReport{Min: b.Min, Max: b.Max}
}
