package batch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolpath-viewer/internal/batch"
	"toolpath-viewer/internal/geometry"
)

const cube = `; generated by test
; layer_height = 0.2
G21
G90
M82
G28
G1 X10 Y0 Z0.2 E1
G1 X10 Y10 E2
G1 Z0.4
G1 X0 Y10 E3
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func testConfig(out string) batch.Config {
	return batch.Config{
		OutputDir:   out,
		Format:      "png",
		RenderSize:  32,
		Supersample: 1,
		Workers:     2,
		Layer:       -1,
		Display:     geometry.DefaultDisplayConfig(),
		Metrics:     batch.NewMetrics(),
	}
}

func TestFindJobs(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.gcode":  cube,
		"D.GCO":    cube,
		"c.txt":    "not a toolpath",
		"sub/b.nc": cube,
	})

	jobs, err := batch.FindJobs(dir)
	require.NoError(t, err)

	var names []string
	for _, j := range jobs {
		names = append(names, j.Name)
	}
	assert.Equal(t, []string{"D", "a", "sub/b"}, names)
	assert.Equal(t, filepath.Join(dir, "sub", "b.nc"), jobs[2].Path)

	_, err = batch.FindJobs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"good.gcode":  cube,
		"bad.gcode":   "G1 X1\nG1 Xabc\n",
		"empty.gcode": "; nothing here\n",
	})
	out := t.TempDir()
	cfg := testConfig(out)

	jobs, err := batch.FindJobs(dir)
	require.NoError(t, err)
	results := batch.Run(context.Background(), cfg, jobs)
	require.Len(t, results, 3)

	byName := map[string]batch.Result{}
	for _, r := range results {
		byName[r.Job.Name] = r
	}

	good := byName["good"]
	require.True(t, good.Success, good.Error)
	assert.Equal(t, "good.png", good.Image)
	assert.FileExists(t, filepath.Join(out, "good.png"))
	require.NotNil(t, good.Details)
	assert.Equal(t, 2, good.Details.LayerCount)
	assert.Equal(t, "0.2", good.Details.Metadata["layer_height"])

	bad := byName["bad"]
	assert.False(t, bad.Success)
	assert.Contains(t, bad.Error, "line 2")
	assert.Nil(t, bad.Details)

	empty := byName["empty"]
	assert.False(t, empty.Success)
	assert.Equal(t, batch.ErrNothingVisible.Error(), empty.Error)
	require.NotNil(t, empty.Details)
	assert.True(t, empty.Details.Bounds.IsEmpty())

	manifest := filepath.Join(out, "manifest.json")
	require.NoError(t, batch.WriteManifest(manifest, results))
	raw, err := os.ReadFile(manifest)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 3)
	for _, e := range entries {
		switch e["name"] {
		case "good":
			assert.NotNil(t, e["bounds"])
			assert.Equal(t, "good.png", e["image"])
		case "empty":
			assert.Nil(t, e["bounds"])
			assert.Contains(t, e, "bounds")
		}
	}

	metrics := filepath.Join(out, "metrics.prom")
	require.NoError(t, cfg.Metrics.WriteTextfile(metrics))
	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `toolpath_batch_jobs_total{result="ok"} 1`)
	assert.Contains(t, string(prom), `toolpath_batch_jobs_total{result="error"} 2`)
	assert.Contains(t, string(prom), "toolpath_segments_total 4")
}

func TestRunCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.gcode": cube, "b.gcode": cube})
	jobs, err := batch.FindJobs(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, r := range batch.Run(ctx, testConfig(t.TempDir()), jobs) {
		assert.False(t, r.Success)
		assert.Equal(t, context.Canceled.Error(), r.Error)
	}
}

func TestRenderLayerAndTrim(t *testing.T) {
	opts := batch.Options{
		Display:     geometry.DefaultDisplayConfig(),
		Layer:       0,
		Size:        48,
		Supersample: 2,
		Trim:        true,
		TrimFill:    0.5,
	}
	img, details, err := batch.Render("cube", cube, opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 48, 48), img.Bounds())
	assert.Equal(t, 0, details.Layer)
	assert.Equal(t, uint8(0), img.NRGBAAt(2, 2).A, "trimmed render leaves a clear margin")
}

func TestEncode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, batch.Encode(&buf, img, "webp"))
	assert.Equal(t, "RIFF", buf.String()[:4])

	buf.Reset()
	require.NoError(t, batch.Encode(&buf, img, "png"))
	assert.Equal(t, "\x89PNG", buf.String()[:4])

	assert.Error(t, batch.Encode(&buf, img, "gif"))
}
