package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/aerial.sampling/internal/collision"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

// RenderScatter3D writes an HTML page with the samples as a 3D scatter, one
// series per label, with axes fixed to bounds.
func RenderScatter3D(w io.Writer, title string, bounds obstacle.BoundingVolume, samples []collision.LabeledSample) error {
	series := map[collision.Label][]opts.Chart3DData{}
	for _, s := range samples {
		series[s.Label] = append(series[s.Label], opts.Chart3DData{
			Value: []interface{}{s.Point.X, s.Point.Y, s.Point.Z},
		})
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("samples=%d %s", len(samples), bounds)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "North (m)", Min: bounds.Min.X, Max: bounds.Max.X}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "East (m)", Min: bounds.Min.Y, Max: bounds.Max.Y}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Alt (m)", Min: bounds.Min.Z, Max: bounds.Max.Z}),
	)
	for _, l := range []collision.Label{collision.Feasible, collision.Occupied} {
		color := feasibleHex
		if l == collision.Occupied {
			color = occupiedHex
		}
		scatter.AddSeries(l.String(), series[l], charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("render 3D scatter: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveScatter3D writes RenderScatter3D output to path.
func SaveScatter3D(path, title string, bounds obstacle.BoundingVolume, samples []collision.LabeledSample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderScatter3D(f, title, bounds, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const (
	feasibleHex = "#2ea043"
	occupiedHex = "#d62728"
)
