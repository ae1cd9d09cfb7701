// Package report renders obstacle fields and labeled samples: a top-down
// PNG footprint map via gonum/plot and an interactive 3D scatter page via
// go-echarts.
package report

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/aerial.sampling/internal/collision"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

var (
	feasibleColor = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	occupiedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Plot size for footprint maps.
const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 10 * vg.Inch
)

// FootprintPlot builds a top-down plot of every obstacle footprint, shaded by
// height, with samples overlaid in feasible and occupied colours.
func FootprintPlot(set *obstacle.Set, samples []collision.LabeledSample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Obstacle footprints (%d obstacles, %d samples)", set.Len(), len(samples))
	p.X.Label.Text = "North (m)"
	p.Y.Label.Text = "East (m)"

	lo, hi := heightRange(set)
	for i, o := range set.Obstacles() {
		if o.Degenerate() {
			continue
		}
		xys := make(plotter.XYs, len(o.Footprint))
		for j, c := range o.Footprint {
			xys[j] = plotter.XY{X: c[0], Y: c[1]}
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d footprint: %w", i, err)
		}
		poly.Color = heightColor(o.Height, lo, hi)
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)
	}

	var feasible, occupied plotter.XYs
	for _, s := range samples {
		xy := plotter.XY{X: s.Point.X, Y: s.Point.Y}
		if s.Label == collision.Occupied {
			occupied = append(occupied, xy)
		} else {
			feasible = append(feasible, xy)
		}
	}
	for _, series := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{collision.Feasible.String(), feasible, feasibleColor},
		{collision.Occupied.String(), occupied, occupiedColor},
	} {
		if len(series.xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(series.xys)
		if err != nil {
			return nil, fmt.Errorf("%s samples: %w", series.name, err)
		}
		sc.GlyphStyle.Color = series.c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("%s (%d)", series.name, len(series.xys)), sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WriteFootprintPNG renders FootprintPlot as PNG to w.
func WriteFootprintPNG(w io.Writer, set *obstacle.Set, samples []collision.LabeledSample) error {
	p, err := FootprintPlot(set, samples)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("render footprint plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write footprint plot: %w", err)
	}
	return nil
}

// SaveFootprintPlot writes FootprintPlot to path. The image format follows
// the extension (.png, .svg, .pdf, ...).
func SaveFootprintPlot(path string, set *obstacle.Set, samples []collision.LabeledSample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	p, err := FootprintPlot(set, samples)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save footprint plot %s: %w", path, err)
	}
	return nil
}

func heightRange(set *obstacle.Set) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, o := range set.Obstacles() {
		lo = math.Min(lo, o.Height)
		hi = math.Max(hi, o.Height)
	}
	return lo, hi
}

// heightColor shades from light to dark grey-blue as h goes from lo to hi.
func heightColor(h, lo, hi float64) color.Color {
	t := 0.5
	if hi > lo {
		t = (h - lo) / (hi - lo)
	}
	shade := func(from, to float64) uint8 { return uint8(from + (to-from)*t) }
	return color.RGBA{R: shade(200, 40), G: shade(210, 60), B: shade(225, 110), A: 200}
}
