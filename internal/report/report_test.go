package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/collision"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func fixture(t *testing.T) (*obstacle.Set, obstacle.BoundingVolume, []collision.LabeledSample) {
	t.Helper()
	set, bounds, err := obstacle.Build([]obstacle.Record{
		{North: 0, East: 0, Alt: 5, DNorth: 2, DEast: 3, DAlt: 1},
		{North: 10, East: 8, Alt: 3, DNorth: 1, DEast: 1, DAlt: 3},
		{North: 5, East: 5, Alt: 2, DNorth: 0, DEast: 1, DAlt: 1}, // degenerate
	}, obstacle.DefaultCeiling)
	require.NoError(t, err)
	samples := collision.ClassifyBatch([]r3.Vec{{Z: 3}, {Z: 7}, {X: 10, Y: 8, Z: 1}, {X: -1, Y: 6, Z: 2}}, set)
	return set, bounds, samples
}

func TestWriteFootprintPNG(t *testing.T) {
	set, _, samples := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteFootprintPNG(&buf, set, samples))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is not a PNG")
}

func TestSaveFootprintPlot(t *testing.T) {
	set, _, samples := fixture(t)
	path := filepath.Join(t.TempDir(), "nested", "field.png")
	require.NoError(t, SaveFootprintPlot(path, set, samples))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestFootprintPlot_Labels(t *testing.T) {
	set, _, samples := fixture(t)
	p, err := FootprintPlot(set, samples)
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "3 obstacles")
	assert.Contains(t, p.Title.Text, "4 samples")
	assert.Equal(t, "North (m)", p.X.Label.Text)
}

func TestRenderScatter3D(t *testing.T) {
	_, bounds, samples := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, RenderScatter3D(&buf, "Field samples", bounds, samples))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Field samples")
	assert.Contains(t, html, "scatter3D")
	assert.Contains(t, html, `"feasible"`)
	assert.Contains(t, html, `"occupied"`)
}

func TestSaveScatter3D(t *testing.T) {
	_, bounds, samples := fixture(t)
	path := filepath.Join(t.TempDir(), "samples.html")
	require.NoError(t, SaveScatter3D(path, "run", bounds, samples))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "echarts"))
}

func TestHeightColor(t *testing.T) {
	light := heightColor(0, 0, 10)
	dark := heightColor(10, 0, 10)
	lr, _, _, _ := light.RGBA()
	dr, _, _, _ := dark.RGBA()
	assert.Greater(t, lr, dr)
	assert.Equal(t, heightColor(3, 3, 3), heightColor(5, 5, 5), "flat fields use the mid shade")
}
