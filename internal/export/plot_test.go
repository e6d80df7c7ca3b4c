package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

var pngMagic = []byte("\x89PNG")

func TestLayerPlot(t *testing.T) {
	p, err := LayerPlot(buildTestLayers(1)[0])
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "Layer 0")

	// Equal scaling on both axes.
	assert.InDelta(t, p.X.Max-p.X.Min, p.Y.Max-p.Y.Min, 1e-9)
}

func TestWriteLayerPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLayerPNG(&buf, buildTestLayers(1)[0]))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestSaveLayerPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer.png")
	require.NoError(t, SaveLayerPlot(path, buildTestLayers(1)[0]))
	assert.FileExists(t, path)
}

func TestAreaProfilePNG(t *testing.T) {
	data, err := AreaProfilePNG(buildTestLayers(5))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestLayerPlotEmptyLayer(t *testing.T) {
	_, err := LayerPlot(model.Layer{})
	assert.NoError(t, err)
}
