package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

func TestNewLayerData(t *testing.T) {
	l := buildTestLayers(1)[0]
	d := NewLayerData(l)

	assert.Equal(t, l.Z, d.Z)
	require.Len(t, d.Contours, 2)
	assert.Equal(t, [2]float64{0, 0}, d.Contours[0][0])
	assert.Equal(t, [2]float64{7, 7}, d.Contours[1][0])
	assert.Len(t, d.Infill, len(l.Infill))
}

func TestNewLayerDataEmptyLayer(t *testing.T) {
	d := NewLayerData(model.Layer{Z: 0.4})
	assert.NotNil(t, d.Contours)
	assert.NotNil(t, d.Infill)
	assert.Empty(t, d.Contours)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	layers := buildTestLayers(3)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, layers))
	assert.Contains(t, buf.String(), `"z": 0.2`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, l := range layers {
		assert.Equal(t, NewLayerData(l), got[i])
	}
}

func TestWriteJSONNoLayers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(bytes.NewBufferString("{not json"))
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.json")
	require.NoError(t, ExportJSON(path, buildTestLayers(2)))
	assert.FileExists(t, path)

	assert.Error(t, ExportJSON(filepath.Join(t.TempDir(), "missing", "layers.json"), nil))
}
