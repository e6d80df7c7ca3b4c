package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

func buildTestReport() Report {
	layers := buildTestLayers(10)
	return Report{
		Title:  "Plate",
		Config: model.DefaultConfig(),
		Stats: model.Statistics{
			LayerCount:     len(layers),
			ContourCount:   len(layers),
			HoleCount:      len(layers),
			FilamentLength: 812.4,
			FilamentWeight: 2.4,
			PrintTime:      3725,
			Material:       "PLA",
			BoundsMax:      [3]float64{20, 20, 2},
		},
		Layers:   layers,
		Warnings: layers[len(layers)-1].Warnings,
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, buildTestReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, ExportPDF(path, buildTestReport()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWritePDFNoLayers(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePDF(&buf, Report{Title: "empty"}))
}

func TestSampleIndices(t *testing.T) {
	assert.Equal(t, []int{0, 2, 5, 7, 9}, sampleIndices(10, 5))
	assert.Equal(t, []int{0, 1, 2}, sampleIndices(3, 0))
	assert.Equal(t, []int{0}, sampleIndices(1, 4))
	assert.Nil(t, sampleIndices(10, -1))
	assert.Nil(t, sampleIndices(0, 3))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1:02:05", formatDuration(3725))
	assert.Equal(t, "0:00:00", formatDuration(0))
}
