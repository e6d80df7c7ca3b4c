package export

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

func TestExportLayerDXFRoundTrip(t *testing.T) {
	l := buildTestLayers(1)[0]
	path := filepath.Join(t.TempDir(), "layer.dxf")
	require.NoError(t, ExportLayerDXF(path, l))

	outlines, warnings, err := ReadDXFOutlines(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	want := len(l.Contours) + len(l.Perimeters) + len(l.Infill)
	require.Len(t, outlines, want)

	// Contours are written first, outer then hole.
	assert.InDelta(t, 400.0, outlines[0].SignedArea(), 1e-6)
	assert.InDelta(t, -36.0, outlines[1].SignedArea(), 1e-6)
}

func TestReadDXFOutlinesMissingFile(t *testing.T) {
	_, _, err := ReadDXFOutlines(filepath.Join(t.TempDir(), "nope.dxf"))
	assert.Error(t, err)
}

func TestChainSegments(t *testing.T) {
	p := func(x, y float64) model.Point2D { return model.Point2D{X: x, Y: y} }
	segs := []segment{
		{p(0, 0), p(2, 0)},
		{p(2, 2), p(2, 0.005)}, // reversed and slightly off
		{p(0, 2), p(0, 0)},
		{p(2, 2), p(0, 2)},
		{p(10, 10), p(11, 10)}, // too short to chain
	}
	outlines := chainSegments(segs, chainTolerance)
	require.Len(t, outlines, 1)
	assert.InDelta(t, 4.0, math.Abs(outlines[0].SignedArea()), 0.02)
}

func TestBulgeArcPoints(t *testing.T) {
	// A bulge of 1 is a half circle.
	pts := bulgeArcPoints(model.Point2D{X: 0, Y: 0}, model.Point2D{X: 2, Y: 0}, 1, 16)
	require.Len(t, pts, 17)
	for _, q := range pts {
		assert.InDelta(t, 1.0, q.Dist(model.Point2D{X: 1, Y: 0}), 1e-9)
	}
	assert.InDelta(t, -1.0, pts[8].Y, 1e-9, "counter-clockwise from the left end passes below the chord")
}
