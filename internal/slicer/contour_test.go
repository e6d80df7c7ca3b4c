package slicer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// ring returns the segments of a closed polygon in the given order.
func ring(pts ...model.Point2D) []Segment {
	segs := make([]Segment, len(pts))
	for i := range pts {
		segs[i] = Segment{A: pts[i], B: pts[(i+1)%len(pts)]}
	}
	return segs
}

func squareSegs(x0, y0, size float64, ccw bool) []Segment {
	a := model.Point2D{X: x0, Y: y0}
	b := model.Point2D{X: x0 + size, Y: y0}
	c := model.Point2D{X: x0 + size, Y: y0 + size}
	d := model.Point2D{X: x0, Y: y0 + size}
	if ccw {
		return ring(a, b, c, d)
	}
	return ring(a, d, c, b)
}

func TestBuildContoursShuffledSegments(t *testing.T) {
	segs := squareSegs(1, 1, 5, true)
	rand.New(rand.NewSource(7)).Shuffle(len(segs), func(i, j int) { segs[i], segs[j] = segs[j], segs[i] })

	contours, warnings := BuildContours(segs, 1e-6)
	assert.Empty(t, warnings)
	require.Len(t, contours, 1)
	assert.Equal(t, model.Outline{{X: 1, Y: 1}, {X: 6, Y: 1}, {X: 6, Y: 6}, {X: 1, Y: 6}, {X: 1, Y: 1}}, contours[0].Points)
}

func TestBuildContoursMergesNearbyEndpoints(t *testing.T) {
	segs := []Segment{
		{A: model.Point2D{X: 0, Y: 0}, B: model.Point2D{X: 4, Y: 0}},
		{A: model.Point2D{X: 4, Y: 1e-8}, B: model.Point2D{X: 4, Y: 4}},
		{A: model.Point2D{X: 4, Y: 4}, B: model.Point2D{X: 0, Y: 4}},
		{A: model.Point2D{X: -1e-8, Y: 4}, B: model.Point2D{X: 0, Y: 0}},
	}
	contours, warnings := BuildContours(segs, 1e-6)
	assert.Empty(t, warnings)
	require.Len(t, contours, 1)
	assert.InDelta(t, 16.0, contours[0].Area(), 1e-6)
}

func TestBuildContoursIslandInsideHole(t *testing.T) {
	var segs []Segment
	segs = append(segs, squareSegs(4, 4, 2, true)...)   // island
	segs = append(segs, squareSegs(3, 3, 4, false)...)  // hole
	segs = append(segs, squareSegs(0, 0, 10, true)...)  // body
	segs = append(segs, squareSegs(20, 0, 5, true)...)  // separate part
	segs = append(segs, squareSegs(21, 1, 1, false)...) // hole in separate part

	contours, warnings := BuildContours(segs, 1e-6)
	assert.Empty(t, warnings)
	require.Len(t, contours, 5)

	// Outers sorted by start point, then holes.
	assert.Equal(t, model.Point2D{X: 0, Y: 0}, contours[0].Points[0])
	assert.Equal(t, model.Point2D{X: 4, Y: 4}, contours[1].Points[0])
	assert.Equal(t, model.Point2D{X: 20, Y: 0}, contours[2].Points[0])

	assert.Equal(t, model.OrientationHole, contours[3].Orientation)
	assert.Equal(t, model.Point2D{X: 3, Y: 3}, contours[3].Points[0])
	assert.Equal(t, 0, contours[3].Parent, "hole belongs to the body, not the island inside it")

	assert.Equal(t, model.Point2D{X: 21, Y: 1}, contours[4].Points[0])
	assert.Equal(t, 2, contours[4].Parent)
}

func TestBuildContoursOrphanHole(t *testing.T) {
	contours, warnings := BuildContours(squareSegs(0, 0, 1, false), 1e-6)
	assert.Empty(t, contours)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no enclosing outer")
}

func TestBuildContoursOpenChain(t *testing.T) {
	segs := squareSegs(0, 0, 1, true)[:3]
	contours, warnings := BuildContours(segs, 1e-6)
	assert.Empty(t, contours)
	assert.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "open chain")
}

func TestBuildContoursDegenerateLoop(t *testing.T) {
	a, b := model.Point2D{X: 0, Y: 0}, model.Point2D{X: 1, Y: 0}
	contours, warnings := BuildContours([]Segment{{A: a, B: b}, {A: b, B: a}}, 1e-6)
	assert.Empty(t, contours)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "degenerate")
}

func TestBuildContoursEmpty(t *testing.T) {
	contours, warnings := BuildContours(nil, 1e-6)
	assert.Nil(t, contours)
	assert.Nil(t, warnings)
}

func TestIntersectPlaneVertexOnPlane(t *testing.T) {
	// The top ring lies exactly on z=10. Vertices on the plane count as
	// above it, so each wall contributes its edge once.
	segs := IntersectPlane(cube(10), 10)
	assert.Len(t, segs, 4)
	contours, warnings := BuildContours(segs, 1e-6)
	assert.Empty(t, warnings)
	require.Len(t, contours, 1)
	assert.InDelta(t, 100.0, contours[0].Area(), 1e-9)

	// On the bottom ring every vertex is on or above the plane.
	assert.Empty(t, IntersectPlane(cube(10), 0))
}
