package toolpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

func square(x0, y0, size float64, ccw bool) model.Outline {
	pts := model.Outline{{X: x0, Y: y0}, {X: x0 + size, Y: y0}, {X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size}}
	if !ccw {
		pts = model.Outline{pts[0], pts[3], pts[2], pts[1]}
	}
	return append(pts, pts[0])
}

func testLayers() []model.Layer {
	layer := func(i int, z float64) model.Layer {
		return model.Layer{
			Index:     i,
			Z:         z,
			Thickness: 0.2,
			Contours: []model.Contour{
				{Points: square(2, 2, 2, false), Orientation: model.OrientationHole, Parent: 1},
				{Points: square(0, 0, 10, true), Orientation: model.OrientationOuter, Parent: -1},
			},
			Infill: []model.InfillPath{
				{Points: model.Outline{{X: 9, Y: 5}, {X: 5, Y: 5}}},
			},
		}
	}
	return []model.Layer{layer(0, 0.2), layer(1, 0.4)}
}

func TestSequenceOrdersOutersBeforeHoles(t *testing.T) {
	tp := New(model.DefaultConfig()).Sequence(testLayers())
	require.NotEmpty(t, tp.Moves)

	first := tp.Moves[0]
	assert.Equal(t, model.MoveTravel, first.Kind)
	assert.Equal(t, 0.0, first.X, "outer contour starts at its lowest point")
	assert.Equal(t, 0.0, first.Y)
	assert.Equal(t, 0.2, first.Z)

	// outer (4 extrudes), travel to hole, hole (4 extrudes)
	assert.Equal(t, model.MoveTravel, tp.Moves[5].Kind)
	assert.Equal(t, 2.0, tp.Moves[5].X)
}

func TestSequenceExtrusionNeverDecreases(t *testing.T) {
	tp := New(model.DefaultConfig()).Sequence(testLayers())

	var last float64
	for i, m := range tp.Moves {
		assert.GreaterOrEqual(t, m.E, last, "move %d", i)
		if m.Kind == model.MoveExtrude {
			assert.Greater(t, m.E, last, "extruding move %d must add filament", i)
		} else {
			assert.Equal(t, last, m.E, "travel move %d must not extrude", i)
		}
		last = m.E
	}
	assert.Equal(t, last, tp.TotalExtrusion)
}

func TestSequenceExtrusionMatchesPrintedLength(t *testing.T) {
	cfg := model.DefaultConfig()
	tp := New(cfg).Sequence(testLayers())

	// Per layer: outer 40 + hole 8 + infill 4
	assert.InDelta(t, 104.0, tp.PrintDistance, 1e-9)
	assert.InDelta(t, 104.0*cfg.ExtrusionPerMM(0.2), tp.TotalExtrusion, 1e-9)
}

func TestSequenceReversesInfillTowardsHead(t *testing.T) {
	tp := New(model.DefaultConfig()).Sequence(testLayers()[:1])

	// Head ends the hole at (2,2); the infill end (5,5) is nearer than (9,5).
	n := len(tp.Moves)
	travel, extrude := tp.Moves[n-2], tp.Moves[n-1]
	assert.Equal(t, model.MoveTravel, travel.Kind)
	assert.Equal(t, 5.0, travel.X)
	assert.Equal(t, 9.0, extrude.X)
}

func TestSequenceTravelsAtEveryLayerChange(t *testing.T) {
	tp := New(model.DefaultConfig()).Sequence(testLayers())

	starts := tp.LayerStarts()
	require.Len(t, starts, 2)
	for layer, idx := range starts {
		assert.Equal(t, model.MoveTravel, tp.Moves[idx].Kind, "layer %d", layer)
	}
	assert.Equal(t, 0.4, tp.Moves[starts[1]].Z)
}

func TestSequenceFeedRatesInMMPerMinute(t *testing.T) {
	cfg := model.DefaultConfig()
	tp := New(cfg).Sequence(testLayers())
	for _, m := range tp.Moves {
		if m.Kind == model.MoveExtrude {
			assert.Equal(t, cfg.PrintSpeed*60, m.Feed)
		} else {
			assert.Equal(t, cfg.TravelSpeed*60, m.Feed)
		}
	}
	assert.Greater(t, tp.PrintTime, 0.0)
}

func TestSequenceEmpty(t *testing.T) {
	tp := New(model.DefaultConfig()).Sequence(nil)
	assert.Empty(t, tp.Moves)
	assert.Zero(t, tp.TotalExtrusion)
}
