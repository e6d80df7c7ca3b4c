package gcode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/toolpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, size float64) model.Outline {
	return model.Outline{
		{X: x0, Y: y0}, {X: x0 + size, Y: y0}, {X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size}, {X: x0, Y: y0},
	}
}

// newTestToolpath sequences two square layers with a single infill line each.
func newTestToolpath(cfg model.SlicerConfig) model.Toolpath {
	var layers []model.Layer
	for i := 0; i < 2; i++ {
		layers = append(layers, model.Layer{
			Index:     i,
			Z:         float64(i+1) * cfg.LayerHeight,
			Thickness: cfg.LayerHeight,
			Contours:  []model.Contour{{Points: square(10, 10, 20), Orientation: model.OrientationOuter, Parent: -1}},
			Infill:    []model.InfillPath{{Points: model.Outline{{X: 11, Y: 20}, {X: 29, Y: 20}}}},
		})
	}
	return toolpath.New(cfg).Sequence(layers)
}

func TestGenerate_HeaderAndFooter(t *testing.T) {
	cfg := model.DefaultConfig()
	code := New(cfg).Generate(newTestToolpath(cfg))

	if !strings.HasPrefix(code, "; MeshSlicer G-code\n") {
		t.Errorf("expected header comment, got %q", code[:40])
	}
	for _, want := range []string{"G21\n", "G90\n", "M190 S60\n", "M109 S200\n", "M82\n", "G92 E0\n", "; Profile: Generic\n"} {
		if !strings.Contains(code, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if !strings.HasSuffix(code, "M84\n") {
		t.Errorf("expected program to end with the profile end code")
	}
	if strings.Index(code, "M82") > strings.Index(code, "G1 ") {
		t.Errorf("absolute extrusion must be set before the first extruding move")
	}
}

func TestGenerate_LayerMarkers(t *testing.T) {
	cfg := model.DefaultConfig()
	code := New(cfg).Generate(newTestToolpath(cfg))

	assert.Equal(t, 1, strings.Count(code, ";LAYER:0\n"))
	assert.Equal(t, 1, strings.Count(code, ";LAYER:1\n"))
	assert.Less(t, strings.Index(code, ";LAYER:0"), strings.Index(code, ";LAYER:1"))
}

func TestGenerate_MoveFormat(t *testing.T) {
	cfg := model.DefaultConfig()
	code := New(cfg).Generate(newTestToolpath(cfg))

	assert.Contains(t, code, "G0 X10.000 Y10.000 Z0.200 F9000\n")
	assert.Contains(t, code, "G1 X30.000 Y10.000 Z0.200 E0.66520 F3000\n")
}

func TestGenerate_ExtrusionIsMonotonic(t *testing.T) {
	cfg := model.DefaultConfig()
	tp := newTestToolpath(cfg)
	moves := ParseGCode(New(cfg).Generate(tp))
	require.NotEmpty(t, moves)

	last := 0.0
	extruding := 0
	for i, m := range moves {
		if m.ToE < last {
			t.Fatalf("move %d: E went backwards from %.5f to %.5f", i, last, m.ToE)
		}
		if m.Type == MoveExtrude {
			extruding++
		}
		last = m.ToE
	}
	assert.Equal(t, 0, Summarize(moves).Retractions)
	assert.InDelta(t, tp.TotalExtrusion, last, 1e-5)

	var want int
	for _, m := range tp.Moves {
		if m.Kind == model.MoveExtrude {
			want++
		}
	}
	assert.Equal(t, want, extruding)
}

func TestGenerate_RoundTripsGeometry(t *testing.T) {
	cfg := model.DefaultConfig()
	tp := newTestToolpath(cfg)
	moves := ParseGCode(New(cfg).Generate(tp))
	require.Len(t, moves, len(tp.Moves))

	for i, m := range moves {
		assert.InDelta(t, tp.Moves[i].X, m.ToX, 1e-3)
		assert.InDelta(t, tp.Moves[i].Y, m.ToY, 1e-3)
		assert.InDelta(t, tp.Moves[i].Z, m.ToZ, 1e-3)
		assert.Equal(t, tp.Moves[i].Layer, m.Layer)
	}
}

func TestGenerate_ProfileDecimalPlaces(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PrinterProfile = "RepRap"
	code := New(cfg).Generate(newTestToolpath(cfg))
	assert.Contains(t, code, "G0 X10.0000 Y10.0000 Z0.2000")
	assert.Contains(t, code, "M0\n")
}

func TestGenerate_CustomCommentStyle(t *testing.T) {
	model.CustomProfiles = []model.PrinterProfile{{
		Name:          "Parens",
		RapidMove:     "G0",
		FeedMove:      "G1",
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 2,
	}}
	defer func() { model.CustomProfiles = nil }()

	cfg := model.DefaultConfig()
	cfg.PrinterProfile = "Parens"
	code := New(cfg).Generate(newTestToolpath(cfg))

	assert.Contains(t, code, "( MeshSlicer G-code)\n")
	assert.Contains(t, code, "(LAYER:1)\n")
	assert.NotContains(t, code, "M82")

	moves := ParseGCode(code)
	assert.Equal(t, 1, moves[len(moves)-1].Layer)
}

func TestGenerate_EmptyToolpath(t *testing.T) {
	code := New(model.DefaultConfig()).Generate(model.Toolpath{})
	assert.Contains(t, code, "; Layers: 0")
	assert.Empty(t, ParseGCode(code))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_PropagatesWriterErrors(t *testing.T) {
	cfg := model.DefaultConfig()
	err := New(cfg).Write(failingWriter{}, newTestToolpath(cfg))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(cfg).Write(&buf, newTestToolpath(cfg)))
	assert.Equal(t, New(cfg).Generate(newTestToolpath(cfg)), buf.String())
}
