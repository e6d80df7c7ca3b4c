package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutsideRange(t *testing.T) {
	assert.InDelta(t, 0.0, outsideRange(50, 200), 1e-9, "inside")
	assert.InDelta(t, 0.0, outsideRange(200, 200), 1e-9, "on the edge")
	assert.InDelta(t, 5.0, outsideRange(-5, 200), 1e-9, "below zero")
	assert.InDelta(t, 10.0, outsideRange(210, 200), 1e-9, "past the limit")
	assert.InDelta(t, 0.0, outsideRange(1e6, 0), 1e-9, "unset limit")
}

func TestCheckBuildVolume_Inside(t *testing.T) {
	cfg := model.DefaultConfig()
	assert.Empty(t, CheckBuildVolume(newTestToolpath(cfg), model.GetProfile("Generic")))
}

func TestCheckBuildVolume_ReportsOncePerLayerAndAxis(t *testing.T) {
	tp := model.Toolpath{Moves: []model.Move{
		{Layer: 0, X: 250, Y: 10, Z: 0.2},
		{Layer: 0, X: 260, Y: 10, Z: 0.2},
		{Layer: 1, X: 10, Y: -3, Z: 0.4},
		{Layer: 2, X: 10, Y: 10, Z: 205},
	}}
	profile := model.GetProfile("Generic")
	v := CheckBuildVolume(tp, profile)
	require.Len(t, v, 3)

	assert.Equal(t, "X", v[0].Axis)
	assert.InDelta(t, 50.0, v[0].Distance, 1e-9)
	assert.Equal(t, "Y", v[1].Axis)
	assert.Equal(t, 1, v[1].Layer)
	assert.Equal(t, "Z", v[2].Axis)

	warnings := FormatViolationWarnings(v, profile)
	require.Len(t, warnings, 3)
	assert.True(t, strings.HasPrefix(warnings[0], "Layer 0:"))
	assert.Contains(t, warnings[2], "Generic build volume on Z by 5.0 mm")
}
