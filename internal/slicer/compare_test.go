package slicer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultConfig()
	scenarios := BuildDefaultScenarios(base)

	require.NotEmpty(t, scenarios)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, base, scenarios[0].Config)

	names := map[string]bool{}
	for _, s := range scenarios {
		names[s.Name] = true
		assert.NoError(t, s.Config.Validate(), s.Name)
	}
	assert.True(t, names["Solid Infill"])
	assert.True(t, names["No Infill"])
	assert.True(t, names["2 Perimeters"])
	assert.True(t, names["Layers 0.10mm (half)"])
	assert.True(t, names["Draft 0.30mm"])
}

func TestBuildDefaultScenariosSkipsNoOps(t *testing.T) {
	base := model.DefaultConfig()
	base.FillDensity = 1
	base.LayerHeight = 0.1

	for _, s := range BuildDefaultScenarios(base) {
		assert.NotEqual(t, "Solid Infill", s.Name)
		assert.NotContains(t, s.Name, "(half)")
	}
}

func TestCompareScenarios(t *testing.T) {
	base := model.DefaultConfig()
	solid := base
	solid.FillDensity = 1
	bad := base
	bad.LayerHeight = -1

	results, err := CompareScenarios(context.Background(), cube(10), []ComparisonScenario{
		{Name: "base", Config: base},
		{Name: "solid", Config: solid},
		{Name: "broken", Config: bad},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "base", results[0].Scenario.Name)
	assert.Equal(t, 50, results[0].Statistics.LayerCount)
	assert.Greater(t, results[1].Statistics.FilamentLength, results[0].Statistics.FilamentLength)
	assert.ErrorIs(t, results[2].Err, model.ErrConfigInvalid)
	assert.Zero(t, results[2].Statistics.LayerCount)
}

func TestCompareScenariosCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompareScenarios(ctx, cube(10), BuildDefaultScenarios(model.DefaultConfig()))
	assert.ErrorIs(t, err, context.Canceled)
}
