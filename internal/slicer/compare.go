package slicer

import (
	"context"
	"fmt"

	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/toolpath"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name   string
	Config model.SlicerConfig
}

// ComparisonResult holds the statistics for a single scenario. Err is set
// when the scenario's configuration is invalid; other fields are then zero.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Statistics model.Statistics
	Warnings   int
	Err        error
}

// CompareScenarios slices the mesh once per scenario and returns the
// results in scenario order. This shows what changing layer height, fill
// density or perimeter count costs in filament and time.
func CompareScenarios(ctx context.Context, mesh *model.Mesh, scenarios []ComparisonScenario, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res := ComparisonResult{Scenario: scenario}
		if err := scenario.Config.Validate(); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		layers, err := New(scenario.Config, opts...).Slice(ctx, mesh, nil)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		tp := toolpath.New(scenario.Config).Sequence(layers)
		res.Statistics = model.CalculateStatistics(mesh, layers, tp, scenario.Config)
		res.Warnings = res.Statistics.WarningCount

		results = append(results, res)
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.SlicerConfig) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Config: base,
		},
	}

	// Scenario: Finer layers
	if base.LayerHeight > 0.1 {
		fine := base
		fine.LayerHeight = base.LayerHeight / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Layers %.2fmm (half)", fine.LayerHeight),
			Config: fine,
		})
	}

	// Scenario: Draft layers, capped at 75% of the nozzle
	if draftHeight := base.NozzleDiameter * 0.75; base.LayerHeight < draftHeight {
		draft := base
		draft.LayerHeight = draftHeight
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Draft %.2fmm", draft.LayerHeight),
			Config: draft,
		})
	}

	// Scenario: Solid infill
	if base.FillDensity < 1 {
		solid := base
		solid.FillDensity = 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Solid Infill",
			Config: solid,
		})
	}

	// Scenario: Hollow shell
	if base.FillDensity > 0 {
		hollow := base
		hollow.FillDensity = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Infill",
			Config: hollow,
		})
	}

	// Scenario: One more perimeter
	stronger := base
	stronger.PerimeterCount = base.PerimeterCount + 1
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("%d Perimeters", stronger.PerimeterCount),
		Config: stronger,
	})

	return scenarios
}
