package model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCalculateStatisticsBasic(t *testing.T) {
	cfg := DefaultConfig()
	mesh := &Mesh{
		Vertices:  []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 0, Y: 10, Z: 5}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	layers := []Layer{
		{
			Contours: []Contour{
				{Orientation: OrientationOuter, Parent: -1},
				{Orientation: OrientationHole, Parent: 0},
			},
			Infill:   []InfillPath{{}, {}},
			Warnings: []string{"dangling"},
		},
		{Contours: []Contour{{Orientation: OrientationOuter, Parent: -1}}},
	}
	tp := Toolpath{TotalExtrusion: 1000, PrintDistance: 500, TravelDistance: 50, PrintTime: 12}

	st := CalculateStatistics(mesh, layers, tp, cfg)

	if st.LayerCount != 2 {
		t.Errorf("expected 2 layers, got %d", st.LayerCount)
	}
	if st.ContourCount != 2 || st.HoleCount != 1 {
		t.Errorf("expected 2 outers and 1 hole, got %d and %d", st.ContourCount, st.HoleCount)
	}
	if st.InfillPaths != 2 {
		t.Errorf("expected 2 infill paths, got %d", st.InfillPaths)
	}
	if st.WarningCount != 1 {
		t.Errorf("expected 1 warning, got %d", st.WarningCount)
	}
	if st.BoundsMax != [3]float64{10, 10, 5} {
		t.Errorf("unexpected bounds max %v", st.BoundsMax)
	}

	expectedVolume := 1000 * cfg.FilamentArea()
	if math.Abs(st.FilamentVolume-expectedVolume) > 1e-9 {
		t.Errorf("expected volume %.3f, got %.3f", expectedVolume, st.FilamentVolume)
	}
	expectedWeight := math.Round(expectedVolume/1000*1.24*100) / 100
	if st.FilamentWeight != expectedWeight {
		t.Errorf("expected weight %.2f g, got %.2f g", expectedWeight, st.FilamentWeight)
	}
}

func TestCalculateStatisticsNilMesh(t *testing.T) {
	st := CalculateStatistics(nil, nil, Toolpath{}, DefaultConfig())
	if st.LayerCount != 0 || st.FilamentWeight != 0 {
		t.Errorf("expected zero statistics, got %+v", st)
	}
}

func TestMaterialDensity(t *testing.T) {
	if MaterialDensity("petg") != 1.27 {
		t.Errorf("expected case-insensitive PETG lookup")
	}
	if MaterialDensity("unobtainium") != 1.24 {
		t.Errorf("expected PLA fallback for unknown material")
	}
}
