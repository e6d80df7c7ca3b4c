package model

import (
	"math"
	"strings"
)

// Statistics summarizes a sliced session.
type Statistics struct {
	BoundsMin      [3]float64 `json:"bounds_min"`
	BoundsMax      [3]float64 `json:"bounds_max"`
	LayerCount     int        `json:"layer_count"`
	ContourCount   int        `json:"contour_count"`
	HoleCount      int        `json:"hole_count"`
	InfillPaths    int        `json:"infill_paths"`
	WarningCount   int        `json:"warning_count"`
	FilamentLength float64    `json:"filament_length"` // mm of filament
	FilamentVolume float64    `json:"filament_volume"` // mm³
	FilamentWeight float64    `json:"filament_weight"` // grams
	PrintDistance  float64    `json:"print_distance"`  // mm
	TravelDistance float64    `json:"travel_distance"` // mm
	PrintTime      float64    `json:"print_time"`      // seconds
	Material       string     `json:"material"`
}

// materialDensity maps filament material to density in g/cm³.
var materialDensity = map[string]float64{
	"PLA":  1.24,
	"PETG": 1.27,
	"ABS":  1.04,
	"TPU":  1.21,
}

// MaterialDensity returns the density of a filament material in g/cm³,
// defaulting to PLA for unknown materials.
func MaterialDensity(material string) float64 {
	if d, ok := materialDensity[strings.ToUpper(material)]; ok {
		return d
	}
	return materialDensity["PLA"]
}

// mm3PerCm3 converts cubic millimeters to cubic centimeters.
const mm3PerCm3 = 1000.0

// CalculateStatistics derives filament usage and counts from sliced layers
// and their sequenced toolpath.
func CalculateStatistics(mesh *Mesh, layers []Layer, tp Toolpath, cfg SlicerConfig) Statistics {
	st := Statistics{
		LayerCount:     len(layers),
		FilamentLength: tp.TotalExtrusion,
		PrintDistance:  tp.PrintDistance,
		TravelDistance: tp.TravelDistance,
		PrintTime:      tp.PrintTime,
		Material:       cfg.Material,
	}
	if mesh != nil && len(mesh.Vertices) > 0 {
		b := mesh.Bounds()
		st.BoundsMin = [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
		st.BoundsMax = [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	}

	for _, l := range layers {
		for _, c := range l.Contours {
			if c.Orientation == OrientationHole {
				st.HoleCount++
			} else {
				st.ContourCount++
			}
		}
		st.InfillPaths += len(l.Infill)
		st.WarningCount += len(l.Warnings)
	}

	st.FilamentVolume = tp.TotalExtrusion * cfg.FilamentArea()
	st.FilamentWeight = roundTo(st.FilamentVolume/mm3PerCm3*MaterialDensity(cfg.Material), 2)
	return st
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
