package model

import (
	"fmt"
	"math"
	"strings"
)

// FillPattern selects the infill strategy.
type FillPattern string

const (
	FillRectilinear FillPattern = "rectilinear" // Horizontal boustrophedon scan lines
)

// SlicerConfig holds the validated slicing parameters for one session.
type SlicerConfig struct {
	LayerHeight      float64     `json:"layer_height" yaml:"layer_height"`           // mm
	NozzleDiameter   float64     `json:"nozzle_diameter" yaml:"nozzle_diameter"`     // mm
	FillDensity      float64     `json:"fill_density" yaml:"fill_density"`           // 0..1
	FillPattern      FillPattern `json:"fill_pattern" yaml:"fill_pattern"`           // rectilinear
	FilamentDiameter float64     `json:"filament_diameter" yaml:"filament_diameter"` // mm
	PerimeterCount   int         `json:"perimeter_count" yaml:"perimeter_count"`     // Loops per contour, 1 = contour only
	PrintSpeed       float64     `json:"print_speed" yaml:"print_speed"`             // mm/s
	TravelSpeed      float64     `json:"travel_speed" yaml:"travel_speed"`           // mm/s
	PrinterProfile   string      `json:"printer_profile" yaml:"printer_profile"`     // Name from PrinterProfiles
	Material         string      `json:"material" yaml:"material"`                   // Filament material, used for weight estimates
}

// DefaultConfig returns the baseline slicing parameters.
func DefaultConfig() SlicerConfig {
	return SlicerConfig{
		LayerHeight:      0.2,
		NozzleDiameter:   0.4,
		FillDensity:      0.2,
		FillPattern:      FillRectilinear,
		FilamentDiameter: 1.75,
		PerimeterCount:   1,
		PrintSpeed:       50,
		TravelSpeed:      150,
		PrinterProfile:   "Generic",
		Material:         "PLA",
	}
}

// Validate rejects out-of-range parameters. Values are never clamped.
func (c SlicerConfig) Validate() error {
	var problems []string
	positive := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be > 0, got %v", name, v))
		}
	}

	positive("layer_height", c.LayerHeight)
	positive("nozzle_diameter", c.NozzleDiameter)
	positive("filament_diameter", c.FilamentDiameter)
	positive("print_speed", c.PrintSpeed)
	positive("travel_speed", c.TravelSpeed)

	if math.IsNaN(c.FillDensity) || c.FillDensity < 0 || c.FillDensity > 1 {
		problems = append(problems, fmt.Sprintf("fill_density must be in [0,1], got %v", c.FillDensity))
	}
	if c.FillPattern != FillRectilinear {
		problems = append(problems, fmt.Sprintf("fill_pattern %q is not supported", c.FillPattern))
	}
	if c.PerimeterCount < 1 {
		problems = append(problems, fmt.Sprintf("perimeter_count must be >= 1, got %d", c.PerimeterCount))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// FilamentArea returns the cross-section area of the filament in mm².
func (c SlicerConfig) FilamentArea() float64 {
	r := c.FilamentDiameter / 2
	return math.Pi * r * r
}

// ExtrusionPerMM returns the filament length consumed per mm of extruded
// path at the given layer thickness.
func (c SlicerConfig) ExtrusionPerMM(thickness float64) float64 {
	return thickness * c.NozzleDiameter / c.FilamentArea()
}
