package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// addConfigFlags registers the slicer settings shared by slice and compare.
func addConfigFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()
	f := cmd.Flags()
	f.Float64("layer-height", defaults.LayerHeight, "Layer height in mm")
	f.Float64("nozzle", defaults.NozzleDiameter, "Nozzle diameter in mm")
	f.Float64("density", defaults.FillDensity, "Infill density in [0,1]")
	f.Int("perimeters", defaults.PerimeterCount, "Number of perimeter shells")
	f.Float64("filament-diameter", defaults.FilamentDiameter, "Filament diameter in mm")
	f.Float64("print-speed", defaults.PrintSpeed, "Print speed in mm/s")
	f.Float64("travel-speed", defaults.TravelSpeed, "Travel speed in mm/s")
	f.String("profile", defaults.PrinterProfile, "Printer profile name")
	f.String("material", defaults.Material, "Filament material for weight estimates")
	f.Int("workers", 0, "Layers sliced in parallel (0 = one per CPU)")
	f.Duration("timeout", 0, "Abort slicing after this long (0 = no limit)")
}

// resolveConfig starts from the application config defaults and applies
// every flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) model.SlicerConfig {
	cfg := model.DefaultConfig()
	appConfig.ApplyToConfig(&cfg)

	f := cmd.Flags()
	floats := map[string]*float64{
		"layer-height":      &cfg.LayerHeight,
		"nozzle":            &cfg.NozzleDiameter,
		"density":           &cfg.FillDensity,
		"filament-diameter": &cfg.FilamentDiameter,
		"print-speed":       &cfg.PrintSpeed,
		"travel-speed":      &cfg.TravelSpeed,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	if f.Changed("perimeters") {
		cfg.PerimeterCount, _ = f.GetInt("perimeters")
	}
	if f.Changed("profile") {
		cfg.PrinterProfile, _ = f.GetString("profile")
	}
	if f.Changed("material") {
		cfg.Material, _ = f.GetString("material")
	}
	return cfg
}

// runLimits returns the worker count and timeout, flags over config.
func runLimits(cmd *cobra.Command) (int, time.Duration, error) {
	workers := appConfig.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	var timeout time.Duration
	if appConfig.SliceTimeout != "" {
		d, err := time.ParseDuration(appConfig.SliceTimeout)
		if err != nil {
			return 0, 0, err
		}
		timeout = d
	}
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	return workers, timeout, nil
}
