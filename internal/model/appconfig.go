package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default slicer settings applied to new sessions
	DefaultLayerHeight      float64 `json:"default_layer_height" yaml:"default_layer_height"`
	DefaultNozzleDiameter   float64 `json:"default_nozzle_diameter" yaml:"default_nozzle_diameter"`
	DefaultFillDensity      float64 `json:"default_fill_density" yaml:"default_fill_density"`
	DefaultFilamentDiameter float64 `json:"default_filament_diameter" yaml:"default_filament_diameter"`
	DefaultPerimeterCount   int     `json:"default_perimeter_count" yaml:"default_perimeter_count"`
	DefaultPrintSpeed       float64 `json:"default_print_speed" yaml:"default_print_speed"`
	DefaultTravelSpeed      float64 `json:"default_travel_speed" yaml:"default_travel_speed"`
	DefaultPrinterProfile   string  `json:"default_printer_profile" yaml:"default_printer_profile"`
	DefaultMaterial         string  `json:"default_material" yaml:"default_material"`

	// Application preferences
	OutputDir    string `json:"output_dir" yaml:"output_dir"`
	LogLevel     string `json:"log_level" yaml:"log_level"`         // "debug", "info", "warn", "error"
	Workers      int    `json:"workers" yaml:"workers"`             // 0 = one per CPU
	SliceTimeout string `json:"slice_timeout" yaml:"slice_timeout"` // duration string like "2m", empty = none
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultConfig().
func DefaultAppConfig() AppConfig {
	defaults := DefaultConfig()
	return AppConfig{
		DefaultLayerHeight:      defaults.LayerHeight,
		DefaultNozzleDiameter:   defaults.NozzleDiameter,
		DefaultFillDensity:      defaults.FillDensity,
		DefaultFilamentDiameter: defaults.FilamentDiameter,
		DefaultPerimeterCount:   defaults.PerimeterCount,
		DefaultPrintSpeed:       defaults.PrintSpeed,
		DefaultTravelSpeed:      defaults.TravelSpeed,
		DefaultPrinterProfile:   defaults.PrinterProfile,
		DefaultMaterial:         defaults.Material,
		OutputDir:               "output",
		LogLevel:                "info",
		Workers:                 0,
		SliceTimeout:            "",
	}
}

// ApplyToConfig copies the default values from AppConfig into a SlicerConfig.
// This is used when creating a new session so it inherits the user's saved defaults.
func (c AppConfig) ApplyToConfig(s *SlicerConfig) {
	s.LayerHeight = c.DefaultLayerHeight
	s.NozzleDiameter = c.DefaultNozzleDiameter
	s.FillDensity = c.DefaultFillDensity
	s.FilamentDiameter = c.DefaultFilamentDiameter
	s.PerimeterCount = c.DefaultPerimeterCount
	s.PrintSpeed = c.DefaultPrintSpeed
	s.TravelSpeed = c.DefaultTravelSpeed
	s.PrinterProfile = c.DefaultPrinterProfile
	s.Material = c.DefaultMaterial
}
