package model

// PrinterProfile defines the G-code dialect and machine limits for one
// printer firmware family.
type PrinterProfile struct {
	Name        string `json:"name"`        // Profile name
	Description string `json:"description"` // Profile description
	IsBuiltIn   bool   `json:"is_built_in"` // Built-in profiles cannot be overwritten

	// Startup codes
	StartCode  []string `json:"start_code"`  // Commands at start of file
	HeatNozzle string   `json:"heat_nozzle"` // Nozzle heat-and-wait command (e.g., "M109 S%d")
	HeatBed    string   `json:"heat_bed"`    // Bed heat-and-wait command (e.g., "M190 S%d")
	NozzleTemp int      `json:"nozzle_temp"` // °C
	BedTemp    int      `json:"bed_temp"`    // °C

	// Motion settings
	AbsoluteExtrusion string `json:"absolute_extrusion"` // M82 or equivalent
	ResetExtrusion    string `json:"reset_extrusion"`    // G92 E0 or equivalent
	RapidMove         string `json:"rapid_move"`         // G0 or equivalent
	FeedMove          string `json:"feed_move"`          // G1 or equivalent

	// End codes
	EndCode []string `json:"end_code"` // Commands at end of file

	// Comment style
	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	// Number formatting
	DecimalPlaces          int `json:"decimal_places"`           // Coordinates
	ExtrusionDecimalPlaces int `json:"extrusion_decimal_places"` // E values

	// Build volume (mm)
	BedWidth  float64 `json:"bed_width"`
	BedDepth  float64 `json:"bed_depth"`
	MaxHeight float64 `json:"max_height"`
}

// Built-in printer profiles
var PrinterProfiles = []PrinterProfile{
	{
		Name:                   "Marlin",
		Description:            "Marlin firmware (Prusa, Ender and most RepRap derivatives)",
		IsBuiltIn:              true,
		StartCode:              []string{"G21", "G90", "G28"},
		HeatNozzle:             "M109 S%d",
		HeatBed:                "M190 S%d",
		NozzleTemp:             210,
		BedTemp:                60,
		AbsoluteExtrusion:      "M82",
		ResetExtrusion:         "G92 E0",
		RapidMove:              "G0",
		FeedMove:               "G1",
		EndCode:                []string{"M104 S0", "M140 S0", "G28 X0", "M84"},
		CommentPrefix:          ";",
		DecimalPlaces:          3,
		ExtrusionDecimalPlaces: 5,
		BedWidth:               220,
		BedDepth:               220,
		MaxHeight:              250,
	},
	{
		Name:                   "Klipper",
		Description:            "Klipper firmware with PRINT_START / PRINT_END macros",
		IsBuiltIn:              true,
		StartCode:              []string{"G21", "G90", "PRINT_START"},
		HeatNozzle:             "M109 S%d",
		HeatBed:                "M190 S%d",
		NozzleTemp:             215,
		BedTemp:                60,
		AbsoluteExtrusion:      "M82",
		ResetExtrusion:         "G92 E0",
		RapidMove:              "G0",
		FeedMove:               "G1",
		EndCode:                []string{"PRINT_END"},
		CommentPrefix:          ";",
		DecimalPlaces:          3,
		ExtrusionDecimalPlaces: 5,
		BedWidth:               235,
		BedDepth:               235,
		MaxHeight:              250,
	},
	{
		Name:                   "RepRap",
		Description:            "RepRapFirmware (Duet boards)",
		IsBuiltIn:              true,
		StartCode:              []string{"G21", "G90", "G28"},
		HeatNozzle:             "M109 S%d",
		HeatBed:                "M190 S%d",
		NozzleTemp:             210,
		BedTemp:                60,
		AbsoluteExtrusion:      "M82",
		ResetExtrusion:         "G92 E0",
		RapidMove:              "G0",
		FeedMove:               "G1",
		EndCode:                []string{"M104 S0", "M140 S0", "M0"},
		CommentPrefix:          ";",
		DecimalPlaces:          4,
		ExtrusionDecimalPlaces: 5,
		BedWidth:               300,
		BedDepth:               300,
		MaxHeight:              300,
	},
	{
		Name:                   "Generic",
		Description:            "Generic FDM G-code",
		IsBuiltIn:              true,
		StartCode:              []string{"G21", "G90"},
		HeatNozzle:             "M109 S%d",
		HeatBed:                "M190 S%d",
		NozzleTemp:             200,
		BedTemp:                60,
		AbsoluteExtrusion:      "M82",
		ResetExtrusion:         "G92 E0",
		RapidMove:              "G0",
		FeedMove:               "G1",
		EndCode:                []string{"M104 S0", "M140 S0", "M84"},
		CommentPrefix:          ";",
		DecimalPlaces:          3,
		ExtrusionDecimalPlaces: 5,
		BedWidth:               200,
		BedDepth:               200,
		MaxHeight:              200,
	},
}

// CustomProfiles holds user-defined profiles loaded from disk.
var CustomProfiles []PrinterProfile

// AllProfiles returns built-in profiles followed by custom ones.
func AllProfiles() []PrinterProfile {
	all := make([]PrinterProfile, 0, len(PrinterProfiles)+len(CustomProfiles))
	all = append(all, PrinterProfiles...)
	all = append(all, CustomProfiles...)
	return all
}

// GetProfile returns a printer profile by name, or the Generic profile if not found.
func GetProfile(name string) PrinterProfile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return PrinterProfiles[len(PrinterProfiles)-1] // Return Generic (last one)
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range AllProfiles() {
		names = append(names, p.Name)
	}
	return names
}
