package model

import "testing"

func TestDefaultAppConfigMatchesDefaultConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultConfig()

	if cfg.DefaultLayerHeight != defaults.LayerHeight {
		t.Errorf("LayerHeight mismatch: config=%f defaults=%f", cfg.DefaultLayerHeight, defaults.LayerHeight)
	}
	if cfg.DefaultNozzleDiameter != defaults.NozzleDiameter {
		t.Errorf("NozzleDiameter mismatch: config=%f defaults=%f", cfg.DefaultNozzleDiameter, defaults.NozzleDiameter)
	}
	if cfg.DefaultFillDensity != defaults.FillDensity {
		t.Errorf("FillDensity mismatch: config=%f defaults=%f", cfg.DefaultFillDensity, defaults.FillDensity)
	}
	if cfg.DefaultPrinterProfile != defaults.PrinterProfile {
		t.Errorf("PrinterProfile mismatch: config=%s defaults=%s", cfg.DefaultPrinterProfile, defaults.PrinterProfile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultLayerHeight = 0.3
	cfg.DefaultFillDensity = 0.5
	cfg.DefaultPrinterProfile = "Marlin"

	s := DefaultConfig()
	cfg.ApplyToConfig(&s)

	if s.LayerHeight != 0.3 {
		t.Errorf("expected LayerHeight=0.3, got %f", s.LayerHeight)
	}
	if s.FillDensity != 0.5 {
		t.Errorf("expected FillDensity=0.5, got %f", s.FillDensity)
	}
	if s.PrinterProfile != "Marlin" {
		t.Errorf("expected PrinterProfile=Marlin, got %s", s.PrinterProfile)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("applied defaults should validate: %v", err)
	}
}
