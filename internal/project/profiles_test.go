package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

func testProfile(name string) model.PrinterProfile {
	p := model.GetProfile("Marlin")
	p.Name = name
	p.Description = "Test profile " + name
	p.IsBuiltIn = true
	p.BedWidth = 300
	return p
}

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	profiles := []model.PrinterProfile{testProfile("Big Ender"), testProfile("Voron")}
	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[1].Name != "Voron" || loaded[1].BedWidth != 300 {
		t.Errorf("unexpected profile %+v", loaded[1])
	}
	for _, p := range loaded {
		if p.IsBuiltIn {
			t.Errorf("loaded profile %s should not be built-in", p.Name)
		}
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", profiles)
	}
}

func TestLoadCustomProfilesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := LoadCustomProfiles(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestInstallCustomProfiles(t *testing.T) {
	t.Cleanup(func() { model.CustomProfiles = nil })

	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := SaveCustomProfiles(path, []model.PrinterProfile{testProfile("Voron"), testProfile("Marlin")}); err != nil {
		t.Fatal(err)
	}

	skipped, err := InstallCustomProfiles(path)
	if err != nil {
		t.Fatalf("InstallCustomProfiles failed: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "Marlin" {
		t.Errorf("expected built-in name to be skipped, got %v", skipped)
	}
	if got := model.GetProfile("Voron"); got.BedWidth != 300 {
		t.Errorf("custom profile not installed, got %+v", got)
	}
	if got := model.GetProfile("Marlin"); got.BedWidth == 300 {
		t.Error("built-in Marlin profile was overridden")
	}
}

func TestExportImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voron.json")
	if err := ExportProfile(path, testProfile("Voron")); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}

	p, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if p.Name != "Voron" || p.IsBuiltIn {
		t.Errorf("unexpected imported profile %+v", p)
	}
}

func TestImportProfileNoName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.json")
	os.WriteFile(path, []byte(`{"description": "nameless"}`), 0644)
	if _, err := ImportProfile(path); err == nil {
		t.Error("expected error for profile without a name")
	}
}
