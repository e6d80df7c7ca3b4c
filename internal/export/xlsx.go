package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/slicer"
)

const (
	summarySheet    = "Summary"
	layersSheet     = "Layers"
	comparisonSheet = "Comparison"
)

// Workbook is the content of an XLSX slicing export.
type Workbook struct {
	Config      model.SlicerConfig
	Stats       model.Statistics
	Layers      []model.Layer
	Comparisons []slicer.ComparisonResult // Optional; adds a Comparison sheet
}

// ExportXLSX writes the workbook to path.
func ExportXLSX(path string, wb Workbook) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteXLSX(out, wb); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteXLSX renders a Summary sheet, a per-layer Layers sheet and, when
// comparisons are present, a Comparison sheet.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummarySheet(f, bold, wb); err != nil {
		return err
	}

	if _, err := f.NewSheet(layersSheet); err != nil {
		return err
	}
	if err := writeLayersSheet(f, bold, wb.Layers); err != nil {
		return err
	}

	if len(wb.Comparisons) > 0 {
		if _, err := f.NewSheet(comparisonSheet); err != nil {
			return err
		}
		if err := writeComparisonSheet(f, bold, wb.Comparisons); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, bold int, wb Workbook) error {
	st, cfg := wb.Stats, wb.Config
	rows := [][]interface{}{
		{"Property", "Value"},
		{"Layer height (mm)", cfg.LayerHeight},
		{"Nozzle diameter (mm)", cfg.NozzleDiameter},
		{"Fill density", cfg.FillDensity},
		{"Fill pattern", string(cfg.FillPattern)},
		{"Perimeters", cfg.PerimeterCount},
		{"Printer profile", cfg.PrinterProfile},
		{"Material", st.Material},
		{"Layers", st.LayerCount},
		{"Outer contours", st.ContourCount},
		{"Holes", st.HoleCount},
		{"Infill paths", st.InfillPaths},
		{"Warnings", st.WarningCount},
		{"Filament length (mm)", st.FilamentLength},
		{"Filament volume (mm³)", st.FilamentVolume},
		{"Filament weight (g)", st.FilamentWeight},
		{"Print distance (mm)", st.PrintDistance},
		{"Travel distance (mm)", st.TravelDistance},
		{"Print time (s)", st.PrintTime},
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 28)
}

func writeLayersSheet(f *excelize.File, bold int, layers []model.Layer) error {
	rows := make([][]interface{}, 0, len(layers)+1)
	rows = append(rows, []interface{}{"Index", "Z (mm)", "Thickness (mm)", "Outers", "Holes", "Area (mm²)", "Perimeters", "Infill paths", "Warnings"})
	for _, l := range layers {
		rows = append(rows, []interface{}{
			l.Index, l.Z, l.Thickness,
			len(l.Outers()), len(l.Holes()), l.Area(),
			len(l.Perimeters), len(l.Infill), len(l.Warnings),
		})
	}
	if err := writeRows(f, layersSheet, rows); err != nil {
		return err
	}
	return f.SetCellStyle(layersSheet, "A1", "I1", bold)
}

func writeComparisonSheet(f *excelize.File, bold int, results []slicer.ComparisonResult) error {
	rows := [][]interface{}{
		{"Scenario", "Layer height (mm)", "Fill density", "Perimeters", "Layers", "Filament (mm)", "Weight (g)", "Time (s)", "Warnings", "Error"},
	}
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		cfg, st := r.Scenario.Config, r.Statistics
		rows = append(rows, []interface{}{
			r.Scenario.Name, cfg.LayerHeight, cfg.FillDensity, cfg.PerimeterCount,
			st.LayerCount, st.FilamentLength, st.FilamentWeight, st.PrintTime,
			r.Warnings, errText,
		})
	}
	if err := writeRows(f, comparisonSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(comparisonSheet, "A1", "J1", bold); err != nil {
		return err
	}
	return f.SetColWidth(comparisonSheet, "A", "A", 24)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
