// Package export writes sliced layers to files: the JSON layer export,
// a PDF report, an XLSX workbook, DXF outlines and PNG plots.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	qrSize       = 40.0
)

// defaultSampleLayers bounds how many layer pages a report contains.
const defaultSampleLayers = 6

// Report is the content of a PDF slicing report.
type Report struct {
	Title    string
	Config   model.SlicerConfig
	Stats    model.Statistics
	Layers   []model.Layer
	Warnings []string
	// SampleLayers is the number of evenly spaced layers drawn on their own
	// page. Zero means the default; negative disables layer pages.
	SampleLayers int
}

// jobSummary is encoded into the report's QR code.
type jobSummary struct {
	Title    string  `json:"title"`
	Profile  string  `json:"profile"`
	Material string  `json:"material"`
	Layers   int     `json:"layers"`
	Height   float64 `json:"layer_height"`
	Filament float64 `json:"filament_mm"`
	Weight   float64 `json:"weight_g"`
	Time     float64 `json:"time_s"`
}

// ExportPDF writes the report to path.
func ExportPDF(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WritePDF(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders the report: a summary page with statistics, a QR-coded
// job summary and an area profile, followed by one page per sampled layer.
func WritePDF(w io.Writer, r Report) error {
	if len(r.Layers) == 0 {
		return fmt.Errorf("no layers to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, r); err != nil {
		return err
	}

	for _, idx := range sampleIndices(len(r.Layers), r.SampleLayers) {
		pdf.AddPage()
		renderLayerPage(pdf, r.Layers[idx])
	}

	return pdf.Output(w)
}

// sampleIndices picks up to n evenly spaced indices from [0, total).
func sampleIndices(total, n int) []int {
	if n == 0 {
		n = defaultSampleLayers
	}
	if n < 0 || total == 0 {
		return nil
	}
	if n >= total {
		n = total
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		idx := 0
		if n > 1 {
			idx = int(math.Round(float64(i) * float64(total-1) / float64(n-1)))
		}
		if len(out) == 0 || out[len(out)-1] != idx {
			out = append(out, idx)
		}
	}
	return out
}

// renderSummaryPage draws the first page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, r Report) error {
	title := r.Title
	if title == "" {
		title = "Slicing Report"
	}

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight-qrSize, 10, title, "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight-qrSize-5, marginTop+12)

	if err := drawJobQR(pdf, r); err != nil {
		return err
	}

	st := r.Stats
	y := marginTop + 18
	y = drawTable(pdf, y, "Print Statistics", []tableRow{
		{"Layers", fmt.Sprintf("%d", st.LayerCount)},
		{"Outer contours / holes", fmt.Sprintf("%d / %d", st.ContourCount, st.HoleCount)},
		{"Infill paths", fmt.Sprintf("%d", st.InfillPaths)},
		{"Filament length", fmt.Sprintf("%.1f mm", st.FilamentLength)},
		{"Filament weight", fmt.Sprintf("%.2f g %s", st.FilamentWeight, st.Material)},
		{"Print / travel distance", fmt.Sprintf("%.0f / %.0f mm", st.PrintDistance, st.TravelDistance)},
		{"Estimated time", formatDuration(st.PrintTime)},
		{"Bounds", fmt.Sprintf("%.1f x %.1f x %.1f mm",
			st.BoundsMax[0]-st.BoundsMin[0], st.BoundsMax[1]-st.BoundsMin[1], st.BoundsMax[2]-st.BoundsMin[2])},
	})

	cfg := r.Config
	y = drawTable(pdf, y+4, "Settings", []tableRow{
		{"Layer height", fmt.Sprintf("%.3f mm", cfg.LayerHeight)},
		{"Nozzle diameter", fmt.Sprintf("%.2f mm", cfg.NozzleDiameter)},
		{"Fill", fmt.Sprintf("%.0f%% %s", cfg.FillDensity*100, cfg.FillPattern)},
		{"Perimeters", fmt.Sprintf("%d", cfg.PerimeterCount)},
		{"Speeds (print / travel)", fmt.Sprintf("%.0f / %.0f mm/s", cfg.PrintSpeed, cfg.TravelSpeed)},
		{"Printer profile", cfg.PrinterProfile},
	})

	// Area profile chart
	chart, err := AreaProfilePNG(r.Layers)
	if err != nil {
		return fmt.Errorf("rendering area profile: %w", err)
	}
	pdf.RegisterImageOptionsReader("area_profile", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(chart))
	chartW := pageWidth - marginLeft - marginRight
	pdf.ImageOptions("area_profile", marginLeft, y+4, chartW, chartW*3/8, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	y += 8 + chartW*3/8

	if len(r.Warnings) > 0 {
		drawWarnings(pdf, y, r.Warnings)
	}
	return pdf.Error()
}

func drawJobQR(pdf *fpdf.Fpdf, r Report) error {
	qrData, err := json.Marshal(jobSummary{
		Title:    r.Title,
		Profile:  r.Config.PrinterProfile,
		Material: r.Stats.Material,
		Layers:   r.Stats.LayerCount,
		Height:   r.Config.LayerHeight,
		Filament: math.Round(r.Stats.FilamentLength*10) / 10,
		Weight:   r.Stats.FilamentWeight,
		Time:     math.Round(r.Stats.PrintTime),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal job summary: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf.RegisterImageOptionsReader("job_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("job_qr", pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

type tableRow struct {
	label string
	value string
}

// drawTable renders a heading and two-column rows, returning the next free Y.
func drawTable(pdf *fpdf.Fpdf, y float64, heading string, rows []tableRow) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, row.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 6, row.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}
	return y
}

func drawWarnings(pdf *fpdf.Fpdf, y float64, warnings []string) {
	const maxShown = 12

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(180, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, fmt.Sprintf("Warnings (%d)", len(warnings)), "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 8)
	for i, w := range warnings {
		if i == maxShown || y > pageHeight-marginBottom-4 {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(0, 4, fmt.Sprintf("... and %d more", len(warnings)-i), "", 0, "L", false, 0, "")
			break
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(0, 4, w, "", 0, "L", false, 0, "")
		y += 4
	}
	pdf.SetTextColor(0, 0, 0)
}

// renderLayerPage draws one layer scaled to fit the page.
func renderLayerPage(pdf *fpdf.Fpdf, l model.Layer) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Layer %d: z = %.3f mm", l.Index, l.Z)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Outers: %d | Holes: %d | Infill paths: %d | Area: %.1f mm² | Warnings: %d",
		len(l.Outers()), len(l.Holes()), len(l.Infill), l.Area(), len(l.Warnings))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	if len(l.Contours) == 0 {
		return
	}

	min, max := layerBounds(l)
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/math.Max(max.X-min.X, 1e-9), drawHeight/math.Max(max.Y-min.Y, 1e-9))

	canvasW := (max.X - min.X) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2

	// Page Y grows downwards; flip so the plot matches the bed view.
	toPage := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.X-min.X)*scale, drawAreaTop + (max.Y-p.Y)*scale
	}
	drawPath := func(o model.Outline, col color.RGBA, width float64) {
		pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
		pdf.SetLineWidth(width)
		for i := 1; i < len(o); i++ {
			x1, y1 := toPage(o[i-1])
			x2, y2 := toPage(o[i])
			pdf.Line(x1, y1, x2, y2)
		}
	}

	for _, f := range l.Infill {
		drawPath(f.Points, infillColor, 0.15)
	}
	for _, s := range l.Perimeters {
		drawPath(s, perimeterColor, 0.25)
	}
	for _, c := range l.Contours {
		col := outerColor
		if c.Orientation == model.OrientationHole {
			col = holeColor
		}
		drawPath(c.Points, col, 0.4)
	}
}

func layerBounds(l model.Layer) (min, max model.Point2D) {
	min, max = l.Contours[0].Points.BoundingBox()
	for _, c := range l.Contours[1:] {
		lo, hi := c.Points.BoundingBox()
		min.X, min.Y = math.Min(min.X, lo.X), math.Min(min.Y, lo.Y)
		max.X, max.Y = math.Max(max.X, hi.X), math.Max(max.Y, hi.Y)
	}
	return min, max
}

// formatDuration renders seconds as h:mm:ss.
func formatDuration(seconds float64) string {
	s := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d:%02d", s/3600, (s/60)%60, s%60)
}
