package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// Colors shared by the layer plot, the PDF report and the DXF layers.
var (
	outerColor     = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	holeColor      = color.RGBA{R: 244, G: 67, B: 54, A: 255}
	perimeterColor = color.RGBA{R: 76, G: 175, B: 80, A: 255}
	infillColor    = color.RGBA{R: 33, G: 150, B: 243, A: 255}
)

// plotSize is the edge length of square layer plots.
const plotSize = 6 * vg.Inch

// LayerPlot builds a top-down plot of one layer: contours, inner shells
// and infill drawn with equal axis scaling.
func LayerPlot(l model.Layer) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Layer %d (z = %.3f mm)", l.Index, l.Z)
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"

	for _, f := range l.Infill {
		if err := addPolyline(p, f.Points, infillColor, 0.5); err != nil {
			return nil, err
		}
	}
	for _, s := range l.Perimeters {
		if err := addPolyline(p, s, perimeterColor, 0.75); err != nil {
			return nil, err
		}
	}
	for _, c := range l.Contours {
		col := outerColor
		if c.Orientation == model.OrientationHole {
			col = holeColor
		}
		if err := addPolyline(p, c.Points, col, 1); err != nil {
			return nil, err
		}
	}

	equalizeAxes(p)
	return p, nil
}

func addPolyline(p *plot.Plot, o model.Outline, col color.Color, width float64) error {
	if len(o) < 2 {
		return nil
	}
	pts := make(plotter.XYs, len(o))
	for i, pt := range o {
		pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = col
	line.Width = vg.Points(width)
	p.Add(line)
	return nil
}

// equalizeAxes widens the shorter axis so one millimetre has the same
// length on both.
func equalizeAxes(p *plot.Plot) {
	w := p.X.Max - p.X.Min
	h := p.Y.Max - p.Y.Min
	switch {
	case w > h:
		mid := (p.Y.Min + p.Y.Max) / 2
		p.Y.Min, p.Y.Max = mid-w/2, mid+w/2
	case h > w:
		mid := (p.X.Min + p.X.Max) / 2
		p.X.Min, p.X.Max = mid-h/2, mid+h/2
	}
}

// SaveLayerPlot writes the layer plot to path. The image format follows
// the file extension (png, svg, pdf, ...).
func SaveLayerPlot(path string, l model.Layer) error {
	p, err := LayerPlot(l)
	if err != nil {
		return err
	}
	return p.Save(plotSize, plotSize, path)
}

// WriteLayerPNG renders the layer plot as PNG to w.
func WriteLayerPNG(w io.Writer, l model.Layer) error {
	p, err := LayerPlot(l)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotSize, plotSize, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// AreaProfilePNG renders net cross-section area against layer height.
func AreaProfilePNG(layers []model.Layer) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Cross-section area by height"
	p.X.Label.Text = "Z (mm)"
	p.Y.Label.Text = "Area (mm²)"

	pts := make(plotter.XYs, len(layers))
	for i, l := range layers {
		pts[i] = plotter.XY{X: l.Z, Y: l.Area()}
	}
	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = infillColor
		line.Width = vg.Points(1)
		p.Add(line)
	}

	wt, err := p.WriterTo(8*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
