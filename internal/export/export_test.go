package export

import (
	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/slicer"
)

func square(x0, y0, size float64, hole bool) model.Contour {
	pts := model.Outline{
		{X: x0, Y: y0}, {X: x0 + size, Y: y0}, {X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size}, {X: x0, Y: y0},
	}
	c := model.Contour{Points: pts, Orientation: model.OrientationOuter, Parent: -1}
	if hole {
		c.Points = model.Outline{
			{X: x0, Y: y0}, {X: x0, Y: y0 + size}, {X: x0 + size, Y: y0 + size}, {X: x0 + size, Y: y0}, {X: x0, Y: y0},
		}
		c.Orientation = model.OrientationHole
		c.Parent = 0
	}
	return c
}

// buildTestLayers returns a small stack of 20mm plates with a 6mm hole.
func buildTestLayers(n int) []model.Layer {
	cfg := model.DefaultConfig()
	cfg.PerimeterCount = 2
	layers := make([]model.Layer, n)
	for i := range layers {
		contours := []model.Contour{square(0, 0, 20, false), square(7, 7, 6, true)}
		layers[i] = model.Layer{
			Index:      i,
			Z:          float64(i+1) * cfg.LayerHeight,
			SliceZ:     (float64(i) + 0.5) * cfg.LayerHeight,
			Thickness:  cfg.LayerHeight,
			Contours:   contours,
			Perimeters: slicer.Shells(contours, cfg.NozzleDiameter, cfg.PerimeterCount),
			Infill:     slicer.GenerateInfill(contours, cfg),
		}
	}
	layers[n-1].Warnings = []string{"dropped open chain of 2 segments near (1.000, 2.000)"}
	return layers
}
