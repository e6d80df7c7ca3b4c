// Package toolpath orders the geometry of sliced layers into a single
// stream of travel and extrusion moves.
package toolpath

import (
	"github.com/piwi3910/MeshSlicer/internal/model"
)

// path is one printable polyline with its position in the print order.
type path struct {
	points model.Outline
	infill bool
}

// Sequencer converts layers into moves for one configuration.
type Sequencer struct {
	Config model.SlicerConfig
	// Origin is where the head sits before the first move.
	Origin model.Point2D
}

// New creates a Sequencer starting at the bed origin.
func New(cfg model.SlicerConfig) *Sequencer {
	return &Sequencer{Config: cfg}
}

// Sequence walks the layers bottom to top. Within a layer outer contours
// print first, then holes, inner shells and finally infill. Infill paths
// are reversed when that shortens the travel to them. Extrusion is
// cumulative and never decreases.
func (s *Sequencer) Sequence(layers []model.Layer) model.Toolpath {
	var tp model.Toolpath

	printFeed := s.Config.PrintSpeed * 60
	travelFeed := s.Config.TravelSpeed * 60

	head := s.Origin
	var e float64

	for _, layer := range layers {
		perMM := s.Config.ExtrusionPerMM(layer.Thickness)
		newLayer := true

		for _, p := range layerPaths(layer) {
			pts := p.points
			if len(pts) < 2 {
				continue
			}
			if p.infill && head.Dist(pts[len(pts)-1]) < head.Dist(pts[0]) {
				pts = reversed(pts)
			}

			if newLayer || head != pts[0] {
				d := head.Dist(pts[0])
				tp.Moves = append(tp.Moves, model.Move{
					Kind: model.MoveTravel, Layer: layer.Index,
					X: pts[0].X, Y: pts[0].Y, Z: layer.Z, E: e, Feed: travelFeed,
				})
				tp.TravelDistance += d
				tp.PrintTime += d / s.Config.TravelSpeed
				head = pts[0]
				newLayer = false
			}

			for _, pt := range pts[1:] {
				d := head.Dist(pt)
				if d == 0 {
					continue
				}
				e += d * perMM
				tp.Moves = append(tp.Moves, model.Move{
					Kind: model.MoveExtrude, Layer: layer.Index,
					X: pt.X, Y: pt.Y, Z: layer.Z, E: e, Feed: printFeed,
				})
				tp.PrintDistance += d
				tp.PrintTime += d / s.Config.PrintSpeed
				head = pt
			}
		}
	}

	tp.TotalExtrusion = e
	return tp
}

// layerPaths lists the printable paths of a layer in print order.
func layerPaths(l model.Layer) []path {
	paths := make([]path, 0, len(l.Contours)+len(l.Perimeters)+len(l.Infill))
	for _, c := range l.Contours {
		if c.Orientation == model.OrientationOuter {
			paths = append(paths, path{points: c.Points})
		}
	}
	for _, c := range l.Contours {
		if c.Orientation == model.OrientationHole {
			paths = append(paths, path{points: c.Points})
		}
	}
	for _, shell := range l.Perimeters {
		paths = append(paths, path{points: shell})
	}
	for _, f := range l.Infill {
		paths = append(paths, path{points: f.Points, infill: true})
	}
	return paths
}

func reversed(o model.Outline) model.Outline {
	out := make(model.Outline, len(o))
	for i, p := range o {
		out[len(o)-1-i] = p
	}
	return out
}
