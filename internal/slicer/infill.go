package slicer

import (
	"math"
	"sort"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// InfillSpacing returns the distance between scan lines for a region of
// the given width. Density 1 packs lines one nozzle apart; low densities
// never spread lines wider than the region itself. The result is never
// below the nozzle diameter, even for regions narrower than the nozzle.
func InfillSpacing(cfg model.SlicerConfig, width float64) float64 {
	if cfg.FillDensity <= 0 || width <= 0 {
		return 0
	}
	spacing := cfg.NozzleDiameter / math.Max(cfg.FillDensity, cfg.NozzleDiameter/width)
	return math.Max(spacing, cfg.NozzleDiameter)
}

// span is the material interval [a, b] on one scan line.
type span struct {
	a, b float64
	used bool
}

type scanRow struct {
	y     float64
	spans []span
}

// GenerateInfill fills the region bounded by the layer contours with
// horizontal scan lines and links overlapping spans on consecutive lines
// into zig-zag paths. Spans are inset from the boundary so fill lines do
// not overlap the perimeters.
func GenerateInfill(contours []model.Contour, cfg model.SlicerConfig) []model.InfillPath {
	if cfg.FillDensity <= 0 || len(contours) == 0 {
		return nil
	}

	min, max := contours[0].Points.BoundingBox()
	for _, c := range contours[1:] {
		lo, hi := c.Points.BoundingBox()
		min.X, min.Y = math.Min(min.X, lo.X), math.Min(min.Y, lo.Y)
		max.X, max.Y = math.Max(max.X, hi.X), math.Max(max.Y, hi.Y)
	}

	spacing := InfillSpacing(cfg, max.X-min.X)
	if spacing <= 0 {
		return nil
	}
	inset := cfg.NozzleDiameter * (float64(cfg.PerimeterCount) - 0.5)

	var rows []scanRow
	for k := 0; ; k++ {
		y := min.Y + spacing*(float64(k)+0.5)
		if y >= max.Y {
			break
		}
		xs := scanCrossings(contours, y)
		row := scanRow{y: y}
		for i := 0; i+1 < len(xs); i += 2 {
			a, b := xs[i]+inset, xs[i+1]-inset
			if b-a > 1e-9 {
				row.spans = append(row.spans, span{a: a, b: b})
			}
		}
		if len(row.spans) > 0 {
			rows = append(rows, row)
		}
	}
	return linkRows(rows, spacing, contours)
}

// scanCrossings returns the sorted X coordinates where the horizontal line
// at y crosses any contour edge. Edges use a half-open rule in Y so a
// vertex on the line is counted once.
func scanCrossings(contours []model.Contour, y float64) []float64 {
	var xs []float64
	for _, c := range contours {
		pts := c.Points
		for i := 0; i+1 < len(pts); i++ {
			p, q := pts[i], pts[i+1]
			if (p.Y <= y && q.Y > y) || (q.Y <= y && p.Y > y) {
				xs = append(xs, p.X+(y-p.Y)/(q.Y-p.Y)*(q.X-p.X))
			}
		}
	}
	sort.Float64s(xs)
	return xs
}

// linkRows chains spans into boustrophedon paths. A span continues the
// current path when it lies on the next scan line, overlaps the span just
// printed and the connector between them crosses no contour edge. Otherwise
// the path ends and the sequencer travels to the next one.
func linkRows(rows []scanRow, spacing float64, contours []model.Contour) []model.InfillPath {
	var paths []model.InfillPath
	for r := range rows {
		for s := range rows[r].spans {
			if rows[r].spans[s].used {
				continue
			}
			var pts model.Outline
			forward := true
			cr, cs := r, s
			for {
				sp := &rows[cr].spans[cs]
				sp.used = true
				y := rows[cr].y
				if forward {
					pts = append(pts, model.Point2D{X: sp.a, Y: y}, model.Point2D{X: sp.b, Y: y})
				} else {
					pts = append(pts, model.Point2D{X: sp.b, Y: y}, model.Point2D{X: sp.a, Y: y})
				}

				if cr+1 >= len(rows) || rows[cr+1].y-y > spacing*1.5 {
					break
				}
				from := pts[len(pts)-1]
				next := -1
				for k, nsp := range rows[cr+1].spans {
					if nsp.used || nsp.a >= sp.b || sp.a >= nsp.b {
						continue
					}
					to := model.Point2D{X: nsp.b, Y: rows[cr+1].y}
					if !forward {
						to.X = nsp.a
					}
					if !crossesContours(contours, from, to) {
						next = k
						break
					}
				}
				if next < 0 {
					break
				}
				cr, cs = cr+1, next
				forward = !forward
			}
			paths = append(paths, model.InfillPath{Points: pts})
		}
	}
	return paths
}

// crossesContours reports whether segment pq touches any contour edge.
func crossesContours(contours []model.Contour, p, q model.Point2D) bool {
	for _, c := range contours {
		pts := c.Points
		for i := 0; i+1 < len(pts); i++ {
			if segmentsIntersect(p, q, pts[i], pts[i+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 model.Point2D) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) || (d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) || (d4 == 0 && onSegment(p1, p2, q2))
}

// cross is the z component of (b-a) x (c-a).
func cross(a, b, c model.Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p model.Point2D) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
