package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// DXF layer names used for each kind of layer geometry.
const (
	DXFLayerOuter     = "OUTER"
	DXFLayerHole      = "HOLE"
	DXFLayerPerimeter = "PERIMETER"
	DXFLayerInfill    = "INFILL"
)

// chainTolerance is the endpoint gap bridged when chaining loose LINE and
// ARC entities on import.
const chainTolerance = 0.01

// ExportLayerDXF writes one layer as LWPOLYLINE entities, one DXF layer per
// geometry kind. Closed outlines keep their repeated closing vertex.
func ExportLayerDXF(path string, l model.Layer) error {
	d := dxf.NewDrawing()

	groups := []struct {
		name  string
		color color.ColorNumber
		paths []model.Outline
	}{
		{DXFLayerOuter, color.White, outlinesOf(l.Outers())},
		{DXFLayerHole, color.Red, outlinesOf(l.Holes())},
		{DXFLayerPerimeter, color.Green, l.Perimeters},
		{DXFLayerInfill, color.Blue, infillOutlines(l.Infill)},
	}

	for _, g := range groups {
		if _, err := d.AddLayer(g.name, g.color, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("adding DXF layer %s: %w", g.name, err)
		}
		if err := d.ChangeLayer(g.name); err != nil {
			return err
		}
		for _, path := range g.paths {
			if len(path) < 2 {
				continue
			}
			lwp := entity.NewLwPolyline(len(path))
			for j, p := range path {
				lwp.Vertices[j] = []float64{p.X, p.Y}
			}
			d.AddEntity(lwp)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func outlinesOf(contours []model.Contour) []model.Outline {
	out := make([]model.Outline, len(contours))
	for i, c := range contours {
		out[i] = c.Points
	}
	return out
}

func infillOutlines(paths []model.InfillPath) []model.Outline {
	out := make([]model.Outline, len(paths))
	for i, p := range paths {
		out[i] = p.Points
	}
	return out
}

// segment is a loose line piece awaiting chaining.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// ReadDXFOutlines reads the polylines of a DXF file back as outlines.
// LWPOLYLINE and CIRCLE entities become outlines directly; LINE and ARC
// entities are chained end to end. Unsupported entities are skipped.
func ReadDXFOutlines(path string) ([]model.Outline, []string, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open DXF file: %w", err)
	}

	var (
		outlines []model.Outline
		segments []segment
		warnings []string
	)
	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 2 {
				outlines = append(outlines, outline)
			} else {
				warnings = append(warnings, "skipped LWPOLYLINE with fewer than 2 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			for i := 1; i < len(pts); i++ {
				segments = append(segments, segment{start: pts[i-1], end: pts[i]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, chainTolerance)...)
	return outlines, warnings, nil
}

// lwPolylineToOutline converts an LWPOLYLINE, interpolating bulged
// vertices as arcs.
func lwPolylineToOutline(lw *entity.LwPolyline) model.Outline {
	var outline model.Outline
	for i, v := range lw.Vertices {
		current := model.Point2D{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) > 1e-9 && i+1 < len(lw.Vertices) {
			next := model.Point2D{X: lw.Vertices[i+1][0], Y: lw.Vertices[i+1][1]}
			arc := bulgeArcPoints(current, next, bulge, 32)
			outline = append(outline, arc[:len(arc)-1]...)
			continue
		}
		outline = append(outline, current)
	}
	return outline
}

// bulgeArcPoints samples the arc between two vertices. The bulge is the
// tangent of a quarter of the included angle; positive bulges run
// counter-clockwise.
func bulgeArcPoints(p1, p2 model.Point2D, bulge float64, n int) model.Outline {
	chord := p1.Dist(p2)
	if chord < 1e-9 {
		return model.Outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	perpX, perpY := -(p2.Y-p1.Y)/chord, (p2.X-p1.X)/chord
	if bulge < 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx, cy := mx+perpX*dist, my+perpY*dist

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	} else if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make(model.Outline, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts[i] = model.Point2D{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

// circleToOutline approximates a circle as a closed regular polygon.
func circleToOutline(c *entity.Circle, n int) model.Outline {
	outline := make(model.Outline, n+1)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		outline[i] = model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	outline[n] = outline[0]
	return outline
}

func arcToPoints(a *entity.Arc, n int) []model.Point2D {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	pts := make([]model.Point2D, n+1)
	for i := 0; i <= n; i++ {
		t := start + float64(i)/float64(n)*(end-start)
		pts[i] = model.Point2D{X: cx + r*math.Cos(t), Y: cy + r*math.Sin(t)}
	}
	return pts
}

// chainSegments joins segments whose endpoints lie within tolerance.
// Chains come back largest area first.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	used := make([]bool, len(segs))
	var outlines []model.Outline

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		used[startIdx] = true
		chain := model.Outline{segs[startIdx].start, segs[startIdx].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, s := range segs {
				if used[i] {
					continue
				}
				switch {
				case tail.Dist(s.start) <= tolerance:
					chain = append(chain, s.end)
				case tail.Dist(s.end) <= tolerance:
					chain = append(chain, s.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return math.Abs(outlines[i].SignedArea()) > math.Abs(outlines[j].SignedArea())
	})
	return outlines
}
