package slicer

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/piwi3910/MeshSlicer/internal/model"
)

// Tolerance returns the endpoint merge distance for a mesh, scaled to its
// bounding-box diagonal.
func Tolerance(mesh *model.Mesh) float64 {
	return math.Max(mesh.Diagonal()*1e-6, 1e-9)
}

// nodeGrid merges segment endpoints that lie within tolerance of each
// other into shared graph nodes using a uniform hash grid.
type nodeGrid struct {
	tol   float64
	cells map[[2]int64][]int
	pts   []model.Point2D
}

func newNodeGrid(tol float64, capacity int) *nodeGrid {
	return &nodeGrid{
		tol:   tol,
		cells: make(map[[2]int64][]int, capacity),
		pts:   make([]model.Point2D, 0, capacity),
	}
}

func (g *nodeGrid) cell(p model.Point2D) [2]int64 {
	return [2]int64{int64(math.Floor(p.X / g.tol)), int64(math.Floor(p.Y / g.tol))}
}

// node returns the id of the node at p, creating one if no existing node
// is within tolerance.
func (g *nodeGrid) node(p model.Point2D) int {
	c := g.cell(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, id := range g.cells[[2]int64{c[0] + dx, c[1] + dy}] {
				if pointsClose(g.pts[id], p, g.tol) {
					return id
				}
			}
		}
	}
	id := len(g.pts)
	g.pts = append(g.pts, p)
	g.cells[c] = append(g.cells[c], id)
	return id
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return a.Dist(b) <= tolerance
}

type edge struct {
	from, to int
}

// BuildContours chains the segments of one plane cut into closed contours.
// Endpoints closer than tolerance are treated as the same point. Chains
// that cannot be closed and loops with no measurable area are dropped and
// reported in the returned warnings. Outer contours come first, then holes,
// each group ordered by start point; every hole names its innermost
// enclosing outer in Parent.
func BuildContours(segs []Segment, tolerance float64) ([]model.Contour, []string) {
	if len(segs) == 0 {
		return nil, nil
	}

	grid := newNodeGrid(tolerance, 2*len(segs))
	edges := make([]edge, 0, len(segs))
	out := make(map[int][]int)
	in := make(map[int][]int)
	for _, s := range segs {
		e := edge{from: grid.node(s.A), to: grid.node(s.B)}
		if e.from == e.to {
			continue
		}
		out[e.from] = append(out[e.from], len(edges))
		in[e.to] = append(in[e.to], len(edges))
		edges = append(edges, e)
	}

	var warnings []string
	var loops []model.Outline
	used := make([]bool, len(edges))

	for start := range edges {
		if used[start] {
			continue
		}
		used[start] = true

		origin := edges[start].from
		chain := []int{origin}
		cur := edges[start].to
		count, backward := 1, 0
		closed := cur == origin

		for !closed {
			chain = append(chain, cur)
			next, nextNode := -1, -1
			for _, e := range out[cur] {
				if !used[e] {
					next, nextNode = e, edges[e].to
					break
				}
			}
			if next < 0 {
				// Flipped facet: walk its segment backwards.
				for _, e := range in[cur] {
					if !used[e] {
						next, nextNode = e, edges[e].from
						backward++
						break
					}
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			count++
			cur = nextNode
			closed = cur == origin
		}

		if !closed {
			p := grid.pts[origin]
			warnings = append(warnings, fmt.Sprintf("dropped open chain of %d segments near (%.3f, %.3f)", count, p.X, p.Y))
			continue
		}

		// The majority of segments decides the loop direction.
		if 2*backward > count {
			slices.Reverse(chain)
		}
		loop := make(model.Outline, len(chain))
		for i, id := range chain {
			loop[i] = grid.pts[id]
		}
		if len(loop) < 3 || math.Abs(loop.SignedArea()) <= tolerance*tolerance {
			p := loop[0]
			warnings = append(warnings, fmt.Sprintf("dropped degenerate loop of %d points near (%.3f, %.3f)", len(loop), p.X, p.Y))
			continue
		}
		loops = append(loops, canonicalLoop(loop))
	}

	contours, orphans := classifyLoops(loops)
	warnings = append(warnings, orphans...)
	return contours, warnings
}

// canonicalLoop rotates the loop to start at its lexicographically smallest
// point and appends the closing point.
func canonicalLoop(o model.Outline) model.Outline {
	first := 0
	for i, p := range o {
		if p.Less(o[first]) {
			first = i
		}
	}
	out := make(model.Outline, 0, len(o)+1)
	out = append(out, o[first:]...)
	out = append(out, o[:first]...)
	return append(out, out[0])
}

// classifyLoops splits loops into outers and holes by orientation and
// assigns each hole to the smallest outer that contains it.
func classifyLoops(loops []model.Outline) ([]model.Contour, []string) {
	var outers, holes []model.Outline
	for _, l := range loops {
		if l.SignedArea() > 0 {
			outers = append(outers, l)
		} else {
			holes = append(holes, l)
		}
	}
	byStart := func(s []model.Outline) {
		sort.SliceStable(s, func(i, j int) bool { return s[i][0].Less(s[j][0]) })
	}
	byStart(outers)
	byStart(holes)

	rings := make([]orb.Ring, len(outers))
	for i, o := range outers {
		rings[i] = toRing(o)
	}

	contours := make([]model.Contour, 0, len(loops))
	for _, o := range outers {
		contours = append(contours, model.Contour{Points: o, Orientation: model.OrientationOuter, Parent: -1})
	}

	var warnings []string
	for _, h := range holes {
		// A vertex of the hole is inside its parent but outside any
		// island nested within the hole itself.
		at := orb.Point{h[0].X, h[0].Y}
		parent := -1
		best := math.Inf(1)
		for i, r := range rings {
			if !planar.RingContains(r, at) {
				continue
			}
			if a := outers[i].SignedArea(); a < best {
				best = a
				parent = i
			}
		}
		if parent < 0 {
			warnings = append(warnings, fmt.Sprintf("dropped hole at (%.3f, %.3f) with no enclosing outer contour", h[0].X, h[0].Y))
			continue
		}
		contours = append(contours, model.Contour{Points: h, Orientation: model.OrientationHole, Parent: parent})
	}
	return contours, warnings
}

func toRing(o model.Outline) orb.Ring {
	r := make(orb.Ring, len(o))
	for i, p := range o {
		r[i] = orb.Point{p.X, p.Y}
	}
	return r
}
