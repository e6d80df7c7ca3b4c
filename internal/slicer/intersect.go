package slicer

import (
	"github.com/piwi3910/MeshSlicer/internal/model"
)

// Segment is a directed 2D line segment produced by cutting one triangle.
// Segments of outward-facing triangles run counter-clockwise around material.
type Segment struct {
	A model.Point2D
	B model.Point2D
}

// IntersectPlane cuts every triangle of the mesh with the horizontal plane
// at height z and returns the resulting segments in no particular order.
func IntersectPlane(mesh *model.Mesh, z float64) []Segment {
	var segs []Segment
	for i := range mesh.Triangles {
		if seg, ok := intersectTriangle(mesh, i, z); ok {
			segs = append(segs, seg)
		}
	}
	return segs
}

// intersectTriangles is IntersectPlane restricted to a candidate subset.
func intersectTriangles(mesh *model.Mesh, tris []int, z float64) []Segment {
	segs := make([]Segment, 0, len(tris))
	for _, i := range tris {
		if seg, ok := intersectTriangle(mesh, i, z); ok {
			segs = append(segs, seg)
		}
	}
	return segs
}

// intersectTriangle returns the segment where triangle i crosses plane z.
// A vertex lying exactly on the plane counts as above it, so a triangle
// touching the plane with one vertex or one edge never duplicates the
// contribution of its neighbour, and coplanar triangles contribute nothing.
func intersectTriangle(mesh *model.Mesh, i int, z float64) (Segment, bool) {
	idx := mesh.Triangles[i]

	var above [3]bool
	nAbove := 0
	for k, vi := range idx {
		if mesh.Vertices[vi].Z-z >= 0 {
			above[k] = true
			nAbove++
		}
	}
	if nAbove == 0 || nAbove == 3 {
		return Segment{}, false
	}

	var pts [2]model.Point2D
	n := 0
	for k := 0; k < 3; k++ {
		next := (k + 1) % 3
		if above[k] == above[next] {
			continue
		}
		pts[n] = edgePoint(mesh, idx[k], idx[next], z)
		n++
	}
	if n != 2 || pts[0] == pts[1] {
		return Segment{}, false
	}

	// Orient along ẑ × normal so material lies to the left.
	normal := mesh.Normal(i)
	dx, dy := pts[1].X-pts[0].X, pts[1].Y-pts[0].Y
	if dx*(-normal.Y)+dy*normal.X < 0 {
		pts[0], pts[1] = pts[1], pts[0]
	}
	return Segment{A: pts[0], B: pts[1]}, true
}

// edgePoint interpolates the crossing of edge (a, b) with plane z. The
// interpolation always starts from the lower vertex index so the two
// triangles sharing an edge produce bit-identical points.
func edgePoint(mesh *model.Mesh, a, b int, z float64) model.Point2D {
	if b < a {
		a, b = b, a
	}
	va, vb := mesh.Vertices[a], mesh.Vertices[b]
	t := (z - va.Z) / (vb.Z - va.Z)
	return model.Point2D{
		X: va.X + t*(vb.X-va.X),
		Y: va.Y + t*(vb.Y-va.Y),
	}
}
