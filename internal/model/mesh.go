package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a canonical triangle soup. Triangles index into Vertices.
type Mesh struct {
	Vertices  []r3.Vec `json:"vertices"`
	Triangles [][3]int `json:"triangles"`
}

// Validate checks that the mesh can be sliced. It does not prove the mesh is
// manifold; topology defects surface later as per-layer warnings.
func (m *Mesh) Validate() error {
	if m == nil || len(m.Vertices) == 0 {
		return fmt.Errorf("%w: mesh has no vertices", ErrMeshInvalid)
	}
	if len(m.Triangles) == 0 {
		return fmt.Errorf("%w: mesh has no triangles", ErrMeshInvalid)
	}
	for i, v := range m.Vertices {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return fmt.Errorf("%w: vertex %d has a non-finite coordinate", ErrMeshInvalid, i)
		}
	}
	n := len(m.Vertices)
	for i, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrMeshInvalid, i, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() r3.Box {
	if m == nil || len(m.Vertices) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Min.Z = math.Min(b.Min.Z, v.Z)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
		b.Max.Z = math.Max(b.Max.Z, v.Z)
	}
	return b
}

// Diagonal returns the length of the bounding box diagonal.
func (m *Mesh) Diagonal() float64 {
	b := m.Bounds()
	return r3.Norm(r3.Sub(b.Max, b.Min))
}

// Triangle returns the three corner positions of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c r3.Vec) {
	t := m.Triangles[i]
	return m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
}

// Normal returns the (unnormalized) face normal of triangle i using the
// right-hand rule on its vertex order.
func (m *Mesh) Normal(i int) r3.Vec {
	a, b, c := m.Triangle(i)
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Vertices:  make([]r3.Vec, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Triangles, m.Triangles)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
