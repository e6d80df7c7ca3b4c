package slicer

import (
	"math"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// minMiter bounds the miter scale at sharp corners so spikes stay finite.
const minMiter = 0.25

// Shells returns the inner perimeter loops of a layer. Contour k gets
// shells at k*nozzle for k in 1..count-1; a shell that collapses or turns
// inside out is skipped together with every deeper shell of that contour.
func Shells(contours []model.Contour, nozzle float64, count int) []model.Outline {
	if count <= 1 {
		return nil
	}
	var shells []model.Outline
	for _, c := range contours {
		ring := openRing(c.Points)
		if len(ring) < 3 {
			continue
		}
		sign := math.Copysign(1, ring.SignedArea())
		for k := 1; k < count; k++ {
			shell := offsetOutline(ring, float64(k)*nozzle)
			a := shell.SignedArea()
			if math.Copysign(1, a) != sign || math.Abs(a) < nozzle*nozzle {
				break
			}
			if c.Orientation == model.OrientationOuter && math.Abs(a) >= math.Abs(ring.SignedArea()) {
				break
			}
			shells = append(shells, append(shell, shell[0]))
		}
	}
	return shells
}

// openRing drops the closing point of an explicitly closed outline.
func openRing(o model.Outline) model.Outline {
	n := len(o)
	if n > 1 && o[0] == o[n-1] {
		return o[:n-1]
	}
	return o
}

// offsetOutline shifts each vertex of an open ring to the left of the
// direction of travel by dist. Left is into the material for both
// counter-clockwise outers and clockwise holes.
func offsetOutline(outline model.Outline, dist float64) model.Outline {
	n := len(outline)
	if n < 3 {
		return outline.Clone()
	}

	result := make(model.Outline, n)
	for i := 0; i < n; i++ {
		prev := outline[(i-1+n)%n]
		curr := outline[i]
		next := outline[(i+1)%n]

		// Edge vectors
		e1x := curr.X - prev.X
		e1y := curr.Y - prev.Y
		e2x := next.X - curr.X
		e2y := next.Y - curr.Y

		// Left normals
		n1x, n1y := normalize(-e1y, e1x)
		n2x, n2y := normalize(-e2y, e2x)

		// Average normal, stretched so both edges move by dist
		nx := (n1x + n2x) / 2
		ny := (n1y + n2y) / 2
		nx, ny = normalize(nx, ny)
		scale := math.Max(nx*n1x+ny*n1y, minMiter)

		result[i] = model.Point2D{
			X: curr.X + nx*dist/scale,
			Y: curr.Y + ny*dist/scale,
		}
	}
	return result
}

// normalize returns a unit vector in the given direction.
func normalize(x, y float64) (float64, float64) {
	length := math.Sqrt(x*x + y*y)
	if length < 1e-9 {
		return 0, 0
	}
	return x / length, y / length
}
