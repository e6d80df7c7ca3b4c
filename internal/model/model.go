package model

import "math"

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Less orders points lexicographically by X, then Y.
func (p Point2D) Less(q Point2D) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Dist returns the Euclidean distance between two points.
func (p Point2D) Dist(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Outline represents a polygon as a sequence of 2D points.
// Contour outlines are stored explicitly closed (last point equals the first).
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// SignedArea computes the polygon area using the shoelace formula.
// Counter-clockwise outlines have a positive area.
func (o Outline) SignedArea() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return area / 2
}

// Length returns the total length of the polyline through all points.
func (o Outline) Length() float64 {
	var total float64
	for i := 1; i < len(o); i++ {
		total += o[i-1].Dist(o[i])
	}
	return total
}

// Clone returns a copy that shares no memory with the receiver.
func (o Outline) Clone() Outline {
	if o == nil {
		return nil
	}
	out := make(Outline, len(o))
	copy(out, o)
	return out
}

// Orientation tags a contour as enclosing material or a void.
type Orientation int

const (
	OrientationOuter Orientation = iota // Positive signed area, encloses material
	OrientationHole                     // Negative signed area, encloses a void
)

func (o Orientation) String() string {
	if o == OrientationHole {
		return "hole"
	}
	return "outer"
}

// Contour is a closed boundary of solid material at one layer height.
type Contour struct {
	Points      Outline     `json:"points"`
	Orientation Orientation `json:"orientation"`
	Parent      int         `json:"parent"` // Index of the enclosing outer contour for holes, -1 for outers
}

// Area returns the absolute enclosed area.
func (c Contour) Area() float64 {
	return math.Abs(c.Points.SignedArea())
}

// IsClosed reports whether the first and last points coincide.
func (c Contour) IsClosed() bool {
	n := len(c.Points)
	return n >= 4 && c.Points[0] == c.Points[n-1]
}

// InfillPath is one continuous fill path within a layer.
type InfillPath struct {
	Points Outline `json:"points"`
	Closed bool    `json:"closed"`
}

// Layer holds the sliced geometry for one layer.
type Layer struct {
	Index      int          `json:"index"`
	Z          float64      `json:"z"`       // Bed-relative top of the layer (mm)
	SliceZ     float64      `json:"slice_z"` // Mesh-space plane height used for intersection
	Thickness  float64      `json:"thickness"`
	Contours   []Contour    `json:"contours"`
	Perimeters []Outline    `json:"perimeters,omitempty"` // Inner shells when PerimeterCount > 1
	Infill     []InfillPath `json:"infill"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// Outers returns the outer contours of the layer.
func (l Layer) Outers() []Contour {
	var out []Contour
	for _, c := range l.Contours {
		if c.Orientation == OrientationOuter {
			out = append(out, c)
		}
	}
	return out
}

// Holes returns the hole contours of the layer.
func (l Layer) Holes() []Contour {
	var out []Contour
	for _, c := range l.Contours {
		if c.Orientation == OrientationHole {
			out = append(out, c)
		}
	}
	return out
}

// Area returns the net material area (outers minus holes).
func (l Layer) Area() float64 {
	var total float64
	for _, c := range l.Contours {
		total += c.Points.SignedArea()
	}
	return total
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	out := l
	if l.Contours != nil {
		out.Contours = make([]Contour, len(l.Contours))
		for i, c := range l.Contours {
			c.Points = c.Points.Clone()
			out.Contours[i] = c
		}
	}
	if l.Perimeters != nil {
		out.Perimeters = make([]Outline, len(l.Perimeters))
		for i, p := range l.Perimeters {
			out.Perimeters[i] = p.Clone()
		}
	}
	if l.Infill != nil {
		out.Infill = make([]InfillPath, len(l.Infill))
		for i, p := range l.Infill {
			p.Points = p.Points.Clone()
			out.Infill[i] = p
		}
	}
	if l.Warnings != nil {
		out.Warnings = append([]string(nil), l.Warnings...)
	}
	return out
}
