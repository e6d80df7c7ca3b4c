package model

// MoveKind distinguishes extruding moves from travel moves.
type MoveKind int

const (
	MoveTravel  MoveKind = iota // Non-extruding repositioning
	MoveExtrude                 // Extruding print move
)

func (k MoveKind) String() string {
	if k == MoveExtrude {
		return "extrude"
	}
	return "travel"
}

// Move is a single straight-line head motion. E is the cumulative filament
// position after the move.
type Move struct {
	Kind  MoveKind `json:"kind"`
	Layer int      `json:"layer"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Z     float64  `json:"z"`
	E     float64  `json:"e"`
	Feed  float64  `json:"feed"` // mm/min
}

// Toolpath is the ordered program for a whole session.
type Toolpath struct {
	Moves          []Move  `json:"moves"`
	TotalExtrusion float64 `json:"total_extrusion"` // mm of filament
	PrintDistance  float64 `json:"print_distance"`  // mm of extruding motion
	TravelDistance float64 `json:"travel_distance"` // mm of travel motion
	PrintTime      float64 `json:"print_time"`      // seconds, from feed rates
}

// LayerStarts returns the index of the first move of each layer.
func (t Toolpath) LayerStarts() map[int]int {
	starts := make(map[int]int)
	for i, m := range t.Moves {
		if _, ok := starts[m.Layer]; !ok {
			starts[m.Layer] = i
		}
	}
	return starts
}
