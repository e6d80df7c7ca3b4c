package session

// State is the lifecycle position of a session.
type State int

const (
	StateCreated  State = iota // Config accepted, no mesh yet
	StateLoaded                // Mesh loaded, ready to slice
	StateSliced                // Layers and toolpath available
	StateExported              // At least one export written; still queryable
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoaded:
		return "loaded"
	case StateSliced:
		return "sliced"
	case StateExported:
		return "exported"
	default:
		return "unknown"
	}
}

// hasLayers reports whether layer queries and exports are allowed.
func (s State) hasLayers() bool {
	return s == StateSliced || s == StateExported
}

// Status is a point-in-time view of a session.
type Status struct {
	ID          string `json:"id"`
	State       State  `json:"state"`
	Busy        bool   `json:"busy"`
	LayersDone  int    `json:"layers_done"`
	LayersTotal int    `json:"layers_total"`
}
