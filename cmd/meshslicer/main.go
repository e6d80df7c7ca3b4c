// MeshSlicer: slices triangle meshes into printable layers and G-code.
//
// Build:
//   go build -o meshslicer ./cmd/meshslicer
//
// Usage:
//   meshslicer slice part.stl -o part.gcode --json layers.json --pdf report.pdf
//   meshslicer compare part.stl --xlsx compare.xlsx
//   meshslicer inspect part.gcode

package main

func main() {
	Execute()
}
