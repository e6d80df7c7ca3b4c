package importer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// OBJLoader reads Wavefront OBJ geometry. Only "v" and "f" records are
// used; polygon faces are fan triangulated and negative (relative)
// indices are resolved against the vertices read so far.
type OBJLoader struct{}

func (OBJLoader) Load(r io.Reader) (*model.Mesh, error) {
	mesh := &model.Mesh{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseVec(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "f":
			poly := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := objIndex(ref, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				poly = append(poly, idx)
			}
			if len(poly) < 3 {
				return nil, fmt.Errorf("line %d: face has %d vertices, want at least 3", lineNo, len(poly))
			}
			mesh.Triangles = append(mesh.Triangles, fan(poly)...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return mesh, nil
}

// objIndex resolves a face vertex reference such as "7", "7/2/3" or "-1"
// into a zero-based vertex index.
func objIndex(ref string, nverts int) (int, error) {
	pos, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", ref)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return nverts + n, nil
	default:
		return 0, fmt.Errorf("face index 0 is not valid")
	}
}
