// Package importer loads triangle meshes from STL, OBJ and PLY files into
// the canonical model.Mesh. Callers pick a Loader by file extension and the
// rest of the pipeline never sees the file format.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// ErrUnsupportedFormat is returned for file extensions without a loader.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Loader decodes one mesh file format.
type Loader interface {
	Load(r io.Reader) (*model.Mesh, error)
}

// loaders maps lower-case file extensions to their loader.
var loaders = map[string]Loader{
	".stl": STLLoader{},
	".obj": OBJLoader{},
	".ply": PLYLoader{},
}

// Formats returns the supported file extensions.
func Formats() []string {
	return []string{".obj", ".ply", ".stl"}
}

// LoaderFor returns the loader matching the file extension of path.
func LoaderFor(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := loaders[ext]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// LoadFile opens path and decodes it with the loader for its extension.
// The returned mesh has been validated.
func LoadFile(path string) (*model.Mesh, error) {
	l, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open mesh file: %w", err)
	}
	defer f.Close()

	mesh, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return mesh, nil
}

// welder merges exactly coincident vertices so facets that share an edge
// also share vertex indices.
type welder struct {
	mesh  *model.Mesh
	index map[r3.Vec]int
}

func newWelder() *welder {
	return &welder{mesh: &model.Mesh{}, index: make(map[r3.Vec]int)}
}

func (w *welder) vertex(v r3.Vec) int {
	if i, ok := w.index[v]; ok {
		return i
	}
	i := len(w.mesh.Vertices)
	w.mesh.Vertices = append(w.mesh.Vertices, v)
	w.index[v] = i
	return i
}

func (w *welder) triangle(a, b, c r3.Vec) {
	w.mesh.Triangles = append(w.mesh.Triangles, [3]int{w.vertex(a), w.vertex(b), w.vertex(c)})
}

// fan triangulates a convex polygon given by vertex indices around its
// first vertex.
func fan(poly []int) [][3]int {
	if len(poly) < 3 {
		return nil
	}
	tris := make([][3]int, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		tris = append(tris, [3]int{poly[0], poly[i], poly[i+1]})
	}
	return tris
}
