package importer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50 // normal + 3 vertices as float32, plus a 2-byte attribute
)

// STLLoader reads ASCII and binary STL. Facet normals are ignored; the
// winding order defines the outward side. Coincident vertices are welded.
type STLLoader struct{}

func (STLLoader) Load(r io.Reader) (*model.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading STL: %w", err)
	}
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	return parseASCIISTL(data)
}

// isBinarySTL reports whether the data length matches the facet count in
// the binary header. Some exporters write "solid" into binary headers, so
// the keyword alone is not enough.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if uint64(len(data)) == uint64(stlHeaderSize+4)+uint64(n)*stlFacetSize {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid"))
}

func parseBinarySTL(data []byte) (*model.Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	body := data[stlHeaderSize+4:]
	if len(body) < n*stlFacetSize {
		return nil, fmt.Errorf("binary STL truncated: header declares %d facets, found %d", n, len(body)/stlFacetSize)
	}

	w := newWelder()
	for i := 0; i < n; i++ {
		facet := body[i*stlFacetSize:]
		// Skip the 12-byte normal.
		a := readVec32(facet[12:])
		b := readVec32(facet[24:])
		c := readVec32(facet[36:])
		w.triangle(a, b, c)
	}
	return w.mesh, nil
}

func readVec32(b []byte) r3.Vec {
	f := func(off int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))
	}
	return r3.Vec{X: f(0), Y: f(4), Z: f(8)}
}

func parseASCIISTL(data []byte) (*model.Mesh, error) {
	w := newWelder()
	var loop []r3.Vec

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "outer":
			loop = loop[:0]
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseVec(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			loop = append(loop, v)
		case "endloop":
			if len(loop) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", lineNo, len(loop))
			}
			w.triangle(loop[0], loop[1], loop[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading STL: %w", err)
	}
	return w.mesh, nil
}

func parseVec(fields []string) (r3.Vec, error) {
	var xyz [3]float64
	for i, s := range fields[:3] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("invalid coordinate %q", s)
		}
		xyz[i] = v
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
