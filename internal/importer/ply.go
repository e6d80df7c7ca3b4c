package importer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// PLYLoader reads ASCII and binary little-endian PLY files. Vertex x/y/z
// and the face vertex index list are used; other properties and elements
// are skipped.
type PLYLoader struct{}

type plyProperty struct {
	name      string
	typ       string
	list      bool
	countType string // For list properties
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

type plyHeader struct {
	format   string
	elements []plyElement
}

func (PLYLoader) Load(r io.Reader) (*model.Mesh, error) {
	br := bufio.NewReader(r)
	h, err := readPLYHeader(br)
	if err != nil {
		return nil, err
	}

	var read func(plyElement, *model.Mesh) error
	switch h.format {
	case "ascii":
		tr := &plyTokens{scanner: bufio.NewScanner(br)}
		read = func(e plyElement, m *model.Mesh) error { return readPLYElement(e, m, tr.next) }
	case "binary_little_endian":
		read = func(e plyElement, m *model.Mesh) error {
			return readPLYElement(e, m, func(typ string) (float64, error) { return readBinaryScalar(br, typ) })
		}
	default:
		return nil, fmt.Errorf("unsupported PLY format %q", h.format)
	}

	mesh := &model.Mesh{}
	for _, e := range h.elements {
		if err := read(e, mesh); err != nil {
			return nil, fmt.Errorf("reading %s elements: %w", e.name, err)
		}
	}
	return mesh, nil
}

func readPLYHeader(br *bufio.Reader) (plyHeader, error) {
	var h plyHeader
	first := true
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return h, fmt.Errorf("reading PLY header: %w", err)
		}
		fields := strings.Fields(line)
		if first {
			if len(fields) != 1 || fields[0] != "ply" {
				return h, fmt.Errorf("missing ply magic")
			}
			first = false
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return h, fmt.Errorf("malformed format line")
			}
			h.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return h, fmt.Errorf("malformed element line %q", strings.TrimSpace(line))
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return h, fmt.Errorf("invalid %s element count %q", fields[1], fields[2])
			}
			h.elements = append(h.elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(h.elements) == 0 {
				return h, fmt.Errorf("property before any element")
			}
			e := &h.elements[len(h.elements)-1]
			switch {
			case len(fields) == 5 && fields[1] == "list":
				e.props = append(e.props, plyProperty{name: fields[4], typ: fields[3], list: true, countType: fields[2]})
			case len(fields) == 3:
				e.props = append(e.props, plyProperty{name: fields[2], typ: fields[1]})
			default:
				return h, fmt.Errorf("malformed property line %q", strings.TrimSpace(line))
			}
		case "end_header":
			return h, nil
		}
	}
}

// readPLYElement consumes every instance of e using next to fetch scalar
// values, appending vertices and faces to m.
func readPLYElement(e plyElement, m *model.Mesh, next func(typ string) (float64, error)) error {
	for i := 0; i < e.count; i++ {
		var v r3.Vec
		for _, p := range e.props {
			if !p.list {
				val, err := next(p.typ)
				if err != nil {
					return err
				}
				if e.name == "vertex" {
					switch p.name {
					case "x":
						v.X = val
					case "y":
						v.Y = val
					case "z":
						v.Z = val
					}
				}
				continue
			}

			count, err := next(p.countType)
			if err != nil {
				return err
			}
			if count < 0 {
				return fmt.Errorf("negative list length %v", count)
			}
			poly := make([]int, int(count))
			for j := range poly {
				val, err := next(p.typ)
				if err != nil {
					return err
				}
				poly[j] = int(val)
			}
			if e.name == "face" && (p.name == "vertex_indices" || p.name == "vertex_index") {
				if len(poly) < 3 {
					return fmt.Errorf("face %d has %d vertices, want at least 3", i, len(poly))
				}
				m.Triangles = append(m.Triangles, fan(poly)...)
			}
		}
		if e.name == "vertex" {
			m.Vertices = append(m.Vertices, v)
		}
	}
	return nil
}

// plyTokens yields whitespace separated tokens of the ASCII body.
type plyTokens struct {
	scanner *bufio.Scanner
	fields  []string
}

func (t *plyTokens) next(string) (float64, error) {
	for len(t.fields) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		t.fields = strings.Fields(t.scanner.Text())
	}
	tok := t.fields[0]
	t.fields = t.fields[1:]
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", tok)
	}
	return v, nil
}

func readBinaryScalar(r io.Reader, typ string) (float64, error) {
	var buf [8]byte
	size, err := plyTypeSize(typ)
	if err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(r, buf[:size]); err != nil {
		return 0, err
	}
	b := buf[:size]
	le := binary.LittleEndian
	switch typ {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(le.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(le.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(le.Uint32(b))), nil
	case "uint", "uint32":
		return float64(le.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(le.Uint32(b))), nil
	default: // double, float64
		return math.Float64frombits(le.Uint64(b)), nil
	}
}

func plyTypeSize(typ string) (int, error) {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	}
	return 0, fmt.Errorf("unknown PLY property type %q", typ)
}
