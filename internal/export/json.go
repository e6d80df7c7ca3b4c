package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// LayerData is the wire shape of one layer: its bed-relative height and
// its contours and infill as arrays of [x, y] points. The layer preview
// and the JSON export both use this type so their geometry always agrees.
type LayerData struct {
	Z        float64        `json:"z"`
	Contours [][][2]float64 `json:"contours"`
	Infill   [][][2]float64 `json:"infill"`
}

// NewLayerData converts a sliced layer into its wire shape. Contours keep
// the builder's order: outers first, then holes.
func NewLayerData(l model.Layer) LayerData {
	d := LayerData{
		Z:        l.Z,
		Contours: make([][][2]float64, 0, len(l.Contours)),
		Infill:   make([][][2]float64, 0, len(l.Infill)),
	}
	for _, c := range l.Contours {
		d.Contours = append(d.Contours, pointArray(c.Points))
	}
	for _, p := range l.Infill {
		d.Infill = append(d.Infill, pointArray(p.Points))
	}
	return d
}

func pointArray(o model.Outline) [][2]float64 {
	pts := make([][2]float64, len(o))
	for i, p := range o {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return pts
}

// WriteJSON writes the layers as a JSON array of LayerData in index order.
func WriteJSON(w io.Writer, layers []model.Layer) error {
	data := make([]LayerData, len(layers))
	for i, l := range layers {
		data[i] = NewLayerData(l)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding layers: %w", err)
	}
	return nil
}

// ReadJSON parses a layer export produced by WriteJSON.
func ReadJSON(r io.Reader) ([]LayerData, error) {
	var data []LayerData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding layers: %w", err)
	}
	return data, nil
}

// ExportJSON writes the layer export to a file.
func ExportJSON(path string, layers []model.Layer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteJSON(f, layers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
