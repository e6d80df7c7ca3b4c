package gcode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// Generator produces G-code from a sequenced toolpath.
type Generator struct {
	Config  model.SlicerConfig
	profile model.PrinterProfile
}

func New(cfg model.SlicerConfig) *Generator {
	return &Generator{
		Config:  cfg,
		profile: model.GetProfile(cfg.PrinterProfile),
	}
}

// Profile returns the printer profile the generator writes for.
func (g *Generator) Profile() model.PrinterProfile {
	return g.profile
}

// Generate returns the full program for the toolpath as a string.
func (g *Generator) Generate(tp model.Toolpath) string {
	var b strings.Builder
	// strings.Builder never fails to write.
	_ = g.Write(&b, tp)
	return b.String()
}

// Write streams the program for the toolpath to w. Every move carries
// absolute X, Y and Z; extruding moves carry the cumulative E value.
func (g *Generator) Write(w io.Writer, tp model.Toolpath) error {
	b := bufio.NewWriter(w)

	g.writeHeader(b, tp)

	layer := -1
	for _, m := range tp.Moves {
		if m.Layer != layer {
			layer = m.Layer
			fmt.Fprintf(b, "%sLAYER:%d%s\n", g.profile.CommentPrefix, layer, g.profile.CommentSuffix)
		}
		g.writeMove(b, m)
	}

	g.writeFooter(b)
	return b.Flush()
}

func (g *Generator) writeHeader(b *bufio.Writer, tp model.Toolpath) {
	p := g.profile
	layers := 0
	if n := len(tp.Moves); n > 0 {
		layers = tp.Moves[n-1].Layer + 1
	}

	g.comment(b, "MeshSlicer G-code")
	g.comment(b, fmt.Sprintf("Layers: %d, layer height: %.3f mm", layers, g.Config.LayerHeight))
	g.comment(b, fmt.Sprintf("Nozzle: %.2f mm, filament: %.2f mm %s", g.Config.NozzleDiameter, g.Config.FilamentDiameter, g.Config.Material))
	g.comment(b, fmt.Sprintf("Infill: %.0f%% %s, perimeters: %d", g.Config.FillDensity*100, g.Config.FillPattern, g.Config.PerimeterCount))
	g.comment(b, fmt.Sprintf("Filament used: %.1f mm, estimated time: %.0f s", tp.TotalExtrusion, tp.PrintTime))
	g.comment(b, fmt.Sprintf("Profile: %s", p.Name))
	b.WriteString("\n")

	// Write startup codes
	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	// Heat up
	if p.HeatBed != "" && p.BedTemp > 0 {
		fmt.Fprintf(b, p.HeatBed+"\n", p.BedTemp)
	}
	if p.HeatNozzle != "" && p.NozzleTemp > 0 {
		fmt.Fprintf(b, p.HeatNozzle+"\n", p.NozzleTemp)
	}

	if p.AbsoluteExtrusion != "" {
		b.WriteString(p.AbsoluteExtrusion + "\n")
	}
	if p.ResetExtrusion != "" {
		b.WriteString(p.ResetExtrusion + "\n")
	}

	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *bufio.Writer) {
	b.WriteString("\n")
	g.comment(b, "=== Print complete ===")

	for _, code := range g.profile.EndCode {
		b.WriteString(code + "\n")
	}
}

func (g *Generator) writeMove(b *bufio.Writer, m model.Move) {
	if m.Kind == model.MoveExtrude {
		fmt.Fprintf(b, "%s X%s Y%s Z%s E%s F%s\n", g.profile.FeedMove,
			g.format(m.X), g.format(m.Y), g.format(m.Z), g.formatE(m.E), g.formatFeed(m.Feed))
		return
	}
	fmt.Fprintf(b, "%s X%s Y%s Z%s F%s\n", g.profile.RapidMove,
		g.format(m.X), g.format(m.Y), g.format(m.Z), g.formatFeed(m.Feed))
}

func (g *Generator) comment(b *bufio.Writer, text string) {
	fmt.Fprintf(b, "%s %s%s\n", g.profile.CommentPrefix, text, g.profile.CommentSuffix)
}

func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}

func (g *Generator) formatE(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.ExtrusionDecimalPlaces)
	return fmt.Sprintf(format, v)
}

func (g *Generator) formatFeed(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
