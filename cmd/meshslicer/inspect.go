package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/MeshSlicer/internal/gcode"
	"github.com/piwi3910/MeshSlicer/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <gcode-file>",
	Short: "Summarize a G-code file",
	Long: `Parse a G-code file and report move counts, distances, extrusion and
retractions. With --profile, moves are also checked against that printer's
build volume.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("profile", "", "Check moves against this printer profile's build volume")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	moves, err := gcode.ParseReader(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	s := gcode.Summarize(moves)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Moves:           %d\n", s.Moves)
	fmt.Fprintf(out, "Layers:          %d\n", s.Layers)
	fmt.Fprintf(out, "Max Z:           %.3f mm\n", s.MaxZ)
	fmt.Fprintf(out, "Extrusion:       %.2f mm\n", s.Extrusion)
	fmt.Fprintf(out, "Print distance:  %.1f mm\n", s.PrintDistance)
	fmt.Fprintf(out, "Travel distance: %.1f mm\n", s.TravelDistance)
	fmt.Fprintf(out, "Retractions:     %d\n", s.Retractions)

	name, _ := cmd.Flags().GetString("profile")
	if name == "" {
		return nil
	}
	profile := model.GetProfile(name)
	warnings := gcode.FormatViolationWarnings(gcode.CheckBuildVolume(movesToToolpath(moves), profile), profile)
	fmt.Fprintf(out, "Build volume (%s): %d violations\n", profile.Name, len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(out, "  %s\n", w)
	}
	return nil
}

// movesToToolpath rebuilds a toolpath from parsed moves so the build-volume
// check can run on files written by other slicers.
func movesToToolpath(moves []gcode.GCodeMove) model.Toolpath {
	tp := model.Toolpath{Moves: make([]model.Move, 0, len(moves))}
	for _, m := range moves {
		kind := model.MoveTravel
		if m.Type == gcode.MoveExtrude {
			kind = model.MoveExtrude
		}
		tp.Moves = append(tp.Moves, model.Move{
			Kind: kind, Layer: m.Layer, X: m.ToX, Y: m.ToY, Z: m.ToZ, E: m.ToE, Feed: m.FeedRate,
		})
	}
	return tp
}
