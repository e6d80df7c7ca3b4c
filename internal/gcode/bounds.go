package gcode

import (
	"fmt"
	"math"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// BuildVolumeViolation records the first move of a layer that leaves the
// printable volume of a profile.
type BuildVolumeViolation struct {
	Layer    int
	Axis     string // "X", "Y" or "Z"
	X, Y, Z  float64
	Distance float64 // How far outside the volume the move ends, mm
}

// CheckBuildVolume reports moves that end outside the bed rectangle
// [0, BedWidth] x [0, BedDepth] or above MaxHeight. Limits of zero are
// treated as unbounded. At most one violation per layer and axis is kept.
func CheckBuildVolume(tp model.Toolpath, profile model.PrinterProfile) []BuildVolumeViolation {
	var violations []BuildVolumeViolation

	for _, m := range tp.Moves {
		if d := outsideRange(m.X, profile.BedWidth); d > 0 {
			violations = append(violations, violationAt(m, "X", d))
		}
		if d := outsideRange(m.Y, profile.BedDepth); d > 0 {
			violations = append(violations, violationAt(m, "Y", d))
		}
		if d := outsideRange(m.Z, profile.MaxHeight); d > 0 {
			violations = append(violations, violationAt(m, "Z", d))
		}
	}

	return deduplicateViolations(violations)
}

func violationAt(m model.Move, axis string, d float64) BuildVolumeViolation {
	return BuildVolumeViolation{Layer: m.Layer, Axis: axis, X: m.X, Y: m.Y, Z: m.Z, Distance: d}
}

// outsideRange computes how far v lies outside [0, limit]. Returns 0 when
// inside or when the limit is unset.
func outsideRange(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	nearest := math.Max(0, math.Min(v, limit))
	return math.Abs(v - nearest)
}

// deduplicateViolations keeps at most one violation per (layer, axis) pair.
func deduplicateViolations(violations []BuildVolumeViolation) []BuildVolumeViolation {
	type key struct {
		layer int
		axis  string
	}
	seen := make(map[key]bool)
	var result []BuildVolumeViolation

	for _, v := range violations {
		k := key{v.Layer, v.Axis}
		if !seen[k] {
			seen[k] = true
			result = append(result, v)
		}
	}
	return result
}

// FormatViolationWarnings produces human-readable warning messages from violations.
func FormatViolationWarnings(violations []BuildVolumeViolation, profile model.PrinterProfile) []string {
	var warnings []string
	for _, v := range violations {
		msg := fmt.Sprintf(
			"Layer %d: move to (%.1f, %.1f, %.1f) leaves the %s build volume on %s by %.1f mm",
			v.Layer, v.X, v.Y, v.Z, profile.Name, v.Axis, v.Distance,
		)
		warnings = append(warnings, msg)
	}
	return warnings
}
