package gcode

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of printer head movement.
type MoveType int

const (
	MoveTravel  MoveType = iota // G0, or G1 without filament change
	MoveExtrude                 // G1 with E increasing
	MoveRetract                 // G1 with E decreasing
)

func (t MoveType) String() string {
	switch t {
	case MoveExtrude:
		return "extrude"
	case MoveRetract:
		return "retract"
	default:
		return "travel"
	}
}

// GCodeMove represents a single parsed movement from G-code.
type GCodeMove struct {
	Type     MoveType
	Layer    int // From the most recent LAYER comment, -1 before the first
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FromE    float64
	ToE      float64
	FeedRate float64
}

// Length returns the XYZ distance covered by the move.
func (m GCodeMove) Length() float64 {
	dx, dy, dz := m.ToX-m.FromX, m.ToY-m.FromY, m.ToZ-m.FromZ
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

var (
	coordRe = regexp.MustCompile(`([XYZEF])(-?\d+\.?\d*)`)
	layerRe = regexp.MustCompile(`LAYER:(-?\d+)`)
)

// ParseGCode parses a G-code string into a slice of structured moves.
func ParseGCode(code string) []GCodeMove {
	moves, _ := ParseReader(strings.NewReader(code))
	return moves
}

// ParseReader parses G-code line by line. It tracks absolute position and
// extruder state, honours G92 resets and attributes each move to the layer
// named by the last LAYER comment.
func ParseReader(r io.Reader) ([]GCodeMove, error) {
	var moves []GCodeMove

	// Current machine state
	curX, curY, curZ, curE := 0.0, 0.0, 0.0, 0.0
	curFeed := 0.0
	layer := -1

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Strip inline comments (semicolon or parenthetical), keeping layer markers
		if idx := strings.Index(line, ";"); idx >= 0 {
			if m := layerRe.FindStringSubmatch(line[idx:]); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					layer = n
				}
			}
			line = line[:idx]
		}
		if idx := strings.Index(line, "("); idx >= 0 {
			if end := strings.Index(line, ")"); end > idx {
				if m := layerRe.FindStringSubmatch(line[idx:end]); m != nil {
					if n, err := strconv.Atoi(m[1]); err == nil {
						layer = n
					}
				}
				line = line[:idx] + line[end+1:]
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		fields := strings.Fields(upper)
		word := fields[0]

		if word == "G92" {
			for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
				if val, err := strconv.ParseFloat(m[2], 64); err == nil && m[1] == "E" {
					curE = val
				}
			}
			continue
		}

		isRapid := word == "G0" || word == "G00"
		isFeed := word == "G1" || word == "G01"
		if !isRapid && !isFeed {
			continue
		}

		// Parse coordinates from this line
		newX, newY, newZ, newE, newFeed := curX, curY, curZ, curE, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "Z":
				newZ = val
			case "E":
				newE = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, GCodeMove{
			Type:     classifyMove(isRapid, curE, newE),
			Layer:    layer,
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			FromE:    curE,
			ToE:      newE,
			FeedRate: newFeed,
		})

		curX, curY, curZ, curE, curFeed = newX, newY, newZ, newE, newFeed
	}

	return moves, scanner.Err()
}

// classifyMove determines the MoveType from the extruder delta.
func classifyMove(isRapid bool, fromE, toE float64) MoveType {
	eDelta := toE - fromE

	switch {
	case isRapid:
		return MoveTravel
	case eDelta > 1e-9:
		return MoveExtrude
	case eDelta < -1e-9:
		return MoveRetract
	default:
		return MoveTravel
	}
}

// Summary aggregates parsed moves.
type Summary struct {
	Moves          int
	Layers         int
	Extrusion      float64 // Net filament pushed, mm
	PrintDistance  float64
	TravelDistance float64
	Retractions    int
	MaxZ           float64
}

// Summarize totals the moves of a parsed program.
func Summarize(moves []GCodeMove) Summary {
	s := Summary{Moves: len(moves)}
	seen := map[int]bool{}
	for _, m := range moves {
		if m.Layer >= 0 {
			seen[m.Layer] = true
		}
		switch m.Type {
		case MoveExtrude:
			s.PrintDistance += m.Length()
			s.Extrusion += m.ToE - m.FromE
		case MoveRetract:
			s.Retractions++
			s.Extrusion += m.ToE - m.FromE
		default:
			s.TravelDistance += m.Length()
		}
		s.MaxZ = math.Max(s.MaxZ, m.ToZ)
	}
	s.Layers = len(seen)
	return s
}
