package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
)

// Move represents a single parsed movement.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// Parse parses a GCode program into structured moves. It tracks absolute
// position state and classifies each G0/G1 command by its movement
// characteristics (rapid, feed, plunge, retract). Other commands are skipped.
func Parse(code string) []Move {
	var moves []Move

	// Current machine state
	curX, curY, curZ := 0.0, 0.0, 0.0
	curFeed := 0.0

	for _, line := range strings.Split(code, "\n") {
		line = stripComments(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		word, _, _ := strings.Cut(upper, " ")
		isRapid := word == "G0" || word == "G00"
		isFeed := word == "G1" || word == "G01"
		if !isRapid && !isFeed {
			continue
		}

		newX, newY, newZ, newFeed := curX, curY, curZ, curFeed
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
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, Move{
			Type:     classifyMove(isRapid, curZ, newZ, curX, curY, newX, newY),
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			FeedRate: newFeed,
		})

		curX, curY, curZ, curFeed = newX, newY, newZ, newFeed
	}

	return moves
}

// stripComments removes semicolon and parenthetical comments.
func stripComments(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Stats summarizes a parsed program.
type Stats struct {
	Rapids, Feeds, Plunges, Retracts int
	CutLength                        float64 // XY length of feed moves below Z=0
	MinX, MinY, MaxX, MaxY           float64 // extent of feed moves below Z=0
	MaxDepth                         float64 // deepest Z reached, as a positive number
}

// Summarize counts moves by type and measures the cutting extent.
func Summarize(moves []Move) Stats {
	s := Stats{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	cutting := false
	for _, m := range moves {
		switch m.Type {
		case MoveRapid:
			s.Rapids++
		case MoveFeed:
			s.Feeds++
		case MovePlunge:
			s.Plunges++
		case MoveRetract:
			s.Retracts++
		}
		if -m.ToZ > s.MaxDepth {
			s.MaxDepth = -m.ToZ
		}
		if m.Type == MoveFeed && m.ToZ < 0 {
			cutting = true
			s.CutLength += math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
			for _, p := range [][2]float64{{m.FromX, m.FromY}, {m.ToX, m.ToY}} {
				s.MinX = math.Min(s.MinX, p[0])
				s.MinY = math.Min(s.MinY, p[1])
				s.MaxX = math.Max(s.MaxX, p[0])
				s.MaxY = math.Max(s.MaxY, p[1])
			}
		}
	}
	if !cutting {
		s.MinX, s.MinY, s.MaxX, s.MaxY = 0, 0, 0, 0
	}
	return s
}
