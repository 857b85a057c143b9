package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SkipsNonMoves(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"semicolon comments", "; header\n; square 1\n"},
		{"parenthetical comments", "(setup)\n(unterminated G0 X99\n"},
		{"modal and spindle codes", "G90\nG21\nG17\nM3 S18000\nM5\nM2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Parse(tt.code))
		})
	}
}

func TestParse_TracksPositionAcrossMoves(t *testing.T) {
	code := "G0 X-3.000 Y20.000\n" +
		"G0 Z5.000\n" +
		"G1 Z-6.000 F500.0\n" +
		"G1 X100.000 (edge) Y20.000 F1500.0 ; bottom side\n" +
		"G1 Y80.000\n" +
		"G0 Z5.000\n"

	moves := Parse(code)
	require.Len(t, moves, 6)

	assert.Equal(t, []MoveType{MoveRapid, MoveRetract, MovePlunge, MoveFeed, MoveFeed, MoveRetract},
		[]MoveType{moves[0].Type, moves[1].Type, moves[2].Type, moves[3].Type, moves[4].Type, moves[5].Type})

	assert.Equal(t, -3.0, moves[0].ToX)
	assert.Equal(t, 5.0, moves[2].FromZ)
	assert.Equal(t, -6.0, moves[2].ToZ)
	assert.Equal(t, -3.0, moves[3].FromX)
	assert.Equal(t, 100.0, moves[3].ToX)
	assert.Equal(t, 1500.0, moves[3].FeedRate)

	// Unspecified axes and the feed rate carry over.
	assert.Equal(t, 100.0, moves[4].ToX)
	assert.Equal(t, 80.0, moves[4].ToY)
	assert.Equal(t, 1500.0, moves[4].FeedRate)
}

func TestClassifyMove(t *testing.T) {
	tests := []struct {
		name                   string
		rapid                  bool
		fromZ, toZ             float64
		fromX, fromY, toX, toY float64
		want                   MoveType
	}{
		{"rapid travel", true, 5, 5, 0, 0, 10, 20, MoveRapid},
		{"rapid lift", true, -6, 5, 10, 20, 10, 20, MoveRetract},
		{"feed in plane", false, -6, -6, 0, 0, 100, 0, MoveFeed},
		{"plunge", false, 5, -6, 10, 20, 10, 20, MovePlunge},
		{"feed lift", false, -6, 0, 10, 20, 10, 20, MoveRetract},
		{"feed with Z noise", false, -6, -6.0001, 0, 0, 100, 0, MoveFeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyMove(tt.rapid, tt.fromZ, tt.toZ, tt.fromX, tt.fromY, tt.toX, tt.toY))
		})
	}
}

func TestSummarize_SquareOutline(t *testing.T) {
	// One 50 mm square traced by a 6 mm tool in a single pass.
	code := "G0 Z5.000\n" +
		"G0 X22.000 Y78.000\n" +
		"G1 Z-6.000 F500.000\n" +
		"G1 X78.000 Y78.000 F1500.000\n" +
		"G1 X78.000 Y22.000\n" +
		"G1 X22.000 Y22.000\n" +
		"G1 X22.000 Y78.000\n" +
		"G0 Z5.000\n" +
		"G0 X0 Y0\n"

	s := Summarize(Parse(code))
	assert.Equal(t, 1, s.Plunges)
	assert.Equal(t, 4, s.Feeds)
	assert.Equal(t, 2, s.Retracts)
	assert.Equal(t, 2, s.Rapids)
	assert.Equal(t, 224.0, s.CutLength)
	assert.Equal(t, 6.0, s.MaxDepth)
	assert.Equal(t, [4]float64{22, 22, 78, 78}, [4]float64{s.MinX, s.MinY, s.MaxX, s.MaxY})
}

func TestSummarize_NoCuts(t *testing.T) {
	s := Summarize(Parse("G0 X10 Y10\nG0 Z5\n"))
	assert.Zero(t, s.CutLength)
	assert.Zero(t, s.MaxX)
	assert.Equal(t, 1, s.Rapids)
	assert.Equal(t, 1, s.Retracts)
}
