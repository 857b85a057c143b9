package gcode

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquarePack/internal/model"
)

// newTestSettings returns Settings suitable for testing with predictable output.
func newTestSettings() Settings {
	s := DefaultSettings()
	s.UnitSize = 50.0
	s.ToolDiameter = 6.0
	s.FeedRate = 1000.0
	s.PlungeRate = 300.0
	s.SpindleSpeed = 12000
	s.SafeZ = 5.0
	s.CutDepth = 6.0
	s.PassDepth = 6.0
	s.Profile = "Generic"
	return s
}

func newTestRun(squares ...model.Square) model.Run {
	cfg := model.DefaultConfig()
	cfg.ContainerArea = 4
	run := model.NewRun("test", 7, cfg)
	run.Squares = squares
	return run
}

func TestGenerate_SingleSquareExtent(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestRun(model.Square{X: 1, Y: 1}))
	s := Summarize(Parse(code))

	assert.Equal(t, 1, s.Plunges)
	assert.InDelta(t, 22.0, s.MinX, 1e-9)
	assert.InDelta(t, 78.0, s.MaxX, 1e-9)
	assert.InDelta(t, 22.0, s.MinY, 1e-9)
	assert.InDelta(t, 78.0, s.MaxY, 1e-9)
	assert.InDelta(t, 224.0, s.CutLength, 1e-6)
	assert.InDelta(t, 6.0, s.MaxDepth, 1e-9)
}

func TestGenerate_HeaderAndFooter(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestRun(model.Square{X: 1, Y: 1}))

	assert.True(t, strings.HasPrefix(code, "; SquarePack GCode - test"))
	assert.Contains(t, code, "; Squares: 1, Density: 25.0%, Seed: 7")
	assert.Contains(t, code, "M3 S12000\n")
	assert.Contains(t, code, "G90\nG21\n")
	assert.Contains(t, code, "; === Job complete ===")
	assert.Contains(t, code, "G0 Z5.000\nG0 X0 Y0\nM5\nM2\n")
	assert.NotContains(t, code, "[SafeZ]")
	assert.NotContains(t, code, "-0.000")
}

func TestGenerate_MultiPass(t *testing.T) {
	settings := newTestSettings()
	settings.CutDepth = 10
	settings.PassDepth = 4
	code := New(settings).Generate(newTestRun(model.Square{X: 1, Y: 1}))

	assert.Contains(t, code, "Pass 1/3, depth=4.00mm")
	assert.Contains(t, code, "Pass 2/3, depth=8.00mm")
	assert.Contains(t, code, "Pass 3/3, depth=10.00mm")
	s := Summarize(Parse(code))
	assert.Equal(t, 3, s.Plunges)
	assert.InDelta(t, 10.0, s.MaxDepth, 1e-9)
}

func TestGenerate_RotatedSquareMitredOffset(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestRun(model.Square{X: 1, Y: 1, Rotation: math.Pi / 4}))
	s := Summarize(Parse(code))

	reach := 25*math.Sqrt2 + 3*math.Sqrt2
	assert.InDelta(t, 50-reach, s.MinX, 0.002)
	assert.InDelta(t, 50+reach, s.MaxX, 0.002)
	// Every side of the offset square is 50 + 2*3 mm.
	assert.InDelta(t, 4*56.0, s.CutLength, 0.01)
}

func TestGenerate_ClimbReversesDirection(t *testing.T) {
	settings := newTestSettings()
	climb := Parse(New(settings).Generate(newTestRun(model.Square{X: 1, Y: 1})))
	settings.UseClimb = false
	conv := Parse(New(settings).Generate(newTestRun(model.Square{X: 1, Y: 1})))

	assert.Less(t, signedArea(cutLoop(climb)), 0.0, "climb path should be clockwise")
	assert.Greater(t, signedArea(cutLoop(conv)), 0.0, "conventional path should be counter-clockwise")
}

func TestGenerate_Tabs(t *testing.T) {
	settings := newTestSettings()
	settings.TabsPerSide = 1
	settings.TabWidth = 8
	settings.TabHeight = 2
	code := New(settings).Generate(newTestRun(model.Square{X: 1, Y: 1}))

	assert.Equal(t, 4, strings.Count(code, "G1 Z-4.000\n"))
	s := Summarize(Parse(code))
	// tab traverses still count as cutting, only shallower
	assert.InDelta(t, 224.0, s.CutLength, 1e-6)
}

func TestGenerate_Container(t *testing.T) {
	settings := newTestSettings()
	settings.CutContainer = true
	code := New(settings).Generate(newTestRun())

	assert.Contains(t, code, "--- Container boundary ---")
	s := Summarize(Parse(code))
	assert.InDelta(t, -3.0, s.MinX, 1e-9)
	assert.InDelta(t, 103.0, s.MaxX, 1e-9)
}

func TestGenerate_EmptyRun(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestRun())
	assert.Equal(t, 0, Summarize(Parse(code)).Plunges)
}

func TestGenerate_Mach3Comments(t *testing.T) {
	settings := newTestSettings()
	settings.Profile = "Mach3"
	code := New(settings).Generate(newTestRun(model.Square{X: 1, Y: 1}))

	assert.Contains(t, code, "( SquarePack GCode - test")
	assert.Contains(t, code, "M30\n")
	assert.Contains(t, code, "G0 X22.0000 Y78.0000\n")
	assert.Equal(t, 1, Summarize(Parse(code)).Plunges)
}

func TestNewWithProfile_Custom(t *testing.T) {
	custom := GetProfile("Generic")
	custom.Name = "Coarse"
	custom.DecimalPlaces = 1
	custom.SpindleStart = ""
	code := NewWithProfile(newTestSettings(), custom).Generate(newTestRun(model.Square{X: 1, Y: 1}))

	assert.Contains(t, code, "Profile: Coarse")
	assert.Contains(t, code, "X22.0 Y78.0")
	assert.NotContains(t, code, "M3 S")
}

func TestOffsetOutline_Square(t *testing.T) {
	sq := model.Outline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	got := offsetOutline(sq, 1)
	want := model.Outline{{X: -1, Y: -1}, {X: 11, Y: -1}, {X: 11, Y: 11}, {X: -1, Y: 11}}
	require.Len(t, got, 4)
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9)
	}
	// zero distance is a copy
	same := offsetOutline(sq, 0)
	same[0].X = 99
	assert.Equal(t, 0.0, sq[0].X)
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	bad := []func(*Settings){
		func(s *Settings) { s.UnitSize = 0 },
		func(s *Settings) { s.ToolDiameter = -1 },
		func(s *Settings) { s.CutDepth = 0 },
		func(s *Settings) { s.PassDepth = 0 },
		func(s *Settings) { s.TabsPerSide = -1 },
	}
	for i, mutate := range bad {
		s := DefaultSettings()
		mutate(&s)
		assert.Error(t, s.Validate(), "case %d", i)
	}
}

// cutLoop returns the XY points of the first contiguous run of feed moves.
func cutLoop(moves []Move) []model.Point2D {
	var pts []model.Point2D
	for _, m := range moves {
		if m.Type == MoveFeed {
			if len(pts) == 0 {
				pts = append(pts, model.Point2D{X: m.FromX, Y: m.FromY})
			}
			pts = append(pts, model.Point2D{X: m.ToX, Y: m.ToY})
		} else if len(pts) > 0 {
			break
		}
	}
	return pts
}

func signedArea(pts []model.Point2D) float64 {
	a := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}
