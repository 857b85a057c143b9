package gcode

import (
	"fmt"
	"math"

	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
)

// ClearanceIssue reports two squares whose gap is narrower than the tool, so
// cutting one bites into the other.
type ClearanceIssue struct {
	Index int
	Other int
	Gap   float64 // mm
}

// CheckToolClearance finds every pair of squares in the run whose machined
// gap is below the tool diameter. Packed layouts touch by construction, so a
// dense run reports many issues unless UnitSize leaves room between parts.
func CheckToolClearance(run model.Run, settings Settings) []ClearanceIssue {
	if settings.ToolDiameter <= 0 || settings.UnitSize <= 0 {
		return nil
	}
	// Reach in layout units beyond which no pair can be too close.
	reach := math.Sqrt2 + settings.ToolDiameter/settings.UnitSize

	polys := make([]model.Outline, len(run.Squares))
	for i, sq := range run.Squares {
		polys[i] = geometry.SquareVertices(sq)
	}

	var issues []ClearanceIssue
	for i := range run.Squares {
		for j := i + 1; j < len(run.Squares); j++ {
			if run.Squares[i].Center().Sub(run.Squares[j].Center()).Length() > reach {
				continue
			}
			gap := polygonDistance(polys[i], polys[j]) * settings.UnitSize
			if gap < settings.ToolDiameter {
				issues = append(issues, ClearanceIssue{Index: i, Other: j, Gap: gap})
			}
		}
	}
	return issues
}

// polygonDistance returns the distance between two convex polygons, 0 when
// they overlap or touch.
func polygonDistance(a, b model.Outline) float64 {
	if _, hit := geometry.SeparatingAxisTest(a, b, 0); hit {
		return 0
	}
	best := math.Inf(1)
	for _, pair := range [2][2]model.Outline{{a, b}, {b, a}} {
		pts, poly := pair[0], pair[1]
		for _, p := range pts {
			for k := range poly {
				d := pointSegmentDistance(p, poly[k], poly[(k+1)%len(poly)])
				best = math.Min(best, d)
			}
		}
	}
	return best
}

func pointSegmentDistance(p, a, b model.Point2D) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Scale(t))).Length()
}

// FormatClearanceWarnings produces human-readable warning messages.
func FormatClearanceWarnings(issues []ClearanceIssue, settings Settings) []string {
	var warnings []string
	for _, c := range issues {
		warnings = append(warnings, fmt.Sprintf(
			"Squares %d and %d are %.2f mm apart, less than the %.1f mm tool",
			c.Index+1, c.Other+1, c.Gap, settings.ToolDiameter))
	}
	return warnings
}
