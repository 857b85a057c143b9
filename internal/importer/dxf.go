package importer

import (
	"fmt"
	"math"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

const (
	// sideTolerance is the relative slack allowed on side lengths and
	// right angles when recognizing a square outline.
	sideTolerance = 1e-3
	// chainTolerance is the endpoint gap, in square sides, under which
	// two LINE entities are considered connected.
	chainTolerance = 1e-4
)

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// ImportDXF imports a layout from a DXF file. Each closed LWPOLYLINE or
// chain of LINEs with four corners and side unitSize becomes a square; an
// axis-aligned square outline anchored at the origin and larger than a
// unit is taken as the container. Coordinates are divided by unitSize so
// the result is in container units. unitSize <= 0 means 1.
func ImportDXF(path string, unitSize float64) ImportResult {
	result := ImportResult{}
	if unitSize <= 0 {
		unitSize = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []model.Outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if hasBulge(e) {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with arc segments")
				continue
			}
			outline := lwPolylineToOutline(e, unitSize)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0] / unitSize, Y: e.Start[1] / unitSize},
				end:   model.Point2D{X: e.End[0] / unitSize, Y: e.End[1] / unitSize},
			})

		case *entity.Circle:
			result.Warnings = append(result.Warnings, "Skipped CIRCLE entity")

		case *entity.Arc:
			result.Warnings = append(result.Warnings, "Skipped ARC entity")
		}
	}

	outlines = append(outlines, chainSegments(segments, chainTolerance)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, outline := range outlines {
		side, rot, ok := squareShape(outline)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Shape %d: not a square (%d vertices), skipped", i+1, len(dedupe(outline))))
			continue
		}

		if math.Abs(side-model.SquareSide) <= sideTolerance*model.SquareSide {
			c := dedupe(outline).Centroid()
			result.Squares = append(result.Squares, model.Square{X: c.X, Y: c.Y, Rotation: rot})
			continue
		}

		min, _ := outline.BoundingBox()
		axisAligned := math.Min(rot, math.Pi/2-rot) <= sideTolerance
		atOrigin := math.Abs(min.X) <= sideTolerance*side && math.Abs(min.Y) <= sideTolerance*side
		if side > model.SquareSide && axisAligned && atOrigin && result.ContainerSide == 0 {
			result.ContainerSide = side
			continue
		}

		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Shape %d: square of side %.4f is not a unit square, skipped", i+1, side))
	}

	return result
}

// hasBulge reports whether any vertex of the polyline starts an arc.
func hasBulge(lw *entity.LwPolyline) bool {
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			return true
		}
	}
	return false
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an Outline in
// container units.
func lwPolylineToOutline(lw *entity.LwPolyline, unitSize float64) model.Outline {
	outline := make(model.Outline, 0, len(lw.Vertices))
	for _, v := range lw.Vertices {
		outline = append(outline, model.Point2D{X: v[0] / unitSize, Y: v[1] / unitSize})
	}
	return outline
}

// dedupe drops consecutive repeated points, including a closing point
// equal to the first.
func dedupe(o model.Outline) model.Outline {
	out := make(model.Outline, 0, len(o))
	for _, p := range o {
		if len(out) > 0 && pointsClose(out[len(out)-1], p, chainTolerance) {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && pointsClose(out[0], out[len(out)-1], chainTolerance) {
		out = out[:len(out)-1]
	}
	return out
}

// squareShape reports whether the outline is a square, with its side and
// rotation in [0, pi/2).
func squareShape(o model.Outline) (side, rotation float64, ok bool) {
	pts := dedupe(o)
	if len(pts) != 4 {
		return 0, 0, false
	}

	var edges [4]model.Point2D
	for i := range pts {
		edges[i] = pts[(i+1)%4].Sub(pts[i])
	}

	side = edges[0].Length()
	if side < 1e-9 {
		return 0, 0, false
	}
	for i, e := range edges {
		if math.Abs(e.Length()-side) > sideTolerance*side {
			return 0, 0, false
		}
		next := edges[(i+1)%4]
		if math.Abs(e.Dot(next)) > sideTolerance*side*side {
			return 0, 0, false
		}
	}

	rotation = engine.NormalizeRotation(math.Atan2(edges[0].Y, edges[0].X))
	return side, rotation, true
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Outlines keep the order of their first segment.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []model.Outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Open chains are not outlines.
		if len(chain) < 4 || !pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			continue
		}
		outlines = append(outlines, model.Outline(chain[:len(chain)-1]))
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return a.Sub(b).Length() <= tolerance
}
