// Package geometry computes oriented unit-square outlines and tests convex
// polygons for overlap with the separating axis theorem.
package geometry

import (
	"math"

	"github.com/piwi3910/SquarePack/internal/model"
)

// ContactTolerance is the axis overlap at or below which two polygons count
// as separated. Touching squares are admissible neighbours.
const ContactTolerance = 1e-9

// degenerateEdge is the squared edge length below which an edge yields no axis.
const degenerateEdge = 1e-24

// Vertices returns the four corners of a unit square centered at center and
// rotated by rotation radians, counter-clockwise from the bottom-left corner.
func Vertices(center model.Point2D, rotation float64) model.Outline {
	half := model.SquareSide / 2.0
	corners := [4][2]float64{{-half, -half}, {half, -half}, {half, half}, {-half, half}}

	sin, cos := math.Sincos(rotation)
	outline := make(model.Outline, 4)
	for i, c := range corners {
		outline[i] = model.Point2D{
			X: center.X + c[0]*cos - c[1]*sin,
			Y: center.Y + c[0]*sin + c[1]*cos,
		}
	}
	return outline
}

// SquareVertices returns the outline of a placed square.
func SquareVertices(s model.Square) model.Outline {
	return Vertices(s.Center(), s.Rotation)
}

// SeparatingAxisTest projects both convex polygons onto the normal of every
// edge of either polygon. If any axis shows an overlap of at most tolerance the
// polygons are separated and ok is false. Otherwise ok is true and mtv is the
// minimum translation vector: the least-overlap axis scaled by that overlap,
// pointing from a's centroid toward b's centroid.
func SeparatingAxisTest(a, b model.Outline, tolerance float64) (mtv model.Point2D, ok bool) {
	if len(a) == 0 || len(b) == 0 {
		return model.Point2D{}, false
	}

	minOverlap := math.Inf(1)
	var minAxis model.Point2D
	found := false

	for _, poly := range [2]model.Outline{a, b} {
		n := len(poly)
		for i := 0; i < n; i++ {
			edge := poly[(i+1)%n].Sub(poly[i])
			lenSq := edge.Dot(edge)
			if lenSq < degenerateEdge {
				continue
			}
			norm := math.Sqrt(lenSq)
			axis := model.Point2D{X: edge.Y / norm, Y: -edge.X / norm}

			minA, maxA := project(a, axis)
			minB, maxB := project(b, axis)
			overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
			if overlap <= tolerance {
				return model.Point2D{}, false
			}
			if overlap < minOverlap {
				minOverlap = overlap
				minAxis = axis
				found = true
			}
		}
	}

	// Every edge was degenerate: there is no axis to separate on.
	if !found {
		return model.Point2D{}, false
	}

	d := b.Centroid().Sub(a.Centroid())
	if d.Dot(minAxis) < 0 {
		minAxis = minAxis.Scale(-1)
	}
	return minAxis.Scale(minOverlap), true
}

// Overlaps reports whether two squares interpenetrate by more than
// ContactTolerance.
func Overlaps(s, t model.Square) bool {
	_, hit := SeparatingAxisTest(SquareVertices(s), SquareVertices(t), ContactTolerance)
	return hit
}

// project returns the extent of poly along axis.
func project(poly model.Outline, axis model.Point2D) (min, max float64) {
	min = poly[0].Dot(axis)
	max = min
	for _, p := range poly[1:] {
		v := p.Dot(axis)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
