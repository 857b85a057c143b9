package engine

import (
	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
)

// broadPhaseDistSq is the squared sum of two unit-square circumradii. Squares
// whose centers are farther apart than this cannot touch.
const broadPhaseDistSq = 2.0 * model.SquareSide * model.SquareSide

// noExclude is passed as the exclude index when no square is skipped.
const noExclude = -1

// Validator decides whether a candidate square may join a packing.
type Validator struct {
	container model.Container
	tolerance float64
}

// NewValidator returns a validator for the given container using
// geometry.ContactTolerance.
func NewValidator(container model.Container) *Validator {
	return &Validator{container: container, tolerance: geometry.ContactTolerance}
}

// InBounds reports whether all four corners of the square lie inside the
// container.
func (v *Validator) InBounds(s model.Square) bool {
	for _, p := range geometry.SquareVertices(s) {
		if !v.container.Contains(p) {
			return false
		}
	}
	return true
}

// IsValid reports whether candidate lies inside the container and overlaps
// none of squares, ignoring the square at index exclude (pass a negative
// index to compare against all of them). It has no side effects.
func (v *Validator) IsValid(candidate model.Square, squares []model.Square, exclude int) bool {
	poly := geometry.SquareVertices(candidate)
	for _, p := range poly {
		if !v.container.Contains(p) {
			return false
		}
	}

	for i, other := range squares {
		if i == exclude {
			continue
		}
		dx, dy := other.X-candidate.X, other.Y-candidate.Y
		if dx*dx+dy*dy > broadPhaseDistSq {
			continue
		}
		if _, hit := geometry.SeparatingAxisTest(poly, geometry.SquareVertices(other), v.tolerance); hit {
			return false
		}
	}
	return true
}
