package engine

import (
	"fmt"

	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
)

// ViolationKind classifies a layout defect.
type ViolationKind string

const (
	ViolationContainment ViolationKind = "containment"
	ViolationOverlap     ViolationKind = "overlap"
)

// Violation describes one defect found by Audit. For containment violations
// Other is -1.
type Violation struct {
	Kind  ViolationKind
	Index int
	Other int
	Depth float64 // penetration depth for overlaps
}

func (v Violation) String() string {
	if v.Kind == ViolationOverlap {
		return fmt.Sprintf("squares %d and %d overlap by %.6f", v.Index, v.Other, v.Depth)
	}
	return fmt.Sprintf("square %d leaves the container", v.Index)
}

// Audit checks a layout against the containment and no-overlap rules the
// engine maintains and returns every violation, ordered by index. A layout
// produced by the engine always audits clean.
func Audit(squares []model.Square, container model.Container) []Violation {
	var violations []Violation
	v := NewValidator(container)

	polys := make([]model.Outline, len(squares))
	for i, s := range squares {
		polys[i] = geometry.SquareVertices(s)
		if !v.InBounds(s) {
			violations = append(violations, Violation{Kind: ViolationContainment, Index: i, Other: -1})
		}
	}

	for i := 0; i < len(squares); i++ {
		for j := i + 1; j < len(squares); j++ {
			dx, dy := squares[j].X-squares[i].X, squares[j].Y-squares[i].Y
			if dx*dx+dy*dy > broadPhaseDistSq {
				continue
			}
			if mtv, hit := geometry.SeparatingAxisTest(polys[i], polys[j], v.tolerance); hit {
				violations = append(violations, Violation{Kind: ViolationOverlap, Index: i, Other: j, Depth: mtv.Length()})
			}
		}
	}
	return violations
}
