package model

import "math"

// PackingEstimate compares a packed layout against simple capacity bounds.
type PackingEstimate struct {
	ContainerSide float64 `json:"container_side"` // Side length L
	ContainerArea float64 `json:"container_area"` // L^2
	Placed        int     `json:"placed"`         // Squares actually placed
	GridCount     int     `json:"grid_count"`     // floor(L)^2, the axis-aligned lattice packing
	AreaBound     int     `json:"area_bound"`     // floor(L^2), no packing can exceed this
	Density       float64 `json:"density"`        // Covered fraction in percent
	GridRatio     float64 `json:"grid_ratio"`     // Placed / GridCount in percent
	BoundRatio    float64 `json:"bound_ratio"`    // Placed / AreaBound in percent
}

// CalculatePackingEstimate computes capacity bounds for a container of the
// given area and relates the placed count to them.
func CalculatePackingEstimate(area float64, placed int) PackingEstimate {
	if area <= 0 {
		return PackingEstimate{Placed: placed}
	}

	side := math.Sqrt(area)
	perRow := int(math.Floor(side / SquareSide))
	grid := perRow * perRow
	bound := int(math.Floor(area / (SquareSide * SquareSide)))

	est := PackingEstimate{
		ContainerSide: side,
		ContainerArea: area,
		Placed:        placed,
		GridCount:     grid,
		AreaBound:     bound,
		Density:       float64(placed) * SquareSide * SquareSide / area * 100.0,
	}
	if grid > 0 {
		est.GridRatio = float64(placed) / float64(grid) * 100.0
	}
	if bound > 0 {
		est.BoundRatio = float64(placed) / float64(bound) * 100.0
	}
	return est
}

// Estimate returns the packing estimate for the run's current layout.
func (r Run) Estimate() PackingEstimate {
	return CalculatePackingEstimate(r.Config.ContainerArea, len(r.Squares))
}
