package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SquareSide is the side length shared by every packed square.
const SquareSide = 1.0

// Point2D represents a 2D coordinate in container units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both components by f.
func (p Point2D) Scale(f float64) Point2D {
	return Point2D{X: p.X * f, Y: p.Y * f}
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the Euclidean norm of p.
func (p Point2D) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Centroid returns the vertex average of the outline.
func (o Outline) Centroid() Point2D {
	if len(o) == 0 {
		return Point2D{}
	}
	var c Point2D
	for _, p := range o {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(o))
	return Point2D{X: c.X / n, Y: c.Y / n}
}

// Square is one placed unit square: its center and rotation in radians.
type Square struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Center returns the square's center point.
func (s Square) Center() Point2D {
	return Point2D{X: s.X, Y: s.Y}
}

// Container is the axis-aligned square region [0, Side] x [0, Side].
type Container struct {
	Side float64 `json:"side"`
}

// NewContainer returns the container whose area is the given value.
func NewContainer(area float64) Container {
	return Container{Side: math.Sqrt(area)}
}

// Area returns Side squared.
func (c Container) Area() float64 {
	return c.Side * c.Side
}

// Center returns the midpoint of the container.
func (c Container) Center() Point2D {
	return Point2D{X: c.Side / 2, Y: c.Side / 2}
}

// Contains reports whether p lies inside the closed container region.
func (c Container) Contains(p Point2D) bool {
	return p.X >= 0 && p.X <= c.Side && p.Y >= 0 && p.Y <= c.Side
}

// DistanceSquared returns the squared distance from the container center to p.
func (c Container) DistanceSquared(p Point2D) float64 {
	d := p.Sub(c.Center())
	return d.Dot(d)
}

// Run ties a configuration, its seed and the resulting layout together for
// save/load and export.
type Run struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CreatedAt    string   `json:"created_at"`
	Seed         int64    `json:"seed"`
	Config       Config   `json:"config"`
	Squares      []Square `json:"squares"`
	FailureCount uint64   `json:"failure_count"`
	Ticks        int      `json:"ticks"`
	Terminated   bool     `json:"terminated"`
}

// NewRun creates an empty run for the given seed and configuration.
func NewRun(name string, seed int64, cfg Config) Run {
	if name == "" {
		name = "Untitled"
	}
	return Run{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Seed:      seed,
		Config:    cfg,
		Squares:   []Square{},
	}
}

// Container returns the run's container.
func (r Run) Container() Container {
	return NewContainer(r.Config.ContainerArea)
}

// Count returns the number of placed squares.
func (r Run) Count() int {
	return len(r.Squares)
}

// Density returns the covered fraction of the container in percent.
func (r Run) Density() float64 {
	if r.Config.ContainerArea <= 0 {
		return 0
	}
	return float64(len(r.Squares)) * SquareSide * SquareSide / r.Config.ContainerArea * 100.0
}
