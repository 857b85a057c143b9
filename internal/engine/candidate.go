package engine

import (
	"math"

	"github.com/piwi3910/SquarePack/internal/model"
)

// quarterTurn is the rotational period of a square.
const quarterTurn = math.Pi / 2

// maxRejectionDraws caps the Gaussian redraws for one insertion candidate.
// For any positive container area a draw lands inside with probability ~0.91,
// so the cap is only reached by a broken random source.
const maxRejectionDraws = 1000

// Generator produces insertion proposals and local perturbations.
type Generator struct {
	rng       Rand
	container model.Container
}

// NewGenerator returns a generator drawing from rng for the given container.
func NewGenerator(rng Rand, container model.Container) *Generator {
	return &Generator{rng: rng, container: container}
}

// Insertion draws a candidate whose center follows a normal distribution
// around the container midpoint (sigma = L/4), redrawing until both
// coordinates lie in [0, L]. Rotation is uniform in [0, pi/2).
func (g *Generator) Insertion() model.Square {
	side := g.container.Side
	mean := side / 2
	sigma := side / 4

	x, y := 0.0, 0.0
	accepted := false
	for i := 0; i < maxRejectionDraws; i++ {
		x = mean + sigma*g.rng.NormFloat64()
		y = mean + sigma*g.rng.NormFloat64()
		if x >= 0 && x <= side && y >= 0 && y <= side {
			accepted = true
			break
		}
	}
	if !accepted {
		x = uniform(g.rng, 0, side)
		y = uniform(g.rng, 0, side)
	}

	return model.Square{X: x, Y: y, Rotation: uniform(g.rng, 0, quarterTurn)}
}

// Perturb shifts each center coordinate by a uniform offset in
// [-transStep, transStep] and the rotation by one in [-rotStep, rotStep],
// reducing the rotation into [0, pi/2).
func (g *Generator) Perturb(s model.Square, transStep, rotStep float64) model.Square {
	return model.Square{
		X:        s.X + uniform(g.rng, -transStep, transStep),
		Y:        s.Y + uniform(g.rng, -transStep, transStep),
		Rotation: NormalizeRotation(s.Rotation + uniform(g.rng, -rotStep, rotStep)),
	}
}

// NormalizeRotation reduces theta into [0, pi/2).
func NormalizeRotation(theta float64) float64 {
	r := math.Mod(theta, quarterTurn)
	if r < 0 {
		r += quarterTurn
	}
	if r >= quarterTurn {
		r = 0
	}
	return r
}
