package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/SquarePack/internal/model"
)

// State is the lifecycle phase of an Engine.
type State int

const (
	// Idle: no run configured or the last run was reset. Ticks are no-ops.
	Idle State = iota
	// Running: each tick rearranges then inserts.
	Running
	// Paused: a running packing halted by Stop. Ticks are no-ops; Resume continues.
	Paused
	// Terminated: the failure budget was exceeded. Ticks are no-ops until Reset.
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// TickResult is the post-tick view handed to a driver for rendering.
type TickResult struct {
	Squares      []model.Square
	FailureCount uint64
	Terminated   bool
	State        State
	Tick         int // ticks executed since Start, including this one
	Inserted     int // successful insertions during this tick
	Moved        int // accepted rearrangements during this tick
}

// Engine owns a packing: the ordered squares, the consecutive failure counter
// and the configuration of the current run. It is not safe for concurrent use;
// a single driver goroutine calls Tick and reads state between ticks.
type Engine struct {
	cfg       model.Config
	container model.Container
	rng       Rand
	gen       *Generator
	validator *Validator

	squares      []model.Square
	failureCount uint64
	state        State
	ticks        int
}

// New returns an Idle engine for cfg drawing from rng. It fails with a
// *model.ConfigurationError if cfg is out of domain. A nil rng is replaced by
// a source seeded with 1.
func New(cfg model.Config, rng Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(1)
	}
	e := &Engine{rng: rng, squares: []model.Square{}}
	e.install(cfg)
	return e, nil
}

func (e *Engine) install(cfg model.Config) {
	e.cfg = cfg
	e.container = cfg.Container()
	e.gen = NewGenerator(e.rng, e.container)
	e.validator = NewValidator(e.container)
}

// Start validates and installs cfg, clears any previous packing and enters
// Running. On error the engine is left untouched.
func (e *Engine) Start(cfg model.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.install(cfg)
	e.clear()
	e.state = Running
	logrus.WithFields(logrus.Fields{
		"area":         cfg.ContainerArea,
		"max_failures": cfg.MaxFailures,
		"attempts":     cfg.AttemptsPerFrame,
		"rearr":        cfg.RearrAttemptsPerFrame,
	}).Debug("packing started")
	return nil
}

// Stop pauses a running packing. It has no effect in any other state.
func (e *Engine) Stop() {
	if e.state != Running {
		return
	}
	e.state = Paused
	logrus.WithField("count", len(e.squares)).Debug("packing stopped")
}

// Resume continues a paused packing. It has no effect in any other state.
func (e *Engine) Resume() {
	if e.state != Paused {
		return
	}
	e.state = Running
	logrus.WithField("count", len(e.squares)).Debug("packing resumed")
}

// Reset clears squares and the failure counter and returns to Idle from any
// state. The configuration is kept for the next Start.
func (e *Engine) Reset() {
	e.clear()
	e.state = Idle
	logrus.Debug("packing reset")
}

func (e *Engine) clear() {
	e.squares = []model.Square{}
	e.failureCount = 0
	e.ticks = 0
}

// Tick performs one simulation step while Running: RearrAttemptsPerFrame
// rearrangement attempts followed by AttemptsPerFrame insertion attempts.
// Once the failure counter exceeds MaxFailures the engine terminates. In any
// other state Tick changes nothing and reports the current state.
func (e *Engine) Tick() TickResult {
	if e.state != Running {
		return e.result(0, 0)
	}

	moved := 0
	for i := 0; i < e.cfg.RearrAttemptsPerFrame; i++ {
		if e.TryRearrange() {
			moved++
		}
	}

	inserted := 0
	for i := 0; i < e.cfg.AttemptsPerFrame; i++ {
		if e.TryInsert() {
			inserted++
		}
	}

	e.ticks++
	if e.failureCount > uint64(e.cfg.MaxFailures) {
		e.state = Terminated
		logrus.WithFields(logrus.Fields{
			"count": len(e.squares),
			"ticks": e.ticks,
		}).Infof("no free space, final count: %d", len(e.squares))
	}
	return e.result(inserted, moved)
}

func (e *Engine) result(inserted, moved int) TickResult {
	return TickResult{
		Squares:      e.Squares(),
		FailureCount: e.failureCount,
		Terminated:   e.state == Terminated,
		State:        e.state,
		Tick:         e.ticks,
		Inserted:     inserted,
		Moved:        moved,
	}
}

// TryInsert draws one insertion candidate. An admissible candidate is appended
// and resets the failure counter; otherwise the counter grows by one.
func (e *Engine) TryInsert() bool {
	return e.insertCandidate(e.gen.Insertion())
}

func (e *Engine) insertCandidate(candidate model.Square) bool {
	if !e.validator.IsValid(candidate, e.squares, noExclude) {
		e.failureCount++
		return false
	}
	e.squares = append(e.squares, candidate)
	e.failureCount = 0
	return true
}

// TryRearrange perturbs one uniformly chosen square. The move is kept only if
// the result is admissible against the other squares and strictly farther from
// the container center than before. It returns whether the move was kept.
func (e *Engine) TryRearrange() bool {
	if len(e.squares) == 0 {
		return false
	}
	idx := e.rng.Intn(len(e.squares))
	return e.rearrangeCandidate(idx, e.gen.Perturb(e.squares[idx], e.cfg.TransStep, e.cfg.RotStep))
}

func (e *Engine) rearrangeCandidate(idx int, candidate model.Square) bool {
	if !e.validator.IsValid(candidate, e.squares, idx) {
		return false
	}
	before := e.container.DistanceSquared(e.squares[idx].Center())
	if e.container.DistanceSquared(candidate.Center()) <= before {
		return false
	}
	e.squares[idx] = candidate
	return true
}

// Squares returns a copy of the placed squares in insertion order.
func (e *Engine) Squares() []model.Square {
	out := make([]model.Square, len(e.squares))
	copy(out, e.squares)
	return out
}

// Count returns the number of placed squares.
func (e *Engine) Count() int { return len(e.squares) }

// FailureCount returns the consecutive failed insertions since the last success.
func (e *Engine) FailureCount() uint64 { return e.failureCount }

// State returns the lifecycle phase.
func (e *Engine) State() State { return e.state }

// Config returns the installed configuration.
func (e *Engine) Config() model.Config { return e.cfg }

// Container returns the container of the installed configuration.
func (e *Engine) Container() model.Container { return e.container }

// Ticks returns the number of ticks executed since the last Start.
func (e *Engine) Ticks() int { return e.ticks }

// Density returns the covered fraction of the container in percent.
func (e *Engine) Density() float64 {
	return float64(len(e.squares)) * model.SquareSide * model.SquareSide / e.container.Area() * 100.0
}

// Snapshot captures the current packing as a run record.
func (e *Engine) Snapshot(name string, seed int64) model.Run {
	run := model.NewRun(name, seed, e.cfg)
	run.Squares = e.Squares()
	run.FailureCount = e.failureCount
	run.Ticks = e.ticks
	run.Terminated = e.state == Terminated
	return run
}
