// Package world drives the climbing-rope physics core: constructing a
// Rope and Barriers from a Config, running the per-step
// force/integrate/project/friction/re-mesh pipeline, and producing the
// append-only Snapshot sequence the advance loop emits at a configured
// frame rate while remaining cooperatively interruptible.
package world

import (
	"fmt"
	"time"

	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/rope"
	"github.com/climbfall/ropefall/internal/vecmath"
)

// World is the process-local mutable simulation record: the registered
// bodies (reachable transitively through Rope), the barrier set, and
// the shared constants every per-step operation reads. There is
// deliberately no separate "registered bodies" list: Rope.ActiveBodies
// derives it from the rope's current topology each time, so it can
// never drift out of sync with a re-mesh.
type World struct {
	Rope     *rope.Rope
	Barriers []rope.Barrier
	Gravity  vecmath.Vector
	MaxStep  float64
	Logger   rope.Logger
	Config   *config.Config

	// YieldBudget overrides the ~500 ms wall-clock interval between
	// interrupt checks in Advance; zero keeps the default.
	YieldBudget time.Duration

	nextID uint64
}

// NewBodyID mints the next monotonic body identity, unique within this
// World (each World keeps its own counter). Safe
// to pass directly as Rope.NewBodyID.
func (w *World) NewBodyID() uint64 {
	w.nextID++
	return w.nextID
}

// SimError names the simulated time at which a fatal domain error
// occurred; the wrapped rope error carries the offending segment index
// and deflection-point count.
type SimError struct {
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("t=%.6gs: %s", e.Time, e.Wrapped.Error())
}

func (e *SimError) Unwrap() error { return e.Wrapped }

// clearAndApplyForces resets every active body's force accumulator and
// re-derives gravity plus spring/damping forces from current geometry.
func (w *World) clearAndApplyForces() error {
	for _, b := range w.Rope.ActiveBodies() {
		b.ClearForce()
	}
	w.Rope.ApplyGravity(w.Gravity)
	return w.Rope.ApplyForces(w.Logger)
}

// integrate advances every active body by dt using its currently
// accumulated force.
func (w *World) integrate(dt float64) {
	for _, b := range w.Rope.ActiveBodies() {
		b.Integrate(dt)
	}
}

// projectBarriers enforces every barrier, in insertion order, on every
// movable active body.
func (w *World) projectBarriers() {
	for _, b := range w.Rope.ActiveBodies() {
		if b.Fixed() {
			continue
		}
		for _, barrier := range w.Barriers {
			barrier.Project(b)
		}
	}
}

// observeForces updates the rolling force-average window of every
// active body, once per step after forces settle.
func (w *World) observeForces(dt float64) {
	for _, b := range w.Rope.ActiveBodies() {
		b.ObserveForce(dt)
	}
}

// EnergyBudget sums kinetic, gravitational-potential (relative to the
// belayer's height) and elastic energy across the whole world.
func (w *World) EnergyBudget() float64 {
	reference := 0.0
	if len(w.Rope.Joints) > 0 {
		reference = w.Rope.Joints[0].Position.Dot(vecmath.New(0, 1, 0))
	}
	total := w.Rope.ElasticEnergy()
	for _, b := range w.Rope.ActiveBodies() {
		total += b.KineticEnergy()
		total += b.PotentialEnergy(w.Gravity, reference)
	}
	return total
}
