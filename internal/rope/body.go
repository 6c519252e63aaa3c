package rope

import (
	"math"

	"github.com/climbfall/ropefall/internal/vecmath"
)

// Kind tags a Body for downstream consumers (snapshot rendering,
// colouring). It carries no behaviour inside the physics core itself.
type Kind string

const (
	KindAnchor    Kind = "anchor"
	KindQuickdraw Kind = "quickdraw"
	KindClimber   Kind = "climber"
	KindJoint     Kind = "rope-joint"
	KindGeneric   Kind = "generic"
)

// NewBody constructs a body with the given identity, supplied by the
// owning World's monotonic counter. The counter itself
// lives on World, not here, so tests can build bodies without a World.
func NewBody(id uint64, kind Kind, mass float64, pos vecmath.Vector) *Body {
	return &Body{
		id:             id,
		Kind:           kind,
		Mass:           mass,
		Damping:        1,
		Position:       pos,
		ForceAvgWindow: DefaultForceAvgWindow,
	}
}

// DefaultForceAvgWindow is the rolling window (seconds) over which a
// Body's time-averaged force magnitude is computed.
const DefaultForceAvgWindow = 0.05

// forceSample is one entry in a Body's rolling force-magnitude window.
type forceSample struct {
	t   float64 // simulation time at which the sample ends
	dt  float64 // duration the sample covers
	mag float64 // instantaneous force magnitude over that duration
}

// Body is a point mass with position, velocity, accumulated force, a
// rolling force-magnitude average, a running maximum of that average,
// a running maximum speed, and a stable identity unique within its
// World.
type Body struct {
	id   uint64
	Name string
	Kind Kind

	Mass     float64
	Damping  float64 // velocity damping factor in (0,1], applied per second
	Friction float64 // mu, used only when the body is a deflection point

	Position vecmath.Vector
	Velocity vecmath.Vector
	Force    vecmath.Vector

	ForceAvgWindow float64
	samples        []forceSample
	windowSum      float64
	windowSpan     float64

	instantForce    float64
	avgForce        float64
	runningMaxAvg   float64
	runningMaxSpeed float64
}

// ID returns the body's stable identity, unique within its World.
func (b *Body) ID() uint64 { return b.id }

// Fixed reports whether the body is immovable (mass == 0).
func (b *Body) Fixed() bool { return b.Mass == 0 }

// ClearForce resets the accumulated force to zero. Called once per
// step, before gravity and spring forces are accumulated.
func (b *Body) ClearForce() { b.Force = vecmath.Zero }

// AddForce accumulates f into the body's per-step force buffer.
func (b *Body) AddForce(f vecmath.Vector) { b.Force = b.Force.Add(f) }

// Integrate applies semi-implicit Euler integration for one step of
// duration dt: velocity is advanced by the instantaneous acceleration
// and damped, then position is advanced by the new velocity. Fixed
// bodies (mass == 0) never move.
func (b *Body) Integrate(dt float64) {
	if b.Fixed() {
		b.Velocity = vecmath.Zero
		return
	}
	accel := b.Force.Scale(1 / b.Mass)
	b.Velocity = b.Velocity.Add(accel.Scale(dt)).Scale(dampingFactor(b.Damping, dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	speed := b.Velocity.Norm()
	if speed > b.runningMaxSpeed {
		b.runningMaxSpeed = speed
	}
}

// dampingFactor converts a per-second damping coefficient into the
// per-step multiplier damping^dt.
func dampingFactor(perSecond, dt float64) float64 {
	if perSecond <= 0 {
		return 1
	}
	return math.Pow(perSecond, dt)
}

// ObserveForce records this step's force magnitude into the rolling
// window and refreshes the instantaneous/averaged/maximum-averaged
// readings. Must be called once per body per step, after the step's
// force has been fully accumulated.
func (b *Body) ObserveForce(dt float64) {
	if b.ForceAvgWindow <= 0 {
		b.ForceAvgWindow = DefaultForceAvgWindow
	}
	mag := b.Force.Norm()
	b.instantForce = mag

	now := b.currentTime() + dt
	b.samples = append(b.samples, forceSample{t: now, dt: dt, mag: mag})
	b.windowSum += mag * dt
	b.windowSpan += dt

	for len(b.samples) > 0 && now-b.samples[0].t > b.ForceAvgWindow {
		oldest := b.samples[0]
		b.windowSum -= oldest.mag * oldest.dt
		b.windowSpan -= oldest.dt
		b.samples = b.samples[1:]
	}
	if b.windowSpan > 0 {
		b.avgForce = b.windowSum / b.windowSpan
	} else {
		b.avgForce = mag
	}
	if b.avgForce > b.runningMaxAvg {
		b.runningMaxAvg = b.avgForce
	}
}

func (b *Body) currentTime() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	return b.samples[len(b.samples)-1].t
}

// InstantForce is the magnitude of the force accumulated this step.
func (b *Body) InstantForce() float64 { return b.instantForce }

// AverageForce is the time-averaged force magnitude over ForceAvgWindow.
func (b *Body) AverageForce() float64 { return b.avgForce }

// MaxAverageForce is the running maximum of AverageForce across the run.
func (b *Body) MaxAverageForce() float64 { return b.runningMaxAvg }

// MaxSpeed is the running maximum of the body's speed across the run.
func (b *Body) MaxSpeed() float64 { return b.runningMaxSpeed }

// KineticEnergy is 1/2 m v^2; zero for fixed bodies.
func (b *Body) KineticEnergy() float64 {
	v := b.Velocity.Norm()
	return 0.5 * b.Mass * v * v
}

// PotentialEnergy is m g h relative to a reference height, along the
// direction opposite gravity (gravity points in -up).
func (b *Body) PotentialEnergy(gravity vecmath.Vector, referenceHeight float64) float64 {
	g := gravity.Norm()
	if g == 0 {
		return 0
	}
	up := gravity.Scale(-1 / g)
	height := b.Position.Dot(up)
	return b.Mass * g * (height - referenceHeight)
}
