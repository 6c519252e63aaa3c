package world

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/climbfall/ropefall/internal/rope"
	"github.com/climbfall/ropefall/internal/vecmath"
)

// defaultYieldBudget is the wall-clock interval after which the advance
// loop checks for interruption and yields the thread.
const defaultYieldBudget = 500 * time.Millisecond

// Result is what the advance loop hands back: the append-only
// snapshot sequence, the simulated duration actually reached (which
// may fall short of the requested target if interrupted), and summary
// statistics of the run.
type Result struct {
	Snapshots   []Snapshot
	FinalTime   float64
	Interrupted bool
	PeakTension float64
	PeakSpeed   float64
	RestLength  float64
}

// PrimeForces derives a consistent force state from the world's current
// geometry: every force buffer cleared, gravity and rope forces
// re-accumulated, rolling force averages refreshed. Must run once
// before the first Step so the t=0 snapshot and the first integration
// see real forces rather than zeroed buffers.
func (w *World) PrimeForces() error {
	if err := w.clearAndApplyForces(); err != nil {
		return err
	}
	w.observeForces(0)
	return nil
}

// Step advances the world by one step of dt: integrate, project
// barriers, Capstan sliding, re-mesh, then re-derive gravity and rope
// forces so the post-step force buffers describe the new geometry.
// The ordering matters: a snapshot taken between steps must see forces
// consistent with the just-computed positions, and the next
// integration must start from a clean force buffer.
func (w *World) Step(dt float64) error {
	w.integrate(dt)
	w.projectBarriers()
	w.Rope.UpdateCapstan(dt)
	if err := w.Rope.Remesh(w.Logger); err != nil {
		return err
	}
	if err := w.clearAndApplyForces(); err != nil {
		return err
	}
	w.observeForces(dt)
	return nil
}

// Advance runs the simulation for up to duration seconds of simulated
// time at the world's configured step size, emitting snapshots at the
// configured frame rate, and returns early with Interrupted set if ctx
// is cancelled at a yield boundary. Interruption is not an error; the
// snapshots completed so far are the normal product.
func (w *World) Advance(ctx context.Context, duration float64) (*Result, error) {
	dt := w.MaxStep
	if dt <= 0 {
		dt = 1e-4
	}
	frameRate := 40.0
	if w.Config != nil && w.Config.FrameRate > 0 {
		frameRate = w.Config.FrameRate
	}
	snapshotInterval := 1 / frameRate

	yieldBudget := w.YieldBudget
	if yieldBudget <= 0 {
		yieldBudget = defaultYieldBudget
	}

	result := &Result{}
	if err := w.PrimeForces(); err != nil {
		return result, &SimError{Time: 0, Wrapped: err}
	}
	result.Snapshots = append(result.Snapshots, w.snapshot(0))
	result.FinalTime = 0
	lastSnapshotTime := 0.0
	w.trackPeaks(result)

	steps := int(math.Ceil(duration / dt))
	lastYield := time.Now()

	for i := 1; i <= steps; i++ {
		t := float64(i) * dt

		if err := w.Step(dt); err != nil {
			return result, &SimError{Time: t, Wrapped: err}
		}
		w.trackPeaks(result)

		result.FinalTime = t
		if t-lastSnapshotTime >= snapshotInterval {
			result.Snapshots = append(result.Snapshots, w.snapshot(t))
			lastSnapshotTime = t
		}

		if time.Since(lastYield) >= yieldBudget {
			select {
			case <-ctx.Done():
				result.Interrupted = true
				return result, nil
			default:
			}
			lastYield = time.Now()
			runtime.Gosched()
		}
	}
	return result, nil
}

func (w *World) trackPeaks(result *Result) {
	if t := w.Rope.PeakTension(); t > result.PeakTension {
		result.PeakTension = t
	}
	for _, b := range w.Rope.ActiveBodies() {
		if s := b.MaxSpeed(); s > result.PeakSpeed {
			result.PeakSpeed = s
		}
	}
	result.RestLength = w.Rope.RestLength()
}

var kindColors = map[rope.Kind]Color{
	rope.KindAnchor:    RGB(120, 120, 120),
	rope.KindClimber:   RGB(220, 60, 60),
	rope.KindQuickdraw: RGB(60, 140, 220),
	rope.KindJoint:     RGB(200, 200, 60),
	rope.KindGeneric:   RGB(180, 180, 180),
}

func (w *World) snapshot(t float64) Snapshot {
	reference := 0.0
	if len(w.Rope.Joints) > 0 {
		reference = w.Rope.Joints[0].Position.Y
	}

	records := make([]BodyRecord, 0, len(w.Rope.ActiveBodies())+1)
	for _, b := range w.Rope.ActiveBodies() {
		pos := b.Position
		ke := b.KineticEnergy()
		pe := b.PotentialEnergy(w.Gravity, reference)
		rec := BodyRecord{
			Type:            RecordPointMass,
			ID:              b.ID(),
			Name:            b.Name,
			InstantForce:    b.InstantForce(),
			AverageForce:    b.AverageForce(),
			ForceAvgWindow:  b.ForceAvgWindow,
			KineticEnergy:   ke,
			PotentialEnergy: pe,
			TotalEnergy:     ke + pe,
			Position:        &pos,
			Color:           kindColors[b.Kind].String(),
			Radius:          bodyRadius(b.Kind),
		}
		maxSpeed := b.MaxSpeed()
		maxAvg := b.MaxAverageForce()
		rec.MaxSpeed = &maxSpeed
		rec.MaxAverageForce = &maxAvg
		records = append(records, rec)
	}

	polyline := w.Rope.Polyline()
	ropeRecord := BodyRecord{
		Type:          RecordRope,
		ElasticEnergy: w.Rope.ElasticEnergy(),
		Color:         "rgb(230,230,230)",
		Thickness:     0.01,
	}
	ropeRecord.Polyline = make([]vecmath.Vector, 0, len(polyline))
	for _, b := range polyline {
		ropeRecord.Polyline = append(ropeRecord.Polyline, b.Position)
	}
	ropeRecord.TotalEnergy = ropeRecord.ElasticEnergy
	records = append(records, ropeRecord)

	version := ""
	if w.Config != nil {
		version = w.Config.Version
	}
	return Snapshot{Time: t, Bodies: records, Version: version}
}

func bodyRadius(k rope.Kind) float64 {
	switch k {
	case rope.KindClimber:
		return 0.3
	case rope.KindAnchor:
		return 0.1
	case rope.KindQuickdraw:
		return 0.05
	default:
		return 0.02
	}
}
