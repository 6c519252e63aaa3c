package world

import (
	"math"
	"math/rand"

	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/rope"
	"github.com/climbfall/ropefall/internal/vecmath"
)

const jitterRange = 0.01 // symmetric uniform jitter in [-0.01, +0.01] m

// Build constructs a World from a configuration:
// placing the belayer, climber and deflection points on the wall
// plane with a small symmetry-breaking jitter, computing the rope's
// stretched-vs-rest-length ratio, slicing N equal-stretched-length
// segments across the resulting polyline, inserting joint bodies at
// the segment boundaries, and running one re-mesh pass to absorb
// anything already below L_min.
func Build(cfg *config.Config, logger rope.Logger) (*World, error) {
	if logger == nil {
		logger = rope.NopLogger{}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	jitter := func() vecmath.Vector {
		f := func() float64 { return rng.Float64()*2*jitterRange - jitterRange }
		return vecmath.New(f(), f(), f())
	}

	wallAngle := cfg.WallAngleDeg * math.Pi / 180
	place := func(height, sideways, wallDistance float64) vecmath.Vector {
		z := (wallDistance + math.Sin(wallAngle)*height) / math.Cos(wallAngle)
		return vecmath.New(sideways, height, z).Add(jitter())
	}

	belayerMass := cfg.BelayerWeight
	if cfg.FixedAnchor || cfg.BelayerFixed {
		belayerMass = 0
	}

	anchorPos := place(0, 0, cfg.BelayerWallDistance)
	climberPos := place(cfg.ClimberHeight, cfg.ClimberSideways, cfg.ClimberWallDistance)

	drawPos := make([]vecmath.Vector, len(cfg.Draws))
	for i, d := range cfg.Draws {
		drawPos[i] = place(d.Height, d.Sideways, d.WallDistance)
	}

	w := &World{
		Gravity: vecmath.New(0, -9.80665, 0),
		MaxStep: cfg.StepSize(),
		Logger:  logger,
		Config:  cfg,
	}

	wallNormal, _ := vecmath.New(0, -math.Sin(wallAngle), math.Cos(wallAngle)).Normalized()
	w.Barriers = append(w.Barriers, rope.NewBarrier(wallNormal, 0))
	if cfg.GroundPresent {
		w.Barriers = append(w.Barriers, rope.NewBarrier(vecmath.New(0, 1, 0), cfg.GroundLevel))
	}

	anchorBody := rope.NewBody(w.NewBodyID(), rope.KindAnchor, belayerMass, anchorPos)
	anchorBody.Name = "belayer"
	climberBody := rope.NewBody(w.NewBodyID(), rope.KindClimber, cfg.ClimberWeight, climberPos)
	climberBody.Name = "climber"

	drawBodies := make([]*rope.Body, len(drawPos))
	for i, p := range drawPos {
		b := rope.NewBody(w.NewBodyID(), rope.KindQuickdraw, 0, p)
		b.Friction = cfg.FrictionCoefficient
		drawBodies[i] = b
	}

	chain := make([]vecmath.Vector, 0, len(drawPos)+2)
	chain = append(chain, anchorPos)
	chain = append(chain, drawPos...)
	chain = append(chain, climberPos)

	cum := make([]float64, len(chain))
	for i := 1; i < len(chain); i++ {
		cum[i] = cum[i-1] + chain[i].Distance(chain[i-1])
	}
	l0 := cum[len(cum)-1]

	restLength := l0 + cfg.Slack
	f := l0 / restLength

	n := cfg.RopeSegments
	if n < 1 {
		n = 1
	}
	lDefault := restLength / float64(n)
	lMin := 0.01 * lDefault
	lMax := 1.1 * lDefault
	kappa := cfg.Elasticity()
	segMass := cfg.RopeWeight * lDefault

	boundary := make([]float64, n+1)
	for s := 0; s <= n; s++ {
		boundary[s] = float64(s) / float64(n) * l0
	}

	pointAt := func(c float64) vecmath.Vector {
		for i := 1; i < len(chain); i++ {
			if c <= cum[i]+1e-12 {
				span := cum[i] - cum[i-1]
				if span < 1e-15 {
					return chain[i]
				}
				t := (c - cum[i-1]) / span
				return chain[i-1].Lerp(chain[i], t)
			}
		}
		return chain[len(chain)-1]
	}

	joints := make([]*rope.Body, n+1)
	joints[0] = anchorBody
	joints[n] = climberBody
	for s := 1; s < n; s++ {
		b := rope.NewBody(w.NewBodyID(), rope.KindJoint, 0, pointAt(boundary[s]))
		joints[s] = b
	}

	drawIdx := 0
	segments := make([]*rope.Segment, n)
	for s := 0; s < n; s++ {
		segStart, segEnd := boundary[s], boundary[s+1]

		nodePoints := []vecmath.Vector{pointAt(segStart)}
		nodeCum := []float64{segStart}
		deflections := []*rope.Body{}
		for drawIdx < len(drawPos) && cum[drawIdx+1] < segEnd-1e-12 {
			nodePoints = append(nodePoints, drawPos[drawIdx])
			nodeCum = append(nodeCum, cum[drawIdx+1])
			deflections = append(deflections, drawBodies[drawIdx])
			drawIdx++
		}
		nodePoints = append(nodePoints, pointAt(segEnd))
		nodeCum = append(nodeCum, segEnd)

		partitions := make([]float64, len(nodeCum)-1)
		for i := range partitions {
			partitions[i] = (nodeCum[i+1] - nodeCum[i]) / f
		}

		seg := &rope.Segment{
			Mass:        segMass,
			RestLength:  lDefault,
			LMin:        lMin,
			LMax:        lMax,
			LDefault:    lDefault,
			Kappa:       kappa,
			DPerp:       cfg.RopeBendDamping,
			DPar:        cfg.RopeStretchDamping,
			Left:        joints[s],
			Right:       joints[s+1],
			Deflections: deflections,
			Partitions:  partitions,
			SlideSpeeds: make([]float64, len(deflections)),
		}
		segments[s] = seg
	}

	w.Rope = &rope.Rope{
		Segments:  segments,
		Joints:    joints,
		NewBodyID: w.NewBodyID,
	}
	w.rebalanceEndJointMasses(belayerMass, cfg.ClimberWeight)

	if err := w.Rope.Remesh(logger); err != nil {
		return nil, &SimError{Time: 0, Wrapped: err}
	}
	return w, nil
}

// rebalanceEndJointMasses applies the half-neighbour rule to every
// interior joint and restores the configured end masses, which the
// construction loop above doesn't otherwise derive (rebalanceInterior-
// Joints lives on *rope.Rope, but the two endpoints must additionally
// be pinned back to their configured masses since the loop never wrote
// them from a neighbour rule in the first place).
func (w *World) rebalanceEndJointMasses(belayerMass, climberMass float64) {
	joints := w.Rope.Joints
	for j := 1; j < len(joints)-1; j++ {
		left := w.Rope.Segments[j-1]
		right := w.Rope.Segments[j]
		joints[j].Mass = 0.5*left.Mass + 0.5*right.Mass
	}
	joints[0].Mass = belayerMass
	joints[len(joints)-1].Mass = climberMass
}
