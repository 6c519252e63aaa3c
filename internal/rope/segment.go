package rope

import (
	"math"

	"github.com/climbfall/ropefall/internal/vecmath"
)

// Segment is a spring-damper between two endpoint Bodies, threading an
// ordered list of zero-mass deflection points. It owns a partition of
// its rest length into N+1 sub-edges (N the number of deflection
// points it threads) and a signed sliding speed at each deflection
// point.
type Segment struct {
	Mass float64 // distributed to endpoints at construction/re-mesh time; used as m_segment for Capstan sliding

	RestLength float64
	LMin       float64
	LMax       float64
	LDefault   float64
	Kappa      float64 // 1/Newton, shared across the owning rope
	DPerp      float64
	DPar       float64

	Left, Right *Body
	Deflections []*Body
	Partitions  []float64 // len N+1, rest lengths of each sub-edge, sums to RestLength
	SlideSpeeds []float64 // len N, signed sliding speed at each deflection point
}

// NewSegment builds a straight (no-deflection) segment.
func NewSegment(left, right *Body, mass, restLength, lMin, lMax, lDefault, kappa, dPerp, dPar float64) *Segment {
	return &Segment{
		Mass:       mass,
		RestLength: restLength,
		LMin:       lMin,
		LMax:       lMax,
		LDefault:   lDefault,
		Kappa:      kappa,
		DPerp:      dPerp,
		DPar:       dPar,
		Left:       left,
		Right:      right,
		Partitions: []float64{restLength},
	}
}

// nodes returns the ordered polyline Left -> deflections... -> Right.
func (s *Segment) nodes() []*Body {
	out := make([]*Body, 0, len(s.Deflections)+2)
	out = append(out, s.Left)
	out = append(out, s.Deflections...)
	out = append(out, s.Right)
	return out
}

// subEdgeLengths returns the current Euclidean length of each sub-edge.
func (s *Segment) subEdgeLengths() []float64 {
	nodes := s.nodes()
	lengths := make([]float64, len(nodes)-1)
	for i := range lengths {
		lengths[i] = nodes[i+1].Position.Distance(nodes[i].Position)
	}
	return lengths
}

// subEdgeDirections returns the unit vector of each sub-edge, pointing
// from the node closer to Left to the node closer to Right. ok[i] is
// false for a degenerate (zero-length) sub-edge.
func (s *Segment) subEdgeDirections() ([]vecmath.Vector, []bool) {
	nodes := s.nodes()
	dirs := make([]vecmath.Vector, len(nodes)-1)
	ok := make([]bool, len(nodes)-1)
	for i := range dirs {
		dirs[i], ok[i] = nodes[i+1].Position.Sub(nodes[i].Position).Normalized()
	}
	return dirs, ok
}

// subEdgeTensions computes tau_i = (length_i - rest_i) / (rest_i * kappa)
// for every sub-edge.
func (s *Segment) subEdgeTensions(lengths []float64) []float64 {
	tau := make([]float64, len(lengths))
	for i, l := range lengths {
		tau[i] = (l - s.Partitions[i]) / (s.Partitions[i] * s.Kappa)
	}
	return tau
}

// CurrentLength is the segment's total stretched length L_cur.
func (s *Segment) CurrentLength() float64 {
	total := 0.0
	for _, l := range s.subEdgeLengths() {
		total += l
	}
	return total
}

// Tension is the segment-level derived tension sigma, using the total
// stretched and rest lengths.
func (s *Segment) Tension() float64 {
	return (s.CurrentLength() - s.RestLength) / (s.RestLength * s.Kappa)
}

// ElasticEnergy is the segment-level derived elastic energy.
func (s *Segment) ElasticEnergy() float64 {
	d := s.CurrentLength() - s.RestLength
	return 0.5 * d * d / (s.RestLength * s.Kappa)
}

// validatePartitions checks the numerical boundaries: collocated nodes
// and zero rest-length partitions are fatal; small-but-nonzero
// partitions are a warning.
func (s *Segment) validatePartitions(lengths []float64, logger Logger) error {
	for i, l := range lengths {
		if l == 0 {
			return ErrCollocatedDeflection
		}
		if s.Partitions[i] == 0 {
			return ErrZeroRestLength
		}
		if s.Partitions[i] < s.LMin/2 {
			logger.Warnf("rope: sub-edge %d rest length %.6g below half of L_min %.6g", i, s.Partitions[i], s.LMin)
		}
	}
	return nil
}

// checkPartitionSum verifies the partitions still sum to RestLength
// within 1e-10; drift past that indicates a logic bug, not rounding.
func (s *Segment) checkPartitionSum() error {
	sum := 0.0
	for _, p := range s.Partitions {
		sum += p
	}
	if math.Abs(sum-s.RestLength) > 1e-10 {
		return ErrRestLengthMismatch
	}
	return nil
}

// ApplyForces accumulates spring tension, transverse damping and
// longitudinal damping onto the segment's two endpoints. Interior
// deflection points are zero-mass and immovable, so no force is ever
// applied to them here; their dynamics are entirely Capstan sliding
// (see capstan.go).
func (s *Segment) ApplyForces(logger Logger) error {
	if logger == nil {
		logger = NopLogger{}
	}
	lengths := s.subEdgeLengths()
	if err := s.validatePartitions(lengths, logger); err != nil {
		return err
	}
	if err := s.checkPartitionSum(); err != nil {
		return err
	}

	dirs, ok := s.subEdgeDirections()
	for _, o := range ok {
		if !o {
			return ErrCollocatedDeflection
		}
	}
	tau := s.subEdgeTensions(lengths)

	first, last := dirs[0], dirs[len(dirs)-1]
	s.Left.AddForce(first.Scale(tau[0]))
	s.Right.AddForce(last.Scale(-tau[len(tau)-1]))

	if !s.Left.Fixed() && !s.Right.Fixed() {
		vPerpA := perpendicular(s.Left.Velocity, first)
		vPerpB := perpendicular(s.Right.Velocity, last)
		k := s.DPerp / s.RestLength
		damp := vPerpA.Add(vPerpB).Scale(-k)
		s.Left.AddForce(damp)
		s.Right.AddForce(damp)

		// lambda > 0 means the stretched length is growing; the damping
		// force pulls both endpoints back along their outer edges.
		lambda := s.Left.Velocity.Dot(first.Neg()) + s.Right.Velocity.Dot(last)
		kPar := s.DPar / s.RestLength
		s.Left.AddForce(first.Scale(kPar * lambda))
		s.Right.AddForce(last.Scale(-kPar * lambda))
	}

	return nil
}

// perpendicular returns the component of v perpendicular to the unit
// vector axis.
func perpendicular(v, axis vecmath.Vector) vecmath.Vector {
	along := axis.Scale(v.Dot(axis))
	return v.Sub(along)
}
