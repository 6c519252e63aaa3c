// Package rope implements the climbing-rope data model: point-mass
// Body, half-space Barrier, spring-damper Segment with
// Capstan-friction deflection points, and the ordered Rope that owns
// them. It has no notion of a clock or a snapshot rate; that belongs
// to the World that drives it (internal/world).
package rope

import "github.com/climbfall/ropefall/internal/vecmath"

// Rope is an ordered sequence of Segments bridging an ordered sequence
// of joint Bodies: Segments[i] bridges Joints[i] and Joints[i+1].
// Joints[0] is the belayer end, Joints[len(Joints)-1] is the climber
// end.
type Rope struct {
	Segments []*Segment
	Joints   []*Body

	// NewBodyID mints the World-unique identity for a joint body
	// created during re-meshing; the monotonic counter itself is
	// owned by the World, not the Rope, so it is injected here.
	NewBodyID func() uint64
}

// RestLength is the rope-level rest length: the sum of segment rest
// lengths.
func (r *Rope) RestLength() float64 {
	sum := 0.0
	for _, s := range r.Segments {
		sum += s.RestLength
	}
	return sum
}

// Mass is the total mass distributed across the rope's segments,
// conserved across re-meshing.
func (r *Rope) Mass() float64 {
	sum := 0.0
	for _, s := range r.Segments {
		sum += s.Mass
	}
	return sum
}

// ElasticEnergy sums each segment's derived elastic energy.
func (r *Rope) ElasticEnergy() float64 {
	sum := 0.0
	for _, s := range r.Segments {
		sum += s.ElasticEnergy()
	}
	return sum
}

// PeakTension returns the largest segment-level tension currently in
// the rope.
func (r *Rope) PeakTension() float64 {
	peak := 0.0
	for _, s := range r.Segments {
		if t := s.Tension(); t > peak {
			peak = t
		}
	}
	return peak
}

// ActiveBodies returns every body currently reachable from the rope's
// topology: all joints, plus every deflection point still threaded by
// some segment, deduplicated by identity. A deflection point that has
// been slipped out of the rope by re-meshing is no longer reachable
// and drops out of this set.
func (r *Rope) ActiveBodies() []*Body {
	seen := make(map[uint64]bool, len(r.Joints)*2)
	out := make([]*Body, 0, len(r.Joints)*2)
	add := func(b *Body) {
		if !seen[b.ID()] {
			seen[b.ID()] = true
			out = append(out, b)
		}
	}
	for _, j := range r.Joints {
		add(j)
	}
	for _, s := range r.Segments {
		for _, d := range s.Deflections {
			add(d)
		}
	}
	return out
}

// Polyline returns the full ordered node sequence belayer -> ... ->
// climber, threading every segment's deflection points, with the
// shared joint body at each segment boundary included exactly once.
func (r *Rope) Polyline() []*Body {
	if len(r.Segments) == 0 {
		return nil
	}
	out := r.Segments[0].nodes()
	for _, s := range r.Segments[1:] {
		nodes := s.nodes()
		out = append(out, nodes[1:]...)
	}
	return out
}

// ApplyGravity accumulates gravity onto every rope-owned body exactly
// once: each segment owns its left endpoint, and the last segment
// additionally owns its right endpoint (the climber).
func (r *Rope) ApplyGravity(gravity vecmath.Vector) {
	for i, s := range r.Segments {
		s.Left.AddForce(gravity.Scale(s.Left.Mass))
		if i == len(r.Segments)-1 {
			s.Right.AddForce(gravity.Scale(s.Right.Mass))
		}
	}
}

// ApplyForces walks every segment's spring, transverse-damping and
// longitudinal-damping contributions, wrapping any
// numerical-degeneracy error with its segment index and
// deflection-point count.
func (r *Rope) ApplyForces(logger Logger) error {
	for i, s := range r.Segments {
		if err := s.ApplyForces(logger); err != nil {
			return newDomainError(i, len(s.Deflections), err)
		}
	}
	return nil
}

// UpdateCapstan advances Capstan sliding at every deflection point of
// every segment.
func (r *Rope) UpdateCapstan(dt float64) {
	for _, s := range r.Segments {
		s.UpdateCapstan(dt)
	}
}
