package rope

// Remesh runs the two re-meshing passes: a merge pass absorbs
// sub-partitions that fell below L_min, a split pass divides
// sub-partitions that grew past L_max. It must run after Capstan
// sliding and before the next frame's force application. Mass and rest
// length are conserved by construction; an interior partition (between
// two deflection points) exceeding L_max is a fatal, explicitly
// unhandled condition.
func (r *Rope) Remesh(logger Logger) error {
	if logger == nil {
		logger = NopLogger{}
	}
	r.mergePass(logger)
	return r.splitPass(logger)
}

// mergePass repeatedly scans the rope for a partition[0] or
// partition[last] below L_min and resolves it, by slipping a
// deflection point out of the rope's end or by merging with a
// neighbour segment, until none remain. It restarts the scan after
// every mutation rather than tracking index shifts by hand, since the
// rope has at most a few hundred segments and the pass converges in a
// handful of rounds.
func (r *Rope) mergePass(logger Logger) {
	for {
		if r.mergeStep(logger) {
			continue
		}
		break
	}
}

func (r *Rope) mergeStep(logger Logger) bool {
	for i, s := range r.Segments {
		if s.Partitions[0] < s.LMin {
			if r.resolveShortLeft(i, logger) {
				return true
			}
		}
	}
	for i, s := range r.Segments {
		if last := len(s.Partitions) - 1; s.Partitions[last] < s.LMin {
			if r.resolveShortRight(i, logger) {
				return true
			}
		}
	}
	return false
}

// resolveShortLeft handles a leading partition below L_min and reports
// whether it mutated the rope. The contradictory first-segment,
// no-deflection case only warns, so the caller must not treat it as
// progress.
func (r *Rope) resolveShortLeft(i int, logger Logger) bool {
	s := r.Segments[i]
	if i == 0 {
		if len(s.Deflections) == 0 {
			logger.Warnf("rope: segment 0 leading partition %.6g below L_min %.6g with no deflection to slip", s.Partitions[0], s.LMin)
			return false
		}
		s.Partitions[1] += s.Partitions[0]
		s.Partitions = s.Partitions[1:]
		s.SlideSpeeds = s.SlideSpeeds[1:]
		s.Deflections = s.Deflections[1:]
		return true
	}
	prev := r.Segments[i-1]
	mergeInto(prev, s)
	r.Segments = append(r.Segments[:i], r.Segments[i+1:]...)
	r.Joints = append(r.Joints[:i], r.Joints[i+1:]...)
	r.rebalanceInteriorJoints()
	return true
}

func (r *Rope) resolveShortRight(i int, logger Logger) bool {
	s := r.Segments[i]
	last := len(s.Partitions) - 1
	if i == len(r.Segments)-1 {
		if len(s.Deflections) == 0 {
			logger.Warnf("rope: segment %d trailing partition %.6g below L_min %.6g with no deflection to slip", i, s.Partitions[last], s.LMin)
			return false
		}
		s.Partitions[last-1] += s.Partitions[last]
		s.Partitions = s.Partitions[:last]
		s.SlideSpeeds = s.SlideSpeeds[:len(s.SlideSpeeds)-1]
		s.Deflections = s.Deflections[:len(s.Deflections)-1]
		return true
	}
	next := r.Segments[i+1]
	mergeInto(s, next)
	r.Segments = append(r.Segments[:i+1], r.Segments[i+2:]...)
	r.Joints = append(r.Joints[:i+1], r.Joints[i+2:]...)
	r.rebalanceInteriorJoints()
	return true
}

// mergeInto absorbs src into dst: dst keeps its Left endpoint and its
// own identity, gains src's deflections/partitions/sliding speeds
// appended in order, and adopts src's Right endpoint. The shared
// boundary partition entries are summed.
func mergeInto(dst, src *Segment) {
	last := len(dst.Partitions) - 1
	dst.Partitions[last] += src.Partitions[0]
	dst.Partitions = append(dst.Partitions, src.Partitions[1:]...)
	dst.Deflections = append(dst.Deflections, src.Deflections...)
	dst.SlideSpeeds = append(dst.SlideSpeeds, src.SlideSpeeds...)
	dst.RestLength += src.RestLength
	dst.Mass += src.Mass
	dst.Right = src.Right
}

// splitPass repeatedly scans for a partition[0] or partition[last]
// above L_max and resolves it by splitting off a new L_default segment
// at that segment's own endpoint on the overlong side, until none
// remain. An interior
// partition above L_max is fatal and aborts the pass.
func (r *Rope) splitPass(logger Logger) error {
	for {
		acted, err := r.splitStep(logger)
		if err != nil {
			return err
		}
		if !acted {
			return nil
		}
	}
}

func (r *Rope) splitStep(logger Logger) (bool, error) {
	for i, s := range r.Segments {
		for k := 1; k < len(s.Partitions)-1; k++ {
			if s.Partitions[k] > s.LMax {
				return false, newDomainError(i, len(s.Deflections), ErrUnsupportedSplit)
			}
		}
		if len(s.Deflections) == 0 {
			continue
		}
		if s.Partitions[0] > s.LMax {
			r.splitLeft(i)
			return true, nil
		}
		if last := len(s.Partitions) - 1; s.Partitions[last] > s.LMax {
			r.splitRight(i)
			return true, nil
		}
	}
	return false, nil
}

func (r *Rope) splitLeft(i int) {
	s := r.Segments[i]
	d0 := s.Deflections[0]
	fraction := s.LDefault / s.Partitions[0]
	pos := s.Left.Position.Lerp(d0.Position, fraction)

	joint := NewBody(r.NewBodyID(), KindJoint, 0, pos)
	joint.Velocity = s.Left.Velocity

	newSeg := NewSegment(s.Left, joint, 0, s.LDefault, s.LMin, s.LMax, s.LDefault, s.Kappa, s.DPerp, s.DPar)
	ratio := s.LDefault / s.RestLength
	newSeg.Mass = s.Mass * ratio
	s.Mass -= newSeg.Mass
	s.RestLength -= s.LDefault
	s.Partitions[0] -= s.LDefault
	s.Left = joint

	r.Segments = insertSegment(r.Segments, i, newSeg)
	r.Joints = insertBody(r.Joints, i+1, joint)
	r.rebalanceInteriorJoints()
}

func (r *Rope) splitRight(i int) {
	s := r.Segments[i]
	last := len(s.Partitions) - 1
	dn := s.Deflections[len(s.Deflections)-1]
	fraction := s.LDefault / s.Partitions[last]
	pos := s.Right.Position.Lerp(dn.Position, fraction)

	joint := NewBody(r.NewBodyID(), KindJoint, 0, pos)
	joint.Velocity = s.Right.Velocity

	newSeg := NewSegment(joint, s.Right, 0, s.LDefault, s.LMin, s.LMax, s.LDefault, s.Kappa, s.DPerp, s.DPar)
	ratio := s.LDefault / s.RestLength
	newSeg.Mass = s.Mass * ratio
	s.Mass -= newSeg.Mass
	s.RestLength -= s.LDefault
	s.Partitions[last] -= s.LDefault
	s.Right = joint

	r.Segments = insertSegment(r.Segments, i+1, newSeg)
	r.Joints = insertBody(r.Joints, i+1, joint)
	r.rebalanceInteriorJoints()
}

func insertSegment(segs []*Segment, at int, s *Segment) []*Segment {
	out := make([]*Segment, 0, len(segs)+1)
	out = append(out, segs[:at]...)
	out = append(out, s)
	out = append(out, segs[at:]...)
	return out
}

func insertBody(bodies []*Body, at int, b *Body) []*Body {
	out := make([]*Body, 0, len(bodies)+1)
	out = append(out, bodies[:at]...)
	out = append(out, b)
	out = append(out, bodies[at:]...)
	return out
}

// rebalanceInteriorJoints re-derives the mass of every interior joint
// (everything but the belayer and climber ends, which always hold
// their configured end mass) as half the mass of the segment on its
// left plus half the mass of the segment on its right. Re-deriving
// every interior joint after any single merge/split is simpler than
// tracking which three joints a given mutation actually touched, and
// costs nothing at rope-sized segment counts.
func (r *Rope) rebalanceInteriorJoints() {
	for j := 1; j < len(r.Joints)-1; j++ {
		left := r.Segments[j-1]
		right := r.Segments[j]
		r.Joints[j].Mass = 0.5*left.Mass + 0.5*right.Mass
	}
}
