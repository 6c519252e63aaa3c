package rope

import "math"

// capstanEps is the tolerance used to snap a sliding speed to exactly
// zero once static friction would hold it there, preventing sign-flip
// chatter.
const capstanEps = 1e-12

// UpdateCapstan advances the signed sliding speed at each interior
// deflection point of the segment by dt, using Capstan friction, then
// transports rest length across each deflection point accordingly.
// Must run after barrier projection and before re-meshing, using the
// segment's current (post-integration) geometry.
func (s *Segment) UpdateCapstan(dt float64) {
	n := len(s.Deflections)
	if n == 0 {
		return
	}

	lengths := s.subEdgeLengths()
	tau := s.subEdgeTensions(lengths)
	dirs, _ := s.subEdgeDirections()

	for k := 0; k < n; k++ {
		tauL, tauR := tau[k], tau[k+1]
		delta := tauR - tauL

		cosTheta := clamp(dirs[k].Dot(dirs[k+1]), -1, 1)
		theta := math.Acos(cosTheta)

		var fMu float64
		if tauL > 0 && tauR > 0 {
			minTau := tauL
			if tauR < minTau {
				minTau = tauR
			}
			fMu = minTau * (math.Exp(s.Deflections[k].Friction*theta) - 1)
		}

		sk := s.SlideSpeeds[k]
		var effective float64
		switch {
		case sk > 0:
			effective = delta - fMu
		case sk < 0:
			effective = delta + fMu
		default:
			if math.Abs(delta) <= fMu {
				effective = 0
			} else {
				effective = delta - math.Copysign(fMu, delta)
			}
		}

		accel := effective / s.Mass
		newSk := sk + accel*dt

		if math.Abs(newSk) <= math.Abs(accel*dt)-capstanEps && math.Abs(delta) <= fMu {
			newSk = 0
		}
		s.SlideSpeeds[k] = newSk

		transport := newSk * dt
		s.Partitions[k] -= transport
		s.Partitions[k+1] += transport
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
