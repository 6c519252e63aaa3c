package analysis

import "math"

// ClosedFormPeakTension computes the energy-balance estimate of the
// peak rope tension for a vertical free fall:
//
//	F_peak = m*g + sqrt((m*g)^2 + 2*m*g*(2*fallHeight)/(restLength*kappa))
//
// valid once transverse oscillations have decayed, with no deflection
// points and no ground barrier. Not used by the solver itself; it is
// a sanity check over a solved run.
func ClosedFormPeakTension(mass, gravity, fallHeight, restLength, kappa float64) float64 {
	mg := mass * gravity
	return mg + math.Sqrt(mg*mg+2*mg*(2*fallHeight)/(restLength*kappa))
}

// FallFactor is the ratio of free-fall distance to rope length in
// service, used as a closed-form sanity check alongside
// ClosedFormPeakTension rather than fed back into the solver.
func FallFactor(fallDistance, ropeInService float64) float64 {
	if ropeInService <= 0 {
		return 0
	}
	return fallDistance / ropeInService
}
