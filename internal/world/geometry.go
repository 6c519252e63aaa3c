package world

import (
	"math"

	"github.com/climbfall/ropefall/internal/vecmath"
)

// PlaneLineIntersection finds the point where the line through a and b
// crosses the plane {x : normal·x = shift}, used by barrier renderers
// to draw the wall and ground as finite planes. ok is false when the
// segment is parallel to the plane.
func PlaneLineIntersection(normal vecmath.Vector, shift float64, a, b vecmath.Vector) (vecmath.Vector, bool) {
	dir := b.Sub(a)
	denom := normal.Dot(dir)
	if math.Abs(denom) < 1e-12 {
		return vecmath.Zero, false
	}
	t := (shift - normal.Dot(a)) / denom
	return a.Add(dir.Scale(t)), true
}

// ClosestPointOnPlane projects p onto the plane {x : normal·x = shift}.
// normal must be a unit vector.
func ClosestPointOnPlane(p, normal vecmath.Vector, shift float64) vecmath.Vector {
	d := normal.Dot(p) - shift
	return p.Sub(normal.Scale(d))
}

// ClosestPointOnSegment returns the point on segment [a,b] nearest p,
// clamped to the segment's extent.
func ClosestPointOnSegment(p, a, b vecmath.Vector) vecmath.Vector {
	ab := b.Sub(a)
	length2 := ab.NormSquared()
	if length2 < 1e-18 {
		return a
	}
	t := p.Sub(a).Dot(ab) / length2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}
