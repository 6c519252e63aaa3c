package rope

import "github.com/climbfall/ropefall/internal/vecmath"

// Barrier is a closed half-space {x : n.x >= s}, fixed once added to a
// World. Barriers are evaluated in insertion order.
type Barrier struct {
	Normal vecmath.Vector // unit normal, points into the allowed half-space
	Shift  float64
}

// NewBarrier builds a Barrier from a (possibly non-unit) normal; the
// normal is normalised on construction.
func NewBarrier(normal vecmath.Vector, shift float64) Barrier {
	n, ok := normal.Normalized()
	if !ok {
		n = vecmath.New(0, 1, 0)
	}
	return Barrier{Normal: n, Shift: shift}
}

// Signed distance of p from the barrier's boundary plane; negative
// means p is on the disallowed side.
func (b Barrier) SignedDistance(p vecmath.Vector) float64 {
	return b.Normal.Dot(p) - b.Shift
}

// Project enforces the barrier on a single movable body in place:
// positions are pushed back onto the allowed side, and
// any velocity component pointing further into the barrier is zeroed.
// The tangential velocity component is preserved; there is no sliding
// friction on barriers.
func (b Barrier) Project(body *Body) {
	d := b.SignedDistance(body.Position)
	if d >= 0 {
		return
	}
	body.Position = body.Position.Add(b.Normal.Scale(-d))

	vn := b.Normal.Dot(body.Velocity)
	if vn < 0 {
		body.Velocity = body.Velocity.Add(b.Normal.Scale(-vn))
	}
}
