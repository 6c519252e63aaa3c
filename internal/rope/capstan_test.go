package rope

import (
	"math"
	"testing"

	"github.com/climbfall/ropefall/internal/vecmath"
)

// bentSegment builds a segment with a single deflection point bending
// the rope by a right angle, tensioned asymmetrically so the two
// sub-edges disagree on tension.
func bentSegment(friction float64) (*Segment, *Body) {
	left := NewBody(1, KindAnchor, 0, vecmath.New(0, 0, 0))
	mid := NewBody(2, KindQuickdraw, 0, vecmath.New(1, 0, 0))
	mid.Friction = friction
	right := NewBody(3, KindClimber, 80, vecmath.New(1, -1, 0))

	seg := &Segment{
		Mass:        0.08,
		RestLength:  1.8,
		LMin:        0.1,
		LMax:        2.0,
		LDefault:    0.5,
		Kappa:       0.02,
		DPerp:       5,
		DPar:        50,
		Left:        left,
		Right:       right,
		Deflections: []*Body{mid},
		Partitions:  []float64{0.9, 0.9},
		SlideSpeeds: []float64{0},
	}
	return seg, mid
}

func TestCapstanHighFrictionSticks(t *testing.T) {
	seg, _ := bentSegment(10) // huge mu: friction capacity should swamp any tension gap
	// Both sides taut (positive tension); slack on either side would
	// zero the friction capacity and the point could never stick.
	seg.Partitions = []float64{0.8, 0.95}
	p0, p1 := seg.Partitions[0], seg.Partitions[1]
	seg.UpdateCapstan(0.01)
	if seg.SlideSpeeds[0] != 0 {
		t.Fatalf("high-friction deflection should stick, got slide speed %v", seg.SlideSpeeds[0])
	}
	// A stuck point must not transport any rest length either.
	if seg.Partitions[0] != p0 || seg.Partitions[1] != p1 {
		t.Fatalf("stuck deflection transported rest length: %v -> %v", []float64{p0, p1}, seg.Partitions)
	}
}

func TestCapstanSlackSideGeneratesNoFriction(t *testing.T) {
	seg, _ := bentSegment(10)
	// The B side is slack (rest longer than stretched): even a huge mu
	// must not hold the rope against the tension gap.
	seg.Partitions = []float64{0.6, 1.2}
	seg.UpdateCapstan(0.01)
	if seg.SlideSpeeds[0] == 0 {
		t.Fatal("slack-side deflection should slide despite high friction coefficient")
	}
}

func TestCapstanZeroFrictionSlidesFreely(t *testing.T) {
	seg, _ := bentSegment(0)
	seg.Partitions = []float64{0.6, 1.2}
	before := seg.SlideSpeeds[0]
	seg.UpdateCapstan(0.01)
	if seg.SlideSpeeds[0] == before {
		t.Fatal("zero-friction deflection should not remain stationary under a tension gap")
	}
}

func TestCapstanTransportConservesRestLength(t *testing.T) {
	seg, _ := bentSegment(0.3)
	seg.Partitions = []float64{0.7, 1.1}
	total := seg.Partitions[0] + seg.Partitions[1]
	seg.UpdateCapstan(0.02)
	got := seg.Partitions[0] + seg.Partitions[1]
	if math.Abs(got-total) > 1e-9 {
		t.Fatalf("rest length not conserved across capstan transport: before %v after %v", total, got)
	}
}
