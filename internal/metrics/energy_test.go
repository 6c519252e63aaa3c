package metrics

import (
	"math"
	"testing"
)

func TestEnergyDriftMonotoneDecreasing(t *testing.T) {
	d := NewEnergyDrift()
	for _, e := range []float64{100, 90, 80, 70.5, 70.5, 60} {
		d.Observe(e)
	}
	if d.MaxIncrease() != 0 {
		t.Fatalf("max increase = %v, want 0 for a decreasing series", d.MaxIncrease())
	}
	if !d.Monotone(0) {
		t.Fatal("decreasing series should report monotone")
	}
	if got := d.MaxRelativeDrift(); math.Abs(got-0.4) > 1e-12 {
		t.Fatalf("max relative drift = %v, want 0.4", got)
	}
}

func TestEnergyDriftTracksLargestIncrease(t *testing.T) {
	d := NewEnergyDrift()
	for _, e := range []float64{100, 95, 97, 90, 96} {
		d.Observe(e)
	}
	if got := d.MaxIncrease(); got != 6 {
		t.Fatalf("max increase = %v, want 6", got)
	}
	if d.Monotone(1) {
		t.Fatal("series with a 6-unit jump should fail a 1-unit tolerance")
	}
	if !d.Monotone(6) {
		t.Fatal("series should pass at its own max increase")
	}
}

func TestEnergyDriftSingleSample(t *testing.T) {
	d := NewEnergyDrift()
	d.Observe(42)
	if d.MaxIncrease() != 0 || d.MaxRelativeDrift() != 0 {
		t.Fatalf("single sample should report zero drift, got %v / %v", d.MaxIncrease(), d.MaxRelativeDrift())
	}
}
