package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumFindsDominantFrequency(t *testing.T) {
	const n = 256
	const bin = 16 // cycles across the window
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}

	ps := PowerSpectrum(data)
	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != bin {
		t.Fatalf("dominant bin = %d, want %d", peak, bin)
	}
}

func TestPadPow2(t *testing.T) {
	padded := PadPow2(make([]float64, 5))
	if len(padded) != 8 {
		t.Fatalf("padded length = %d, want 8", len(padded))
	}
	exact := PadPow2([]float64{1, 2, 3, 4})
	if len(exact) != 4 || exact[3] != 4 {
		t.Fatalf("power-of-two input changed: %v", exact)
	}
}

func TestDominantFrequency(t *testing.T) {
	const n = 128
	const cycles = 8
	const sampleRate = 64.0
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * cycles * float64(i) / n)
	}
	ps := PowerSpectrum(data)
	want := cycles * sampleRate / n
	if got := DominantFrequency(ps, sampleRate); math.Abs(got-want) > 1e-9 {
		t.Fatalf("dominant frequency = %v Hz, want %v", got, want)
	}
}

func TestPowerSpectrumDCComponent(t *testing.T) {
	data := []float64{3, 3, 3, 3}
	ps := PowerSpectrum(data)
	if math.Abs(ps[0]-12) > 1e-9 {
		t.Fatalf("DC magnitude = %v, want 12", ps[0])
	}
	if ps[1] > 1e-9 {
		t.Fatalf("constant signal leaked into bin 1: %v", ps[1])
	}
}

func TestClosedFormPeakTension(t *testing.T) {
	// m=70 kg climber, 2 m above the anchor, 2.1 m of rope at
	// kappa = 7.9e-5 1/N.
	mass, g, h, l, kappa := 70.0, 9.80665, 2.0, 2.1, 7.9e-5
	mg := mass * g
	want := mg + math.Sqrt(mg*mg+2*mg*(2*h)/(l*kappa))
	if got := ClosedFormPeakTension(mass, g, h, l, kappa); math.Abs(got-want) > 1e-9 {
		t.Fatalf("closed form = %v, want %v", got, want)
	}
	// The static-hang limit: no fall height leaves just the body weight
	// plus the sqrt collapsing to mg.
	if got := ClosedFormPeakTension(mass, g, 0, l, kappa); math.Abs(got-2*mg) > 1e-9 {
		t.Fatalf("zero-height peak = %v, want %v", got, 2*mg)
	}
}

func TestFallFactor(t *testing.T) {
	// The UIAA drop test: about 4.8 m of fall on 2.7 m of rope.
	if got := FallFactor(4.8, 2.7); math.Abs(got-1.7778) > 1e-3 {
		t.Fatalf("fall factor = %v, want about 1.78", got)
	}
	if got := FallFactor(3, 0); got != 0 {
		t.Fatalf("degenerate rope length should yield 0, got %v", got)
	}
}
