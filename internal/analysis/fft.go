package analysis

import (
	"math"
	"math/cmplx"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of
// data, computed with a radix-2 FFT. The input length must be a power
// of two; PadPow2 prepares an arbitrary-length series.
func PowerSpectrum(data []float64) []float64 {
	buf := make([]complex128, len(data))
	for i, v := range data {
		buf[i] = complex(v, 0)
	}
	fft(buf)

	ps := make([]float64, len(buf)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(buf[i])
	}
	return ps
}

// PadPow2 zero-pads a series up to the next power-of-two length, as
// the FFT requires. A series already at a power of two is returned
// as a copy unchanged.
func PadPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	out := make([]float64, n)
	copy(out, data)
	return out
}

// DominantFrequency returns the frequency (in Hz, given the series'
// sample rate) of the largest non-DC bin of a power spectrum.
func DominantFrequency(ps []float64, sampleRate float64) float64 {
	if len(ps) < 2 {
		return 0
	}
	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	return float64(peak) * sampleRate / float64(2*len(ps))
}

// fft runs an in-place recursive radix-2 Cooley-Tukey transform.
func fft(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}
	if n%2 != 0 {
		panic("analysis: fft length must be a power of two")
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = buf[2*i]
		odd[i] = buf[2*i+1]
	}
	fft(even)
	fft(odd)

	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		buf[k] = even[k] + w*odd[k]
		buf[k+n/2] = even[k] - w*odd[k]
	}
}
