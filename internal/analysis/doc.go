// Package analysis provides frequency-domain and closed-form sanity
// checks over a completed run: a radix-2 FFT power spectrum over a
// scalar time series (e.g. segment tension), and a closed-form peak
// tension a solved free fall can be checked against.
package analysis
