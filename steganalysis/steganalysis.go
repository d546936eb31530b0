// Package steganalysis estimates whether a sample buffer carries data in
// its low bits and measures the distortion embedding leaves behind.
package steganalysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultWindow is the chunk size Profile uses when none is given.
const DefaultWindow = 4096

// EmbeddingProbability runs the chi-square attack of Westfeld and
// Pfitzmann over the value histogram of samples. Writing message bits
// into the low bits equalizes the frequencies of each value pair
// (2k, 2k+1); the closer the observed histogram is to that equalized
// shape, the closer the returned probability is to 1.
func EmbeddingProbability(samples []byte) float64 {
	var hist [256]float64
	for _, s := range samples {
		hist[s]++
	}
	var chi2 float64
	var pairs int
	for k := 0; k < 256; k += 2 {
		expected := (hist[k] + hist[k+1]) / 2
		if expected == 0 {
			continue
		}
		diff := hist[k] - expected
		chi2 += diff * diff / expected
		pairs++
	}
	// at least two populated pairs are needed for a verdict
	if pairs < 2 {
		return 0
	}
	dist := distuv.ChiSquared{K: float64(pairs - 1)}
	return 1 - dist.CDF(chi2)
}

// Profile slices samples into consecutive windows and reports the
// embedding probability of each. Sequential embedding shows up as a run
// of high values that drops off where the hidden data ends. A trailing
// window shorter than window is dropped.
func Profile(samples []byte, window int) []float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	probs := make([]float64, 0, len(samples)/window)
	for start := 0; start+window <= len(samples); start += window {
		probs = append(probs, EmbeddingProbability(samples[start:start+window]))
	}
	return probs
}

// MSE returns the mean squared error between two equal-length buffers.
func MSE(a, b []byte) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("buffer lengths differ: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	sq := make([]float64, len(a))
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sq[i] = d * d
	}
	return stat.Mean(sq, nil), nil
}

// PSNR returns the peak signal-to-noise ratio in decibels between a
// carrier and its modified copy. Identical buffers yield +Inf.
func PSNR(a, b []byte) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(255*255/mse), nil
}
