package datasets

import (
	"fmt"
	"math/rand"
	"time"
)

// Synthetic datasets, generated once at construction and held in a
// SliceDataset. Handy for examples and tests that need "N rows of random
// feature vectors and N corresponding labels" without touching disk.

// NewRandomClassification generates n feature rows of dimension featureDim
// with values uniform in [0, 1), each paired with a random integer class
// label in [0, numClasses). The class id is stored as a length-1 label row
// (a whole number in float32).
//
// If seed is zero a time-based seed is used.
func NewRandomClassification(n, featureDim, numClasses int, seed int64) (*SliceDataset, error) {
	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d", n)
	}
	if featureDim < 1 {
		return nil, fmt.Errorf("featureDim must be >= 1, got %d", featureDim)
	}
	if numClasses < 1 {
		return nil, fmt.Errorf("numClasses must be >= 1, got %d", numClasses)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	inputs := make([][]float32, n)
	labels := make([][]float32, n)
	for i := range n {
		row := make([]float32, featureDim)
		for j := range row {
			row[j] = rng.Float32()
		}
		inputs[i] = row
		labels[i] = []float32{float32(rng.Intn(numClasses))}
	}
	return NewSliceDataset(inputs, labels)
}

// NewLinearRegression generates n feature rows drawn from a standard normal
// and labels w·x + b plus gaussian noise with standard deviation noiseStd.
// The feature dimension is len(w); labels are length-1 rows.
//
// If seed is zero a time-based seed is used.
func NewLinearRegression(w []float32, b float32, n int, noiseStd float64, seed int64) (*SliceDataset, error) {
	if len(w) == 0 {
		return nil, fmt.Errorf("w must have at least one weight")
	}
	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d", n)
	}
	if noiseStd < 0 {
		return nil, fmt.Errorf("noiseStd must be >= 0, got %v", noiseStd)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	inputs := make([][]float32, n)
	labels := make([][]float32, n)
	for i := range n {
		row := make([]float32, len(w))
		y := float64(b)
		for j := range row {
			x := rng.NormFloat64()
			row[j] = float32(x)
			y += float64(w[j]) * x
		}
		y += rng.NormFloat64() * noiseStd
		inputs[i] = row
		labels[i] = []float32{float32(y)}
	}
	return NewSliceDataset(inputs, labels)
}
