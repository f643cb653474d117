package datasets

import (
	"math"
	"testing"
)

// TestRandomClassification verifies row counts, dimensions, label range and
// seed determinism for the random classification generator.
func TestRandomClassification(t *testing.T) {
	const (
		n        = 100
		features = 4
		classes  = 10
		seed     = 42
	)

	ds, err := NewRandomClassification(n, features, classes, seed)
	if err != nil {
		t.Fatalf("NewRandomClassification failed: %v", err)
	}
	if ds.Len() != n {
		t.Fatalf("expected %d examples, got %d", n, ds.Len())
	}
	if ds.InputDim() != features || ds.LabelDim() != 1 {
		t.Fatalf("unexpected dims: input=%d label=%d", ds.InputDim(), ds.LabelDim())
	}

	for i := range n {
		in, lab, err := ds.Example(i)
		if err != nil {
			t.Fatalf("Example(%d) error: %v", i, err)
		}
		for j, v := range in {
			if v < 0 || v >= 1 {
				t.Fatalf("feature %d of example %d out of [0,1): %v", j, i, v)
			}
		}
		// labels must be whole numbers in [0, classes)
		if lab[0] != float32(int(lab[0])) {
			t.Fatalf("label of example %d is not a whole number: %v", i, lab[0])
		}
		if lab[0] < 0 || lab[0] >= classes {
			t.Fatalf("label of example %d out of range: %v", i, lab[0])
		}
	}

	// Same seed reproduces the same table
	ds2, err := NewRandomClassification(n, features, classes, seed)
	if err != nil {
		t.Fatalf("NewRandomClassification (repeat) failed: %v", err)
	}
	for i := range n {
		in1, lab1, _ := ds.Example(i)
		in2, lab2, _ := ds2.Example(i)
		for j := range in1 {
			if in1[j] != in2[j] {
				t.Fatalf("feature mismatch at example %d dim %d: %v vs %v", i, j, in1[j], in2[j])
			}
		}
		if lab1[0] != lab2[0] {
			t.Fatalf("label mismatch at example %d: %v vs %v", i, lab1[0], lab2[0])
		}
	}
}

// TestRandomClassification_Validation covers bad constructor arguments.
func TestRandomClassification_Validation(t *testing.T) {
	if _, err := NewRandomClassification(-1, 2, 2, 1); err == nil {
		t.Fatalf("expected error for negative n")
	}
	if _, err := NewRandomClassification(10, 0, 2, 1); err == nil {
		t.Fatalf("expected error for zero featureDim")
	}
	if _, err := NewRandomClassification(10, 2, 0, 1); err == nil {
		t.Fatalf("expected error for zero numClasses")
	}
}

// TestLinearRegression verifies the generated labels follow w·x + b when the
// noise is turned off.
func TestLinearRegression(t *testing.T) {
	w := []float32{2, -3.4}
	b := float32(4.2)

	ds, err := NewLinearRegression(w, b, 50, 0, 7)
	if err != nil {
		t.Fatalf("NewLinearRegression failed: %v", err)
	}
	if ds.Len() != 50 {
		t.Fatalf("expected 50 examples, got %d", ds.Len())
	}
	if ds.InputDim() != len(w) || ds.LabelDim() != 1 {
		t.Fatalf("unexpected dims: input=%d label=%d", ds.InputDim(), ds.LabelDim())
	}

	for i := range ds.Len() {
		in, lab, err := ds.Example(i)
		if err != nil {
			t.Fatalf("Example(%d) error: %v", i, err)
		}
		want := float64(b)
		for j := range w {
			want += float64(w[j]) * float64(in[j])
		}
		if math.Abs(want-float64(lab[0])) > 1e-4 {
			t.Fatalf("label mismatch at example %d: got %v, want %v", i, lab[0], want)
		}
	}
}

// TestLinearRegression_Validation covers bad constructor arguments.
func TestLinearRegression_Validation(t *testing.T) {
	if _, err := NewLinearRegression(nil, 0, 10, 0, 1); err == nil {
		t.Fatalf("expected error for empty weights")
	}
	if _, err := NewLinearRegression([]float32{1}, 0, -1, 0, 1); err == nil {
		t.Fatalf("expected error for negative n")
	}
	if _, err := NewLinearRegression([]float32{1}, 0, 10, -0.5, 1); err == nil {
		t.Fatalf("expected error for negative noise")
	}
}
