package datasets

import "fmt"

// SliceDataset pairs in-memory feature rows with label rows. It is the
// simplest Dataset: everything lives in two slices and lookups are direct
// indexing. Rows are not copied; callers should not mutate them after
// construction.
type SliceDataset struct {
	inputs [][]float32
	labels [][]float32

	inputDim int
	labelDim int
}

// NewSliceDataset creates a dataset over paired feature and label rows.
// The two slices must have the same length, and every row must have the same
// dimension as the first row of its slice.
func NewSliceDataset(inputs, labels [][]float32) (*SliceDataset, error) {
	if len(inputs) != len(labels) {
		return nil, fmt.Errorf("inputs and labels lengths don't match: %d != %d", len(inputs), len(labels))
	}
	ds := &SliceDataset{inputs: inputs, labels: labels}
	if len(inputs) == 0 {
		return ds, nil
	}
	ds.inputDim = len(inputs[0])
	ds.labelDim = len(labels[0])
	for i := range inputs {
		if len(inputs[i]) != ds.inputDim {
			return nil, fmt.Errorf("inconsistent input dimension at row %d: expected %d, got %d",
				i, ds.inputDim, len(inputs[i]))
		}
		if len(labels[i]) != ds.labelDim {
			return nil, fmt.Errorf("inconsistent label dimension at row %d: expected %d, got %d",
				i, ds.labelDim, len(labels[i]))
		}
	}
	return ds, nil
}

// Len returns the number of examples.
func (d *SliceDataset) Len() int {
	return len(d.inputs)
}

// InputDim returns the feature row dimension (0 for an empty dataset).
func (d *SliceDataset) InputDim() int {
	return d.inputDim
}

// LabelDim returns the label row dimension (0 for an empty dataset).
func (d *SliceDataset) LabelDim() int {
	return d.labelDim
}

// Example returns the feature and label rows at index i.
func (d *SliceDataset) Example(i int) ([]float32, []float32, error) {
	if i < 0 || i >= len(d.inputs) {
		return nil, nil, fmt.Errorf("index %d out of range [0, %d)", i, len(d.inputs))
	}
	return d.inputs[i], d.labels[i], nil
}

// Batch returns feature and label rows for the given indices.
func (d *SliceDataset) Batch(indices []int) ([][]float32, [][]float32, error) {
	inputs := make([][]float32, len(indices))
	labels := make([][]float32, len(indices))
	for pos, idx := range indices {
		in, lab, err := d.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs[pos] = in
		labels[pos] = lab
	}
	return inputs, labels, nil
}
