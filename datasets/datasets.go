package datasets

// This package provides the Dataset side of the minibatch pipeline: containers
// that expose rows of float32 features paired with float32 label rows, looked
// up by index. Batching, shuffling and parallel prefetch live in the loader
// package; a Dataset only needs to answer "how many rows" and "give me these
// rows".
//
// Integer class labels are carried as length-1 label rows holding whole
// numbers. Keeping a single [][]float32 representation for both regression
// and classification keeps the batch path (BatchFlat, gomlx tensors) uniform.
//
// Implementations in this package:
//
// SliceDataset
//   - In-memory paired rows, the simplest container. The synthetic generators
//     (RandomClassification, LinearRegression) build on it.
//
// CSVDataset
//   - Lazy CSV loading over one or more files matched by a glob pattern.
//     Stores file paths and a row index only; rows are read when a batch
//     asks for them, so large files never need to fit in memory.
type Dataset interface {
	// Len returns the number of examples in the dataset.
	Len() int

	// Example returns the feature row and label row at global index i.
	Example(i int) (inputs []float32, labels []float32, err error)

	// Batch returns feature and label rows for the provided global indices,
	// in the same order as the indices.
	Batch(indices []int) (inputs [][]float32, labels [][]float32, err error)
}
