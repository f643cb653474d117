package loader

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/dataloader/datasets"
)

// indexDataset builds a dataset where example i holds the value i in both its
// feature and label rows, so tests can recover which indices a batch visited.
func indexDataset(t *testing.T, n int) *datasets.SliceDataset {
	t.Helper()
	inputs := make([][]float32, n)
	labels := make([][]float32, n)
	for i := range n {
		inputs[i] = []float32{float32(i)}
		labels[i] = []float32{float32(i)}
	}
	ds, err := datasets.NewSliceDataset(inputs, labels)
	require.NoError(t, err)
	return ds
}

// drainEpoch iterates the loader until io.EOF, returning the size of every
// batch and the visited dataset indices in order.
func drainEpoch(t *testing.T, ld *Loader) (sizes []int, visited []int) {
	t.Helper()
	for {
		inputs, labels, err := ld.Next()
		if err == io.EOF {
			return sizes, visited
		}
		require.NoError(t, err)
		require.Len(t, labels, len(inputs))
		sizes = append(sizes, len(inputs))
		for _, row := range inputs {
			visited = append(visited, int(row[0]))
		}
	}
}

func TestEpochCounts(t *testing.T) {
	// 100 rows with batch size 10 must yield exactly 10 batches of 10 rows,
	// 100 rows total.
	ds := indexDataset(t, 100)
	ld, err := New(ds, Config{BatchSize: 10, Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 10, ld.Batches())
	sizes, visited := drainEpoch(t, ld)
	require.Len(t, sizes, 10)
	for _, size := range sizes {
		assert.Equal(t, 10, size)
	}
	assert.Len(t, visited, 100)

	// Subsequent Next calls keep returning io.EOF until Reset.
	_, _, err = ld.Next()
	assert.Equal(t, io.EOF, err)
}

func TestRemainderBatch(t *testing.T) {
	ds := indexDataset(t, 103)

	ld, err := New(ds, Config{BatchSize: 10, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 11, ld.Batches())
	sizes, visited := drainEpoch(t, ld)
	require.Len(t, sizes, 11)
	assert.Equal(t, 3, sizes[10], "final batch should hold the remainder")
	assert.Len(t, visited, 103)
}

func TestDropLast(t *testing.T) {
	ds := indexDataset(t, 103)

	ld, err := New(ds, Config{BatchSize: 10, DropLast: true, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, ld.Batches())
	sizes, visited := drainEpoch(t, ld)
	require.Len(t, sizes, 10)
	assert.Len(t, visited, 100)
}

func TestShuffleCoversEveryIndexOnce(t *testing.T) {
	const n = 100
	ds := indexDataset(t, n)
	ld, err := New(ds, Config{BatchSize: 10, Shuffle: true, Seed: 42})
	require.NoError(t, err)

	for epoch := range 3 {
		if epoch > 0 {
			ld.Reset()
		}
		_, visited := drainEpoch(t, ld)
		require.Len(t, visited, n)
		seen := make(map[int]bool, n)
		for _, idx := range visited {
			assert.False(t, seen[idx], "index %d visited twice in epoch %d", idx, epoch)
			seen[idx] = true
		}
		assert.Len(t, seen, n, "epoch %d should visit every index", epoch)
	}
}

func TestShuffleDeterministicPerSeed(t *testing.T) {
	ds := indexDataset(t, 50)

	ld1, err := New(ds, Config{BatchSize: 7, Shuffle: true, Seed: 9})
	require.NoError(t, err)
	ld2, err := New(ds, Config{BatchSize: 7, Shuffle: true, Seed: 9})
	require.NoError(t, err)

	_, visited1 := drainEpoch(t, ld1)
	_, visited2 := drainEpoch(t, ld2)
	assert.Equal(t, visited1, visited2, "same seed should produce the same order")

	ld3, err := New(ds, Config{BatchSize: 7, Shuffle: true, Seed: 10})
	require.NoError(t, err)
	_, visited3 := drainEpoch(t, ld3)
	assert.NotEqual(t, visited1, visited3, "different seeds should produce different orders")
}

func TestWorkersMatchSynchronousOrder(t *testing.T) {
	ds := indexDataset(t, 103)

	for _, shuffle := range []bool{false, true} {
		sync, err := New(ds, Config{BatchSize: 10, Shuffle: shuffle, Seed: 5})
		require.NoError(t, err)
		parallel, err := New(ds, Config{BatchSize: 10, Shuffle: shuffle, Workers: 4, Seed: 5})
		require.NoError(t, err)

		syncSizes, syncVisited := drainEpoch(t, sync)
		parSizes, parVisited := drainEpoch(t, parallel)
		assert.Equal(t, syncSizes, parSizes, "shuffle=%v", shuffle)
		assert.Equal(t, syncVisited, parVisited, "worker delivery must preserve batch order (shuffle=%v)", shuffle)
	}
}

func TestWorkersResetMidEpoch(t *testing.T) {
	ds := indexDataset(t, 100)
	ld, err := New(ds, Config{BatchSize: 10, Shuffle: true, Workers: 3, Seed: 11})
	require.NoError(t, err)

	// Consume part of the epoch, then restart; the fresh epoch must still be
	// complete and duplicate-free.
	for range 3 {
		_, _, err := ld.Next()
		require.NoError(t, err)
	}
	ld.Reset()

	sizes, visited := drainEpoch(t, ld)
	require.Len(t, sizes, 10)
	seen := make(map[int]bool)
	for _, idx := range visited {
		assert.False(t, seen[idx], "index %d visited twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, 100)
}

func TestYieldTensors(t *testing.T) {
	ds := indexDataset(t, 20)
	ld, err := New(ds, Config{BatchSize: 10, Seed: 1})
	require.NoError(t, err)

	for range 2 {
		spec, inputs, labels, err := ld.Yield()
		require.NoError(t, err)
		assert.Nil(t, spec)
		require.Len(t, inputs, 1)
		require.Len(t, labels, 1)
		require.NotNil(t, inputs[0])
		require.NotNil(t, labels[0])
	}
	_, _, _, err = ld.Yield()
	assert.Equal(t, io.EOF, err)
}

func TestEmptyDataset(t *testing.T) {
	ds := indexDataset(t, 0)
	ld, err := New(ds, Config{BatchSize: 4, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, ld.Batches())
	_, _, err = ld.Next()
	assert.Equal(t, io.EOF, err)
}

func TestConfigValidation(t *testing.T) {
	ds := indexDataset(t, 10)

	_, err := New(nil, Config{BatchSize: 2})
	assert.Error(t, err)
	_, err = New(ds, Config{BatchSize: 0})
	assert.Error(t, err)
	_, err = New(ds, Config{BatchSize: 2, Workers: -1})
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	ds := indexDataset(t, 10)
	ld, err := New(ds, Config{BatchSize: 2, Seed: 1})
	require.NoError(t, err)
	assert.Contains(t, ld.Name(), "batch 2")
}
