// Package loader batches, optionally shuffles, and optionally parallel-loads
// examples from a datasets.Dataset.
//
// A Loader walks the dataset one epoch at a time: Reset starts a new epoch
// (reshuffling the index order when configured), Next returns the next
// minibatch as raw rows, and Yield returns the same minibatch as gomlx
// tensors. End of epoch is signalled with io.EOF, following gomlx's
// train.Dataset contract, so a Loader can drive a gomlx training loop
// directly.
//
// With Workers > 0 upcoming batches are prefetched by a bounded pool of
// goroutines. Delivery order is always the epoch's batch order, so results
// are identical to the synchronous path regardless of worker count.
package loader

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"

	"github.com/Noofbiz/dataloader/datasets"
)

// Config holds the loader knobs.
type Config struct {
	// BatchSize is the number of examples per batch. Required, must be > 0.
	BatchSize int

	// Shuffle selects a fresh random permutation of example indices at the
	// start of every epoch. When false, examples are visited in dataset order.
	Shuffle bool

	// DropLast drops the final batch of an epoch when the dataset size is not
	// divisible by BatchSize. When false, the final batch is short.
	DropLast bool

	// Workers is the number of goroutines prefetching batches. Zero means
	// batches are loaded synchronously in the caller's goroutine.
	Workers int

	// Seed controls shuffling. If zero, a time-based seed is used.
	Seed int64
}

// Loader yields minibatches from a Dataset, one epoch at a time.
type Loader struct {
	ds  datasets.Dataset
	cfg Config

	rng  *rand.Rand
	perm []int // index order for the current epoch
	next int   // next batch number to hand out (synchronous path)

	// prefetch pipeline state, nil/closed when Workers == 0 or epoch done
	results chan chan batchResult
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

type batchResult struct {
	inputs [][]float32
	labels [][]float32
	err    error
}

var _ train.Dataset = (*Loader)(nil)

// New creates a Loader over ds and starts its first epoch.
func New(ds datasets.Dataset, cfg Config) (*Loader, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is nil")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be > 0, got %d", cfg.BatchSize)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	l := &Loader{
		ds:  ds,
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	l.perm = make([]int, ds.Len())
	for i := range l.perm {
		l.perm[i] = i
	}
	l.Reset()
	return l, nil
}

// Name implements train.Dataset.
func (l *Loader) Name() string {
	name := "dataset"
	if n, ok := l.ds.(interface{ Name() string }); ok {
		name = n.Name()
	}
	return fmt.Sprintf("%s [batch %d]", name, l.cfg.BatchSize)
}

// Batches returns the number of batches in one epoch.
func (l *Loader) Batches() int {
	n := len(l.perm)
	full := n / l.cfg.BatchSize
	if !l.cfg.DropLast && n%l.cfg.BatchSize != 0 {
		return full + 1
	}
	return full
}

// Reset implements train.Dataset: it starts a new epoch. When Shuffle is
// configured, a fresh permutation is drawn; the sequence of permutations is
// deterministic for a given Seed.
func (l *Loader) Reset() {
	l.stopPrefetch()
	if l.cfg.Shuffle {
		l.rng.Shuffle(len(l.perm), func(i, j int) {
			l.perm[i], l.perm[j] = l.perm[j], l.perm[i]
		})
	}
	l.next = 0
	if l.cfg.Workers > 0 {
		l.startPrefetch()
	}
}

// batchIndices returns the dataset indices for batch number b of this epoch.
func (l *Loader) batchIndices(b int) []int {
	start := b * l.cfg.BatchSize
	end := start + l.cfg.BatchSize
	if end > len(l.perm) {
		end = len(l.perm)
	}
	return l.perm[start:end]
}

// Next returns the next minibatch of the current epoch as raw rows. At the
// end of the epoch it returns io.EOF; call Reset to start the next epoch.
func (l *Loader) Next() (inputs, labels [][]float32, err error) {
	if l.cfg.Workers > 0 {
		out, ok := <-l.results
		if !ok {
			return nil, nil, io.EOF
		}
		res := <-out
		return res.inputs, res.labels, res.err
	}

	if l.next >= l.Batches() {
		return nil, nil, io.EOF
	}
	indices := l.batchIndices(l.next)
	l.next++
	return l.ds.Batch(indices)
}

// Yield implements train.Dataset: the next minibatch as gomlx tensors of
// shapes [batch, inputDim] and [batch, labelDim].
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	in, lab, err := l.Next()
	if err != nil {
		return nil, nil, nil, err
	}
	flat, err := datasets.MakeBatchFlat(in, lab)
	if err != nil {
		return nil, nil, nil, err
	}
	inT, labT, err := flat.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{inT}, []*tensors.Tensor{labT}, nil
}

type batchJob struct {
	indices []int
	out     chan batchResult
}

// startPrefetch launches the worker pool for one epoch. A feeder goroutine
// enqueues batch jobs in epoch order, each carrying its own result channel;
// the same channels are queued on l.results, so consumers see batches in
// order no matter which worker finished first.
func (l *Loader) startPrefetch() {
	numBatches := l.Batches()
	jobs := make(chan batchJob)
	l.results = make(chan chan batchResult, l.cfg.Workers)
	l.stop = make(chan struct{})
	l.running = true

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(jobs)
		defer close(l.results)
		for b := range numBatches {
			out := make(chan batchResult, 1)
			select {
			case l.results <- out:
			case <-l.stop:
				return
			}
			select {
			case jobs <- batchJob{indices: l.batchIndices(b), out: out}:
			case <-l.stop:
				return
			}
		}
	}()

	for range l.cfg.Workers {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			for job := range jobs {
				in, lab, err := l.ds.Batch(job.indices)
				job.out <- batchResult{inputs: in, labels: lab, err: err}
			}
		}()
	}
}

// stopPrefetch tears down the worker pool, draining any in-flight work.
func (l *Loader) stopPrefetch() {
	if !l.running {
		return
	}
	close(l.stop)
	for range l.results {
		// discard batches already queued
	}
	l.wg.Wait()
	l.running = false
}
