// Package regress provides a small linear model trained with minibatch SGD.
//
// It exists as the consuming end of the pipeline: a loader.Loader feeds it
// one epoch of minibatches at a time and it fits labels = W*inputs + b under
// a mean-squared-error loss. It is pure Go with no deep-learning framework
// dependencies, so tests run quickly and deterministically.
package regress

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/Noofbiz/dataloader/loader"
)

// Config holds the training hyperparameters.
type Config struct {
	// LearningRate used by SGD (default if 0: 0.03).
	LearningRate float64

	// Epochs to train for (default if 0: 3).
	Epochs int

	// Seed controls weight initialization. If zero, a time-based seed is used.
	Seed int64
}

// Model is a linear regressor: predictions are W*x + b. Weight shapes are
// discovered from the first minibatch seen during Fit.
type Model struct {
	// Config used for training / initialization.
	Config Config

	// weights is a matrix of shape [outDim][inDim]; biases has length outDim.
	weights [][]float32
	biases  []float32

	rng *rand.Rand
}

// NewModel creates a Model with the provided configuration.
func NewModel(cfg Config) (*Model, error) {
	if cfg.LearningRate < 0 {
		return nil, fmt.Errorf("learning rate must be >= 0, got %v", cfg.LearningRate)
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.03
	}
	if cfg.Epochs == 0 {
		cfg.Epochs = 3
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Model{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// initParams allocates weights and biases for the given dimensions.
func (m *Model) initParams(inDim, outDim int) {
	limit := float32(math.Sqrt(6.0 / float64(inDim+outDim)))
	m.weights = make([][]float32, outDim)
	for j := range outDim {
		row := make([]float32, inDim)
		for i := range row {
			row[i] = (m.rng.Float32()*2.0 - 1.0) * limit
		}
		m.weights[j] = row
	}
	m.biases = make([]float32, outDim)
}

// Fit trains the model by iterating ld for Config.Epochs epochs. Each epoch
// starts with ld.Reset(), so a shuffling loader re-shuffles between epochs.
func (m *Model) Fit(ld *loader.Loader) error {
	if ld == nil {
		return errors.New("loader is nil")
	}

	lr := float32(m.Config.LearningRate)
	for range m.Config.Epochs {
		ld.Reset()
		for {
			inputs, labels, err := ld.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				continue
			}
			if m.weights == nil {
				m.initParams(len(inputs[0]), len(labels[0]))
			}
			if err := m.step(inputs, labels, lr); err != nil {
				return err
			}
		}
	}
	return nil
}

// step applies one averaged SGD update for a minibatch.
func (m *Model) step(inputs, labels [][]float32, lr float32) error {
	outDim := len(m.biases)
	inDim := len(m.weights[0])

	gradW := make([][]float32, outDim)
	for j := range outDim {
		gradW[j] = make([]float32, inDim)
	}
	gradB := make([]float32, outDim)

	for ex := range inputs {
		in := inputs[ex]
		la := labels[ex]
		if len(in) != inDim {
			return fmt.Errorf("input has dimension %d, expected %d", len(in), inDim)
		}
		if len(la) != outDim {
			return fmt.Errorf("label has dimension %d, expected %d", len(la), outDim)
		}

		// dLoss/dOutput = 2*(pred - label)
		for j := range outDim {
			pred := m.biases[j]
			row := m.weights[j]
			for i := range inDim {
				pred += row[i] * in[i]
			}
			delta := 2.0 * (pred - la[j])
			gradB[j] += delta
			for i := range inDim {
				gradW[j][i] += delta * in[i]
			}
		}
	}

	bInv := float32(1.0 / float64(len(inputs)))
	for j := range outDim {
		m.biases[j] -= lr * gradB[j] * bInv
		for i := range inDim {
			m.weights[j][i] -= lr * gradW[j][i] * bInv
		}
	}
	return nil
}

// Predict returns model outputs for a batch of inputs. The model must have
// been fitted first.
func (m *Model) Predict(inputs [][]float32) ([][]float32, error) {
	if m.weights == nil {
		return nil, errors.New("model has not been fitted")
	}
	inDim := len(m.weights[0])
	out := make([][]float32, len(inputs))
	for ex, in := range inputs {
		if len(in) != inDim {
			return nil, fmt.Errorf("input has dimension %d, expected %d", len(in), inDim)
		}
		pred := make([]float32, len(m.biases))
		for j := range m.biases {
			sum := m.biases[j]
			row := m.weights[j]
			for i := range inDim {
				sum += row[i] * in[i]
			}
			pred[j] = sum
		}
		out[ex] = pred
	}
	return out, nil
}

// Weights returns copies of the fitted weight matrix and bias vector.
func (m *Model) Weights() ([][]float32, []float32) {
	if m.weights == nil {
		return nil, nil
	}
	w := make([][]float32, len(m.weights))
	for j := range m.weights {
		w[j] = append([]float32(nil), m.weights[j]...)
	}
	b := append([]float32(nil), m.biases...)
	return w, b
}
