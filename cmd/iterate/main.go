package main

// iterate demonstrates the dataset/loader pipeline end to end:
//
//  1. Generate a table of random feature rows with random integer class
//     labels, wrap it in a Loader and walk one epoch, printing the size and
//     shape of every minibatch. With the defaults (100 rows, batch size 10)
//     the epoch yields exactly 10 batches of 10 examples.
//  2. Generate a synthetic linear-regression table, fit the regress package's
//     linear model by iterating the loader for a few epochs, and log the
//     recovered weights next to the generating ones.
//
// With -plot, a scatter of predicted vs. actual labels is saved as a PNG.
//
// Usage:
//   go run ./cmd/iterate -rows 100 -batch-size 10 -workers 4 -plot fit.png

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/dataloader/datasets"
	"github.com/Noofbiz/dataloader/loader"
	"github.com/Noofbiz/dataloader/regress"
)

func main() {
	rows := flag.Int("rows", 100, "number of synthetic examples to generate")
	features := flag.Int("features", 2, "feature dimension of each example")
	classes := flag.Int("classes", 10, "number of classes for the random integer labels")
	batchSize := flag.Int("batch-size", 10, "examples per minibatch")
	shuffle := flag.Bool("shuffle", true, "shuffle example order every epoch")
	dropLast := flag.Bool("drop-last", false, "drop the final short batch of an epoch")
	workers := flag.Int("workers", 0, "parallel prefetch workers (0 = synchronous)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	epochs := flag.Int("epochs", 3, "training epochs for the regression demo")
	learningRate := flag.Float64("learning-rate", 0.03, "SGD learning rate for the regression demo")
	noise := flag.Float64("noise", 0.01, "label noise stddev for the regression demo")
	plotPath := flag.String("plot", "", "if set, save a predicted-vs-actual scatter plot to this PNG path")
	flag.Parse()

	// Phase 1: random classification table, one epoch of minibatches.
	log.Printf("Generating %d random examples (%d features, integer labels in [0, %d))...",
		*rows, *features, *classes)
	clsDS, err := datasets.NewRandomClassification(*rows, *features, *classes, *seed)
	if err != nil {
		log.Fatalf("failed to build classification dataset: %v", err)
	}

	ld, err := loader.New(clsDS, loader.Config{
		BatchSize: *batchSize,
		Shuffle:   *shuffle,
		DropLast:  *dropLast,
		Workers:   *workers,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatalf("failed to build loader: %v", err)
	}

	log.Printf("Iterating one epoch (%d batches expected)...", ld.Batches())
	total := 0
	for batchNum := 0; ; batchNum++ {
		inputs, labels, err := ld.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to load batch %d: %v", batchNum, err)
		}
		flat, err := datasets.MakeBatchFlat(inputs, labels)
		if err != nil {
			log.Fatalf("failed to flatten batch %d: %v", batchNum, err)
		}
		fmt.Printf("batch %2d: %d examples, inputs [%d, %d], labels [%d, %d]\n",
			batchNum, flat.BatchSize, flat.BatchSize, flat.InputDim, flat.BatchSize, flat.LabelDim)
		total += flat.BatchSize
	}
	log.Printf("Epoch complete: %d examples seen across %d batches", total, ld.Batches())

	// Same batches are available as gomlx tensors through the train.Dataset side.
	ld.Reset()
	_, inT, labT, err := ld.Yield()
	if err != nil {
		log.Fatalf("failed to yield tensor batch: %v", err)
	}
	fmt.Printf("as gomlx tensors: input=%T label=%T\n", inT[0], labT[0])

	// Phase 2: synthetic linear regression fitted through the loader.
	trueW := []float32{2, -3.4}
	trueB := float32(4.2)
	log.Printf("Generating %d linear-regression examples (w=%v, b=%.2f, noise=%.3f)...",
		*rows, trueW, trueB, *noise)
	regDS, err := datasets.NewLinearRegression(trueW, trueB, *rows, *noise, *seed)
	if err != nil {
		log.Fatalf("failed to build regression dataset: %v", err)
	}
	regLD, err := loader.New(regDS, loader.Config{
		BatchSize: *batchSize,
		Shuffle:   true,
		Workers:   *workers,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatalf("failed to build regression loader: %v", err)
	}

	model, err := regress.NewModel(regress.Config{
		LearningRate: *learningRate,
		Epochs:       *epochs,
		Seed:         *seed,
	})
	if err != nil {
		log.Fatalf("failed to create model: %v", err)
	}

	start := time.Now()
	if err := model.Fit(regLD); err != nil {
		log.Fatalf("training failed: %v", err)
	}
	w, b := model.Weights()
	log.Printf("Training completed in %v", time.Since(start))
	log.Printf("learned w=%v b=%.3f (generating w=%v b=%.3f)", w[0], b[0], trueW, trueB)

	if *plotPath != "" {
		if err := savePredictionPlot(*plotPath, regDS, model); err != nil {
			log.Fatalf("failed to save plot: %v", err)
		}
		log.Printf("Saved prediction scatter to %s", *plotPath)
	}
}

// savePredictionPlot writes a scatter of predicted vs. actual labels for a
// sample of the dataset. A perfect fit lands every point on the diagonal.
func savePredictionPlot(path string, ds datasets.Dataset, model *regress.Model) error {
	n := min(200, ds.Len())
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	inputs, labels, err := ds.Batch(indices)
	if err != nil {
		return err
	}
	preds, err := model.Predict(inputs)
	if err != nil {
		return err
	}

	xys := make(plotter.XYs, 0, n)
	lo, hi := float64(0), float64(0)
	for i := range preds {
		x := float64(labels[i][0])
		y := float64(preds[i][0])
		if i == 0 || x < lo {
			lo = x
		}
		if i == 0 || x > hi {
			hi = x
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}

	p := plot.New()
	p.Title.Text = "Linear regression fit"
	p.X.Label.Text = "actual label"
	p.Y.Label.Text = "predicted label"

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	sc.GlyphStyle.Radius = vg.Points(1.8)
	p.Add(sc)
	p.Legend.Add("predictions", sc)

	// Diagonal reference line (perfect predictions)
	diag, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	diag.Color = color.RGBA{R: 120, G: 120, B: 120, A: 180}
	diag.Width = vg.Points(0.8)
	p.Add(diag)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
