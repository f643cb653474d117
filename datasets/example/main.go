package main

// Example command demonstrating the CSV-backed dataset: it writes a small
// CSV file to a temporary directory, loads it lazily with CSVDataset, reads
// a batch of rows and converts it into gomlx tensors using the flat-batch
// helpers.
//
// Usage:
//   go run ./example

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Noofbiz/dataloader/datasets"
)

const sampleCSV = `height,weight,age,label
1.71,68.0,34,0
1.62,55.5,28,1
1.80,81.2,45,0
1.55,50.1,23,1
1.92,95.0,51,0
1.68,62.3,31,1
`

func main() {
	dir, err := os.MkdirTemp("", "dataloader-example")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	csvPath := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o644); err != nil {
		log.Fatalf("failed to write sample CSV: %v", err)
	}

	pattern := filepath.Join(dir, "*.csv")
	ds, err := datasets.NewCSVDataset(pattern, []string{"height", "weight", "age"}, []string{"label"})
	if err != nil {
		log.Fatalf("failed to load CSV dataset: %v", err)
	}
	fmt.Printf("Using CSV pattern: %s\n", pattern)
	fmt.Printf("Total examples available: %d\n", ds.Len())

	// Load a small batch (first N examples)
	n := min(4, ds.Len())
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}

	fmt.Printf("Loading batch of %d examples...\n", n)
	inputs, labels, err := ds.Batch(indices)
	if err != nil {
		log.Fatalf("failed to build batch: %v", err)
	}

	// Convert to flat contiguous buffers and then to gomlx tensors
	flat, err := datasets.MakeBatchFlat(inputs, labels)
	if err != nil {
		log.Fatalf("failed to make batch flat: %v", err)
	}
	inT, labT, err := flat.ToGomlxTensors()
	if err != nil {
		log.Fatalf("failed to convert batch to gomlx tensors: %v", err)
	}

	fmt.Printf("Created tensors: input=%T label=%T\n", inT, labT)
	fmt.Printf("  Input shape: [%d, %d]\n", flat.BatchSize, flat.InputDim)
	fmt.Printf("  Label shape: [%d, %d]\n", flat.BatchSize, flat.LabelDim)
	fmt.Printf("  First example input: %v\n", inputs[0])
	fmt.Printf("  First example label: %v\n", labels[0])

	fmt.Println("\nExample completed successfully!")
	fmt.Println("Note: rows were loaded lazily - the CSV file was only read when the batch asked for it.")
}
