package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVDataset presents rows from one or more CSV files as a Dataset. The
// caller names which header columns are features and which are labels;
// column matching is case-insensitive. Files are discovered with a glob
// pattern and indexed once at construction (row counts only); actual rows
// are read lazily when Example or Batch asks for them, so the CSV files
// never need to fit in memory.
type CSVDataset struct {
	// Pattern used to find CSV files (e.g., "assets/train/*.csv")
	Pattern string

	// Column names for features and labels, in row order
	featureCols []string
	labelCols   []string

	// List of CSV file paths matching the pattern
	csvPaths []string

	// Column indices discovered from the first file's header
	colIndex map[string]int

	// Row count per file (index -> row count)
	rowCounts map[int]int

	// Cumulative counts for global index mapping
	cumCounts []int

	// Total number of examples across all files
	totalExamples int
}

// NewCSVDataset creates a lazy CSV dataset over files matching pattern.
// featureCols and labelCols name header columns; every listed column must
// exist in the first file's header and all files must share that layout.
func NewCSVDataset(pattern string, featureCols, labelCols []string) (*CSVDataset, error) {
	if len(featureCols) == 0 {
		return nil, fmt.Errorf("at least one feature column is required")
	}
	if len(labelCols) == 0 {
		return nil, fmt.Errorf("at least one label column is required")
	}

	csvPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files found matching pattern: %s", pattern)
	}

	ds := &CSVDataset{
		Pattern:     pattern,
		featureCols: normalizeColumns(featureCols),
		labelCols:   normalizeColumns(labelCols),
		csvPaths:    csvPaths,
		rowCounts:   make(map[int]int),
	}

	if err := ds.initializeColumns(); err != nil {
		return nil, err
	}
	if err := ds.buildIndex(); err != nil {
		return nil, err
	}
	return ds, nil
}

func normalizeColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.TrimSpace(strings.ToLower(c))
	}
	return out
}

// initializeColumns reads the first CSV header to determine column indices
func (d *CSVDataset) initializeColumns() error {
	file, err := os.Open(d.csvPaths[0])
	if err != nil {
		return fmt.Errorf("failed to open first CSV %s: %w", d.csvPaths[0], err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	d.colIndex = make(map[string]int)
	for i, col := range header {
		d.colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}

	for _, col := range append(append([]string{}, d.featureCols...), d.labelCols...) {
		if _, ok := d.colIndex[col]; !ok {
			return fmt.Errorf("required column %q not found in CSV header", col)
		}
	}
	return nil
}

// buildIndex counts rows in all files and builds cumulative counts
func (d *CSVDataset) buildIndex() error {
	d.cumCounts = make([]int, len(d.csvPaths)+1)
	for i, path := range d.csvPaths {
		count, err := countCSVRows(path)
		if err != nil {
			return fmt.Errorf("failed to count rows in %s: %w", path, err)
		}
		d.rowCounts[i] = count
		d.cumCounts[i+1] = d.cumCounts[i] + count
	}
	d.totalExamples = d.cumCounts[len(d.csvPaths)]
	return nil
}

// Len returns the total number of examples across all CSV files.
func (d *CSVDataset) Len() int {
	return d.totalExamples
}

// InputDim returns the feature row dimension.
func (d *CSVDataset) InputDim() int {
	return len(d.featureCols)
}

// LabelDim returns the label row dimension.
func (d *CSVDataset) LabelDim() int {
	return len(d.labelCols)
}

// Example reads a single example by global index.
func (d *CSVDataset) Example(idx int) ([]float32, []float32, error) {
	if idx < 0 || idx >= d.totalExamples {
		return nil, nil, fmt.Errorf("index %d out of range [0, %d)", idx, d.totalExamples)
	}
	fileIdx, localIdx := d.mapGlobalIndex(idx)
	return d.readExample(fileIdx, localIdx)
}

// mapGlobalIndex maps a global index to (file index, row index within file)
func (d *CSVDataset) mapGlobalIndex(globalIdx int) (fileIdx, localIdx int) {
	for i := range len(d.csvPaths) {
		if globalIdx < d.cumCounts[i+1] {
			return i, globalIdx - d.cumCounts[i]
		}
	}
	// Unreachable if globalIdx is valid
	return len(d.csvPaths) - 1, d.rowCounts[len(d.csvPaths)-1] - 1
}

// parseRow extracts feature and label values from a CSV record.
func (d *CSVDataset) parseRow(record []string) ([]float32, []float32, error) {
	inputs := make([]float32, len(d.featureCols))
	for i, col := range d.featureCols {
		val, err := parseFloat32(record[d.colIndex[col]])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse column %q: %w", col, err)
		}
		inputs[i] = val
	}
	labels := make([]float32, len(d.labelCols))
	for i, col := range d.labelCols {
		val, err := parseFloat32(record[d.colIndex[col]])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse column %q: %w", col, err)
		}
		labels[i] = val
	}
	return inputs, labels, nil
}

// readExample reads a specific row from a file
func (d *CSVDataset) readExample(fileIdx, rowIdx int) ([]float32, []float32, error) {
	file, err := os.Open(d.csvPaths[fileIdx])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Skip to the desired row
	for range rowIdx {
		if _, err := reader.Read(); err != nil {
			return nil, nil, fmt.Errorf("failed to skip to row %d: %w", rowIdx, err)
		}
	}

	record, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read row %d: %w", rowIdx, err)
	}
	return d.parseRow(record)
}

// Batch reads multiple examples by their global indices. Indices are grouped
// by file so each file is scanned at most once per call.
func (d *CSVDataset) Batch(indices []int) ([][]float32, [][]float32, error) {
	inputs := make([][]float32, len(indices))
	labels := make([][]float32, len(indices))

	fileGroups := make(map[int][]struct{ globalIdx, batchPos int })
	for batchPos, idx := range indices {
		if idx < 0 || idx >= d.totalExamples {
			return nil, nil, fmt.Errorf("index %d out of range [0, %d)", idx, d.totalExamples)
		}
		fileIdx, _ := d.mapGlobalIndex(idx)
		fileGroups[fileIdx] = append(fileGroups[fileIdx], struct{ globalIdx, batchPos int }{idx, batchPos})
	}

	for fileIdx, group := range fileGroups {
		if err := d.readBatchFromFile(fileIdx, group, inputs, labels); err != nil {
			return nil, nil, err
		}
	}
	return inputs, labels, nil
}

// readBatchFromFile reads multiple examples from a single file in one scan
func (d *CSVDataset) readBatchFromFile(fileIdx int, indices []struct{ globalIdx, batchPos int },
	inputs, labels [][]float32) error {

	file, err := os.Open(d.csvPaths[fileIdx])
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	// Map local row indices to batch positions. A row may be requested more
	// than once (sampling with replacement), so positions are a slice.
	localMap := make(map[int][]int)
	lastRow := -1
	for _, item := range indices {
		_, localIdx := d.mapGlobalIndex(item.globalIdx)
		localMap[localIdx] = append(localMap[localIdx], item.batchPos)
		if localIdx > lastRow {
			lastRow = localIdx
		}
	}

	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}

		if positions, ok := localMap[rowIdx]; ok {
			in, lab, err := d.parseRow(record)
			if err != nil {
				return err
			}
			for _, batchPos := range positions {
				inputs[batchPos] = in
				labels[batchPos] = lab
			}
		}

		rowIdx++
		if rowIdx > lastRow {
			break
		}
	}
	return nil
}
