// Package dataset loads tabular CSV data and turns it into the numeric
// feature matrix and label vector the classifiers consume.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

var (
	// ErrNoHeader is returned for an input without a header row.
	ErrNoHeader = errors.New("dataset: missing header row")

	// ErrUnknownColumn is returned when a named column is absent.
	ErrUnknownColumn = errors.New("dataset: unknown column")

	// ErrLabel is returned when the label column is not binary.
	ErrLabel = errors.New("dataset: invalid label column")

	// ErrSplit is returned for an unusable train/test split.
	ErrSplit = errors.New("dataset: invalid split")
)

// Frame is a table of string cells with a header, as read from CSV.
type Frame struct {
	Header []string
	Rows   [][]string
}

// LoadCSV reads the CSV file at path.
func LoadCSV(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frame, err := ReadCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return frame, nil
}

// ReadCSV reads a header row followed by records. Cells are trimmed of
// surrounding spaces; every record must have as many fields as the header.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}

	if err != nil {
		return nil, err
	}

	frame := &Frame{Header: trimAll(header)}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		frame.Rows = append(frame.Rows, trimAll(rec))
	}

	return frame, nil
}

// Len is the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of column name.
func (f *Frame) Index(name string) (int, error) {
	i := slices.Index(f.Header, name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	return i, nil
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]string, error) {
	j, err := f.Index(name)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[j]
	}

	return out, nil
}

// Drop returns a copy of f without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := map[int]bool{}

	for _, name := range names {
		j, err := f.Index(name)
		if err != nil {
			return nil, err
		}

		drop[j] = true
	}

	keep := func(row []string) []string {
		out := make([]string, 0, len(row)-len(drop))
		for j, v := range row {
			if !drop[j] {
				out = append(out, v)
			}
		}

		return out
	}

	out := &Frame{Header: keep(f.Header), Rows: make([][]string, len(f.Rows))}
	for i, row := range f.Rows {
		out.Rows[i] = keep(row)
	}

	return out, nil
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(v)
	}

	return out
}
