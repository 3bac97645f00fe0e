// Package extract reads question rows from filled questionnaires.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ddqcheck/internal/question"
)

var (
	// ErrNoRows reports a file that produced no question rows.
	ErrNoRows = errors.New("no rows were extracted: check that the filled file uses the expected column layout (A=ID, B=Question, C=Answer)")
	// ErrUnsupportedFormat reports a file that is neither XLSX nor PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format (expected .xlsx or .pdf)")
)

// Columns maps row fields to 1-based spreadsheet columns.
type Columns struct {
	ID       int
	Question int
	Answer   int
	Expected int
}

// DefaultColumns is the A=ID, B=Question, C=Answer, D=Expected layout.
func DefaultColumns() Columns {
	return Columns{ID: 1, Question: 2, Answer: 3, Expected: 4}
}

// Options controls extraction.
type Options struct {
	Columns Columns
	// MaxRowsPerSheet limits rows read per sheet; zero means no limit.
	MaxRowsPerSheet int
	// ReferencePath names a workbook whose expected column supplies model answers.
	ReferencePath string
}

func (o Options) normalized() Options {
	defaults := DefaultColumns()
	if o.Columns.ID <= 0 {
		o.Columns.ID = defaults.ID
	}
	if o.Columns.Question <= 0 {
		o.Columns.Question = defaults.Question
	}
	if o.Columns.Answer <= 0 {
		o.Columns.Answer = defaults.Answer
	}
	if o.Columns.Expected <= 0 {
		o.Columns.Expected = defaults.Expected
	}
	if o.MaxRowsPerSheet < 0 {
		o.MaxRowsPerSheet = 0
	}
	return o
}

// Format identifies the input kind by file extension.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// DetectFormat returns the format for a path or ErrUnsupportedFormat.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Load extracts rows from an XLSX or PDF file.
func Load(path string, opts Options) ([]question.Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("filled file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("filled file %q is a directory", path)
	}
	opts = opts.normalized()

	var rows []question.Row
	switch format {
	case FormatPDF:
		rows, err = LoadPDF(path, opts)
	default:
		rows, err = LoadXLSX(path, opts)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}
