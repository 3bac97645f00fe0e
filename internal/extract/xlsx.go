package extract

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ddqcheck/internal/question"
)

// LoadXLSX reads every sheet of a workbook in sheet order.
func LoadXLSX(path string, opts Options) ([]question.Row, error) {
	opts = opts.normalized()
	var reference referenceAnswers
	if opts.ReferencePath != "" {
		loaded, err := loadReference(opts.ReferencePath, opts)
		if err != nil {
			return nil, err
		}
		reference = loaded
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var rows []question.Row
	for _, sheet := range f.GetSheetList() {
		grid, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for i, cells := range limitRows(grid, opts.MaxRowsPerSheet) {
			rowIdx := i + 1
			id := cell(cells, opts.Columns.ID)
			text := cell(cells, opts.Columns.Question)
			answer := cell(cells, opts.Columns.Answer)
			if id == "" && text == "" && answer == "" {
				continue
			}
			rows = append(rows, question.NewRow(sheet, rowIdx, id, text, answer, reference.lookup(sheet, rowIdx)))
		}
	}
	return rows, nil
}

// referenceAnswers maps sheet name and row index to expected text.
type referenceAnswers map[string]map[int]string

func (r referenceAnswers) lookup(sheet string, rowIdx int) string {
	if r == nil {
		return ""
	}
	return r[sheet][rowIdx]
}

func loadReference(path string, opts Options) (referenceAnswers, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open reference workbook: %w", err)
	}
	defer f.Close()

	answers := referenceAnswers{}
	for _, sheet := range f.GetSheetList() {
		grid, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read reference sheet %q: %w", sheet, err)
		}
		for i, cells := range limitRows(grid, opts.MaxRowsPerSheet) {
			expected := cell(cells, opts.Columns.Expected)
			if expected == "" {
				continue
			}
			if answers[sheet] == nil {
				answers[sheet] = map[int]string{}
			}
			answers[sheet][i+1] = expected
		}
	}
	return answers, nil
}

func limitRows(grid [][]string, max int) [][]string {
	if max > 0 && len(grid) > max {
		return grid[:max]
	}
	return grid
}

// cell returns the normalized value of a 1-based column or an empty string.
func cell(cells []string, column int) string {
	if column <= 0 || column > len(cells) {
		return ""
	}
	return question.NormalizeCell(cells[column-1])
}
