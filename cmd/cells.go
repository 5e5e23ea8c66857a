package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"gridclip/pkg/errors"
	"gridclip/pkg/filter"
	"gridclip/pkg/grid"
)

// resolveColumn maps a field name or a 1-based column number to a column
// index. Empty means the first column.
func resolveColumn(doc *grid.Document, col string) (int, error) {
	col = strings.TrimSpace(col)
	if col == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(col); err == nil {
		if n < 1 || n > len(doc.Fields) {
			return 0, errors.ValidationError(fmt.Sprintf("column %d is out of range (1-%d)", n, len(doc.Fields)))
		}
		return n - 1, nil
	}

	idx, err := doc.FieldIndex(col)
	if err != nil {
		if hints := filter.Suggest(col, doc.FieldNames(), 3); len(hints) > 0 {
			return 0, errors.FieldNotFoundError(col, hints)
		}
		return 0, err
	}
	return idx, nil
}

// cellRange turns 1-based --row/--col flags and --rows/--cols counts into
// a range. A count of 0 extends to the end of the grid.
func cellRange(doc *grid.Document, row int, col string, rows, cols int) (grid.Range, error) {
	if row < 1 {
		return grid.Range{}, errors.ValidationError(fmt.Sprintf("row must be 1 or greater, got %d", row))
	}
	if rows < 0 || cols < 0 {
		return grid.Range{}, errors.ValidationError("row and column counts cannot be negative")
	}
	c, err := resolveColumn(doc, col)
	if err != nil {
		return grid.Range{}, err
	}

	r := grid.Range{Row: row - 1, Col: c, Rows: rows, Cols: cols}
	if rows == 0 {
		r.Rows = len(doc.Rows) - r.Row
	}
	if cols == 0 {
		r.Cols = len(doc.Fields) - r.Col
	}
	return r, nil
}

// fieldFilters builds one filter per --fields pattern.
func fieldFilters(patterns []string, match string) ([]*filter.StringFilter, error) {
	mode, err := filter.ParseMode(match)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	filters := make([]*filter.StringFilter, 0, len(patterns))
	for _, p := range patterns {
		f, err := filter.NewStringFilter(p, mode)
		if err != nil {
			return nil, errors.ValidationError(err.Error())
		}
		filters = append(filters, f)
	}
	return filters, nil
}
