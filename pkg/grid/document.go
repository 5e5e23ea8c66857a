// Package grid is the table model the clipboard copies from and pastes
// into: a list of typed fields and rows of values, persisted as YAML.
package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gridclip/pkg/clipboard"
	"gridclip/pkg/errors"
	"gridclip/pkg/fieldtypes"
	"gridclip/pkg/logger"
	"gridclip/pkg/models"

	"gopkg.in/yaml.v3"
)

type Document struct {
	Fields []models.Field `yaml:"fields" json:"fields"`
	Rows   []models.Row   `yaml:"rows" json:"rows"`
}

// Position addresses one cell by zero-based row and column.
type Position struct {
	Row int
	Col int
}

// Range is a rectangular block of cells starting at Row, Col.
type Range struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

func (r Range) String() string {
	return fmt.Sprintf("%dx%d at row %d, col %d", r.Rows, r.Cols, r.Row+1, r.Col+1)
}

// Applied summarizes what a paste did.
type Applied struct {
	Changed   int
	Unchanged int
	ReadOnly  int
	Rejected  int
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileError("read", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgGridLoad+": "+path, err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgGridSave, err)
	}

	// Write to a sibling and rename so a failed save keeps the old file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".grid-*.yaml")
	if err != nil {
		return errors.FileError("write", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.FileError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.FileError("write", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.FileError("write", path, err)
	}
	return nil
}

func (d *Document) validate() error {
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" {
			return errors.ValidationError("grid field without a name")
		}
		if seen[f.Name] {
			return errors.ValidationError(fmt.Sprintf("duplicate field name '%s'", f.Name))
		}
		seen[f.Name] = true
	}
	return nil
}

func (d *Document) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldIndex returns the column of the named field.
func (d *Document) FieldIndex(name string) (int, error) {
	for i, f := range d.Fields {
		if f.Name == name {
			return i, nil
		}
	}
	return -1, errors.FieldNotFoundError(name, d.FieldNames())
}

// Bounds is the whole document as a range.
func (d *Document) Bounds() Range {
	return Range{Rows: len(d.Rows), Cols: len(d.Fields)}
}

// Clip returns r cut down to the document. ok is false when nothing of r
// is inside it.
func (d *Document) Clip(r Range) (Range, bool) {
	if r.Row < 0 || r.Col < 0 || r.Row >= len(d.Rows) || r.Col >= len(d.Fields) {
		return Range{}, false
	}
	r.Rows = min(r.Rows, len(d.Rows)-r.Row)
	r.Cols = min(r.Cols, len(d.Fields)-r.Col)
	return r, r.Rows > 0 && r.Cols > 0
}

// Selection copies the cells of r, clipped to the document.
func (d *Document) Selection(r Range) (clipboard.Selection, error) {
	clipped, ok := d.Clip(r)
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("range %s is outside the grid (%d rows, %d fields)",
			r, len(d.Rows), len(d.Fields)))
	}
	rows := make([]int, clipped.Rows)
	for i := range rows {
		rows[i] = clipped.Row + i
	}
	cols := make([]int, clipped.Cols)
	for j := range cols {
		cols[j] = clipped.Col + j
	}
	return d.Select(rows, cols), nil
}

// Select copies the cells at the crossings of rows and cols, in the order
// given. Indexes must be in range.
func (d *Document) Select(rows, cols []int) clipboard.Selection {
	sel := make(clipboard.Selection, len(rows))
	for i, r := range rows {
		sel[i] = make([]clipboard.Cell, len(cols))
		for j, c := range cols {
			field := d.Fields[c]
			sel[i][j] = clipboard.Cell{Field: field, Value: d.Rows[r].Get(field)}
		}
	}
	return sel
}

// ApplyPaste writes res into target. A single pasted cell fills every
// cell of target. A larger block is written from the top-left of target,
// clipped to target, or to the document when target is a single cell.
func (d *Document) ApplyPaste(target Range, res clipboard.Result, reg *fieldtypes.Registry) (Applied, error) {
	if reg == nil {
		reg = fieldtypes.Default()
	}
	target.Rows = max(target.Rows, 1)
	target.Cols = max(target.Cols, 1)

	var applied Applied
	if len(res.PlainRows) == 0 {
		return applied, nil
	}

	if res.IsSingle() {
		area, ok := d.Clip(target)
		if !ok {
			return applied, d.outside(target)
		}
		text, rich := res.Single()
		for i := 0; i < area.Rows; i++ {
			for j := 0; j < area.Cols; j++ {
				if err := d.paste(&applied, reg, area.Row+i, area.Col+j, text, rich); err != nil {
					return applied, err
				}
			}
		}
		return applied, nil
	}

	area := target
	if target.Rows == 1 && target.Cols == 1 {
		area.Rows, area.Cols = len(res.PlainRows), 0
		for _, row := range res.PlainRows {
			area.Cols = max(area.Cols, len(row))
		}
	}
	area, ok := d.Clip(area)
	if !ok {
		return applied, d.outside(target)
	}

	for i := 0; i < area.Rows && i < len(res.PlainRows); i++ {
		row := res.PlainRows[i]
		for j := 0; j < area.Cols && j < len(row); j++ {
			if err := d.paste(&applied, reg, area.Row+i, area.Col+j, row[j], res.Rich(i, j)); err != nil {
				return applied, err
			}
		}
	}

	logger.Debug().
		Int("changed", applied.Changed).
		Int("read_only", applied.ReadOnly).
		Int("rejected", applied.Rejected).
		Str("state", res.State.String()).
		Msg("applied paste")
	return applied, nil
}

func (d *Document) paste(applied *Applied, reg *fieldtypes.Registry, r, c int, text string, rich json.RawMessage) error {
	field := d.Fields[c]
	if field.ReadOnly {
		applied.ReadOnly++
		return nil
	}

	ft, err := reg.Get(field.Type)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeValidation, "cannot paste into field '"+field.Name+"'", err)
	}

	value, ok := ft.PrepareValueForPaste(field, text, rich)
	if !ok {
		applied.Rejected++
		return nil
	}

	row := &d.Rows[r]
	if sameValue(ft, field, row.Get(field), value) {
		applied.Unchanged++
		return nil
	}
	row.Set(field, value)
	applied.Changed++
	return nil
}

// sameValue compares the stored and pasted values as the field type
// renders them, so a YAML int and a pasted int64 or float64 of the same
// number, or a decoded map and a models.LinkedRow, are equal.
func sameValue(ft fieldtypes.FieldType, field models.Field, current, value any) bool {
	a, err := json.Marshal(ft.PrepareRichValueForCopy(field, current))
	if err != nil {
		return false
	}
	b, err := json.Marshal(ft.PrepareRichValueForCopy(field, value))
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func (d *Document) outside(r Range) error {
	return errors.ValidationError(fmt.Sprintf("paste target %s is outside the grid (%d rows, %d fields)",
		r, len(d.Rows), len(d.Fields)))
}
