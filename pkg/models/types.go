package models

import "strings"

// Field type tags understood by the default field type registry.
const (
	FieldText           = "text"
	FieldLongText       = "long_text"
	FieldNumber         = "number"
	FieldBoolean        = "boolean"
	FieldDate           = "date"
	FieldSingleSelect   = "single_select"
	FieldMultipleSelect = "multiple_select"
	FieldLinkRow        = "link_row"
	FieldFile           = "file"
)

// Date formats a date field can use when parsing pasted text.
const (
	DateFormatISO = "ISO"
	DateFormatUS  = "US"
	DateFormatEU  = "EU"
)

// SelectOption is one choice of a single or multiple select field
type SelectOption struct {
	ID    int    `yaml:"id" json:"id"`
	Value string `yaml:"value" json:"value"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Field is a column definition of a grid
type Field struct {
	ID         int            `yaml:"id" json:"id"`
	Name       string         `yaml:"name" json:"name"`
	Type       string         `yaml:"type" json:"type"`
	ReadOnly   bool           `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Decimals   int            `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	DateFormat string         `yaml:"date_format,omitempty" json:"date_format,omitempty"`
	Options    []SelectOption `yaml:"options,omitempty" json:"options,omitempty"`
}

// OptionByID returns the select option with the given id
func (f Field) OptionByID(id int) (SelectOption, bool) {
	for _, o := range f.Options {
		if o.ID == id {
			return o, true
		}
	}
	return SelectOption{}, false
}

// OptionByValue returns the first select option whose value matches,
// ignoring case and surrounding whitespace
func (f Field) OptionByValue(value string) (SelectOption, bool) {
	value = strings.TrimSpace(value)
	for _, o := range f.Options {
		if strings.EqualFold(o.Value, value) {
			return o, true
		}
	}
	return SelectOption{}, false
}

// Row is a record of a grid; values are keyed by field name
type Row struct {
	ID     int            `yaml:"id" json:"id"`
	Values map[string]any `yaml:"values" json:"values"`
}

func (r Row) Get(field Field) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[field.Name]
}

func (r *Row) Set(field Field, value any) {
	if r.Values == nil {
		r.Values = make(map[string]any)
	}
	r.Values[field.Name] = value
}

// LinkedRow references a row of another table
type LinkedRow struct {
	ID    int    `yaml:"id" json:"id"`
	Value string `yaml:"value" json:"value"`
}

// File is an uploaded attachment
type File struct {
	Name        string `yaml:"name" json:"name"`
	VisibleName string `yaml:"visible_name" json:"visible_name"`
	URL         string `yaml:"url" json:"url"`
	Size        int64  `yaml:"size,omitempty" json:"size,omitempty"`
	MimeType    string `yaml:"mime_type,omitempty" json:"mime_type,omitempty"`
	IsImage     bool   `yaml:"is_image,omitempty" json:"is_image,omitempty"`
}
