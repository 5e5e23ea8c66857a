package fieldtypes

import (
	"encoding/json"
	"strings"

	"gridclip/pkg/dsv"
	"gridclip/pkg/models"
	"gridclip/pkg/utils"
)

// Single select cells hold the option id.
type singleSelectType struct{}

func (singleSelectType) Type() string { return models.FieldSingleSelect }

func (singleSelectType) PrepareValueForCopy(field models.Field, value any) string {
	if o, ok := selectedOption(field, value); ok {
		return o.Value
	}
	return ""
}

func (singleSelectType) PrepareRichValueForCopy(field models.Field, value any) any {
	if o, ok := selectedOption(field, value); ok {
		return o
	}
	return nil
}

func (singleSelectType) PrepareValueForPaste(field models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var o models.SelectOption
		if err := json.Unmarshal(rich, &o); err == nil {
			// Options copied from another field may not exist here; fall
			// back to matching by name.
			if match, ok := field.OptionByID(o.ID); ok && strings.EqualFold(match.Value, o.Value) {
				return match.ID, true
			}
			if match, ok := field.OptionByValue(o.Value); ok {
				return match.ID, true
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil, true
	}
	if o, ok := field.OptionByValue(text); ok {
		return o.ID, true
	}
	return nil, false
}

func (singleSelectType) EmptyValue(models.Field) any {
	return nil
}

func selectedOption(field models.Field, value any) (models.SelectOption, bool) {
	switch v := value.(type) {
	case nil:
		return models.SelectOption{}, false
	case map[string]any:
		return field.OptionByID(utils.ToInt(v["id"]))
	case string:
		if o, ok := field.OptionByValue(v); ok {
			return o, true
		}
		return field.OptionByID(utils.ToInt(v))
	default:
		return field.OptionByID(utils.ToInt(v))
	}
}

// Multiple select cells hold a list of option ids.
type multipleSelectType struct{}

func (multipleSelectType) Type() string { return models.FieldMultipleSelect }

func (multipleSelectType) PrepareValueForCopy(field models.Field, value any) string {
	options := selectedOptions(field, value)
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.Value
	}
	return dsv.CSV.EncodeRow(names)
}

func (multipleSelectType) PrepareRichValueForCopy(field models.Field, value any) any {
	options := selectedOptions(field, value)
	if len(options) == 0 {
		return []models.SelectOption{}
	}
	return options
}

func (multipleSelectType) PrepareValueForPaste(field models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var options []models.SelectOption
		if err := json.Unmarshal(rich, &options); err == nil {
			ids := []int{}
			for _, o := range options {
				if match, ok := field.OptionByID(o.ID); ok && strings.EqualFold(match.Value, o.Value) {
					ids = appendUnique(ids, match.ID)
				} else if match, ok := field.OptionByValue(o.Value); ok {
					ids = appendUnique(ids, match.ID)
				}
			}
			return ids, true
		}
	}

	ids := []int{}
	for _, name := range splitList(text) {
		if o, ok := field.OptionByValue(name); ok {
			ids = appendUnique(ids, o.ID)
		}
	}
	return ids, true
}

func (multipleSelectType) EmptyValue(models.Field) any {
	return []int{}
}

func selectedOptions(field models.Field, value any) []models.SelectOption {
	items, ok := value.([]any)
	if !ok {
		if ints, isInts := value.([]int); isInts {
			for _, id := range ints {
				items = append(items, id)
			}
		}
	}
	options := []models.SelectOption{}
	for _, item := range items {
		if o, ok := selectedOption(field, item); ok {
			options = append(options, o)
		}
	}
	return options
}

// splitList reads a comma separated cell, honouring quotes around names
// that contain commas.
func splitList(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	rows, _ := dsv.CSV.Decode(text)
	var names []string
	for _, row := range rows {
		for _, name := range row {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func appendUnique(ids []int, id int) []int {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
