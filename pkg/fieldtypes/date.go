package fieldtypes

import (
	"encoding/json"
	"strings"
	"time"

	"gridclip/pkg/models"
	"gridclip/pkg/utils"
)

const isoDate = "2006-01-02"

var dateLayouts = map[string][]string{
	models.DateFormatISO: {isoDate, "2006/01/02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"},
	models.DateFormatUS:  {"01/02/2006", "1/2/2006", "01-02-2006", isoDate, time.RFC3339},
	models.DateFormatEU:  {"02/01/2006", "2/1/2006", "02-01-2006", "02.01.2006", isoDate, time.RFC3339},
}

// dateType stores dates as ISO strings; the field's date_format only
// decides how ambiguous pasted text is read.
type dateType struct{}

func (dateType) Type() string { return models.FieldDate }

func (dateType) PrepareValueForCopy(_ models.Field, value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format(isoDate)
	default:
		return utils.ToString(v)
	}
}

func (t dateType) PrepareRichValueForCopy(field models.Field, value any) any {
	s := t.PrepareValueForCopy(field, value)
	if s == "" {
		return nil
	}
	return s
}

func (dateType) PrepareValueForPaste(field models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var s string
		if err := json.Unmarshal(rich, &s); err == nil {
			if d, ok := parseDate(models.DateFormatISO, s); ok {
				return d, true
			}
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, true
	}
	return parseDate(field.DateFormat, text)
}

func (dateType) EmptyValue(models.Field) any {
	return nil
}

func parseDate(format, text string) (any, bool) {
	layouts, ok := dateLayouts[format]
	if !ok {
		layouts = dateLayouts[models.DateFormatISO]
	}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, text); err == nil {
			return d.Format(isoDate), true
		}
	}
	return nil, false
}
