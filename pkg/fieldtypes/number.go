package fieldtypes

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gridclip/pkg/models"
	"gridclip/pkg/utils"
)

type numberType struct{}

func (numberType) Type() string { return models.FieldNumber }

func (numberType) PrepareValueForCopy(field models.Field, value any) string {
	f, ok := utils.ToFloat64(value)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', field.Decimals, 64)
}

// The rich value is the decimal string so no precision is lost in JSON.
func (t numberType) PrepareRichValueForCopy(field models.Field, value any) any {
	s := t.PrepareValueForCopy(field, value)
	if s == "" {
		return nil
	}
	return s
}

func (numberType) PrepareValueForPaste(field models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var n json.Number
		if err := json.Unmarshal(rich, &n); err == nil {
			if f, err := n.Float64(); err == nil {
				return roundTo(f, field.Decimals)
			}
		}
	}

	text = normalizeNumber(text)
	if text == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return roundTo(f, field.Decimals)
}

func (numberType) EmptyValue(models.Field) any {
	return nil
}

// normalizeNumber strips the whitespace and thousands separators
// spreadsheets add to formatted numbers.
func normalizeNumber(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, " ", "")
	return text
}

// roundTo returns an int64 for whole-number fields and a float64 rounded to
// the field's decimals otherwise. Values that do not fit are rejected.
func roundTo(f float64, decimals int) (any, bool) {
	if decimals <= 0 {
		r := math.Round(f)
		if r >= math.MaxInt64 || r < math.MinInt64 {
			return nil, false
		}
		return int64(r), true
	}
	p := math.Pow(10, float64(decimals))
	r := math.Round(f*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return nil, false
	}
	return r, true
}
