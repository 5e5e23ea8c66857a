package fieldtypes

import (
	"encoding/json"
	"strings"

	"gridclip/pkg/models"
	"gridclip/pkg/utils"
)

var truthy = map[string]bool{
	"1": true, "y": true, "t": true, "yes": true, "true": true,
	"on": true, "checked": true, "x": true, "✓": true, "✔": true,
}

type booleanType struct{}

func (booleanType) Type() string { return models.FieldBoolean }

func (booleanType) PrepareValueForCopy(_ models.Field, value any) string {
	if toBool(value) {
		return "true"
	}
	return "false"
}

func (booleanType) PrepareRichValueForCopy(_ models.Field, value any) any {
	return toBool(value)
}

func (booleanType) PrepareValueForPaste(_ models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var b bool
		if err := json.Unmarshal(rich, &b); err == nil {
			return b, true
		}
	}
	return truthy[strings.ToLower(strings.TrimSpace(text))], true
}

func (booleanType) EmptyValue(models.Field) any {
	return false
}

func toBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return truthy[strings.ToLower(strings.TrimSpace(utils.ToString(v)))]
	}
}
