package fieldtypes

import (
	"encoding/json"

	"gridclip/pkg/models"
	"gridclip/pkg/utils"
)

// textType serves both single and multi line text; only the tag differs.
type textType struct {
	tag string
}

func (t textType) Type() string { return t.tag }

func (textType) PrepareValueForCopy(_ models.Field, value any) string {
	return utils.ToString(value)
}

func (textType) PrepareRichValueForCopy(_ models.Field, value any) any {
	if value == nil {
		return nil
	}
	return utils.ToString(value)
}

func (textType) PrepareValueForPaste(_ models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var s string
		if err := json.Unmarshal(rich, &s); err == nil {
			return s, true
		}
	}
	return text, true
}

func (textType) EmptyValue(models.Field) any {
	return ""
}
