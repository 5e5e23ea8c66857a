package fieldtypes

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gridclip/pkg/dsv"
	"gridclip/pkg/models"
	"gridclip/pkg/utils"
)

// linkRowType cells hold references to rows of another table. Without the
// rich value only the primary names survive a paste; their ids stay 0
// until something resolves them.
type linkRowType struct{}

func (linkRowType) Type() string { return models.FieldLinkRow }

func (linkRowType) PrepareValueForCopy(_ models.Field, value any) string {
	links := toLinkedRows(value)
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Value
	}
	return dsv.CSV.EncodeRow(names)
}

func (linkRowType) PrepareRichValueForCopy(_ models.Field, value any) any {
	return toLinkedRows(value)
}

func (linkRowType) PrepareValueForPaste(_ models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var links []models.LinkedRow
		if err := json.Unmarshal(rich, &links); err == nil {
			return links, true
		}
	}

	links := []models.LinkedRow{}
	for _, name := range splitList(text) {
		links = append(links, models.LinkedRow{Value: name})
	}
	return links, true
}

func (linkRowType) EmptyValue(models.Field) any {
	return []models.LinkedRow{}
}

func toLinkedRows(value any) []models.LinkedRow {
	links := []models.LinkedRow{}
	switch v := value.(type) {
	case nil:
	case []models.LinkedRow:
		links = append(links, v...)
	default:
		if err := utils.Convert(v, &links); err != nil {
			return []models.LinkedRow{}
		}
	}
	return links
}

// fileRef matches the "visible name (url)" rendering of one file.
var fileRef = regexp.MustCompile(`^\s*(.*?)\s*\((https?://[^\s)]+)\)\s*$`)

// fileType cells hold a list of uploaded files. Pasted text can only be
// turned back into files when it uses the "name (url)" rendering.
type fileType struct{}

func (fileType) Type() string { return models.FieldFile }

func (fileType) PrepareValueForCopy(_ models.Field, value any) string {
	files := toFiles(value)
	parts := make([]string, len(files))
	for i, f := range files {
		parts[i] = fmt.Sprintf("%s (%s)", f.VisibleName, f.URL)
	}
	return dsv.CSV.EncodeRow(parts)
}

func (fileType) PrepareRichValueForCopy(_ models.Field, value any) any {
	return toFiles(value)
}

func (fileType) PrepareValueForPaste(_ models.Field, text string, rich json.RawMessage) (any, bool) {
	if !isAbsent(rich) {
		var files []models.File
		if err := json.Unmarshal(rich, &files); err == nil {
			return files, true
		}
	}

	if strings.TrimSpace(text) == "" {
		return []models.File{}, true
	}
	files := []models.File{}
	for _, part := range splitList(text) {
		m := fileRef.FindStringSubmatch(part)
		if m == nil {
			return nil, false
		}
		name := m[2][strings.LastIndex(m[2], "/")+1:]
		files = append(files, models.File{Name: name, VisibleName: m[1], URL: m[2]})
	}
	return files, true
}

func (fileType) EmptyValue(models.Field) any {
	return []models.File{}
}

func toFiles(value any) []models.File {
	files := []models.File{}
	switch v := value.(type) {
	case nil:
	case []models.File:
		files = append(files, v...)
	default:
		if err := utils.Convert(v, &files); err != nil {
			return []models.File{}
		}
	}
	return files
}
