package clipboard

import (
	"encoding/json"
	"errors"
)

var errMissingText = errors.New("payload has no text")

// Payload is what the side-channel store holds: the exact clipboard text
// and one rich value per cell. A JSON null cell has no rich value.
type Payload struct {
	ID   string              `json:"id,omitempty"`
	Text string              `json:"text"`
	JSON [][]json.RawMessage `json:"json"`
}

func (p Payload) Marshal() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalPayload parses a stored payload. A value without a text member
// is as unusable as one that is not JSON at all.
func UnmarshalPayload(raw string) (Payload, error) {
	var wire struct {
		ID   string              `json:"id"`
		Text *string             `json:"text"`
		JSON [][]json.RawMessage `json:"json"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Payload{}, err
	}
	if wire.Text == nil {
		return Payload{}, errMissingText
	}
	return Payload{ID: wire.ID, Text: *wire.Text, JSON: wire.JSON}, nil
}

// ShapeMatches reports whether the rich rows line up with plain: same row
// count, same cell count per row, and at least one non-empty row.
func (p Payload) ShapeMatches(plain [][]string) bool {
	if len(p.JSON) != len(plain) {
		return false
	}
	nonEmpty := false
	for i, row := range p.JSON {
		if len(row) != len(plain[i]) {
			return false
		}
		if len(row) > 0 {
			nonEmpty = true
		}
	}
	return nonEmpty
}
