// Package clipboard copies grid selections to the system clipboard and
// reads them back on paste.
//
// A copy produces two synchronized representations: tab-separated plain
// text, which goes to the system clipboard and can be pasted anywhere, and
// a per-cell JSON payload that keeps type-preserving values (links,
// attachments, select options). The system clipboard cannot reliably carry
// custom data between applications, so the payload is kept in a side-channel
// store under StorageKey together with the text it belongs to. On paste the
// payload is only trusted when its text matches the clipboard text
// verbatim and its shape matches the parsed rows.
package clipboard

import "gridclip/pkg/models"

const (
	// StorageKey is the single store entry holding the latest payload.
	StorageKey = "gridclip.clipboardData"

	// RichMIMEType is offered next to text/plain where the platform lets a
	// clipboard owner serve several formats.
	RichMIMEType = "application/x-gridclip+json"
)

// Cell is one copied value together with the column it came from.
type Cell struct {
	Field models.Field
	Value any
}

// Selection is a rectangular block of cells in row-major order.
type Selection [][]Cell

// Dimensions returns the row count and the width of the widest row.
func (s Selection) Dimensions() (rows, cols int) {
	for _, row := range s {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(s), cols
}
