package clipboard

import (
	"context"
	"encoding/json"

	"gridclip/pkg/dsv"
	"gridclip/pkg/logger"
	"gridclip/pkg/store"
)

// State tells how much of a paste could be reconstructed.
type State int

const (
	// PlainOnly means only the parsed clipboard text is available.
	PlainOnly State = iota
	// PlainWithRich means the stored rich values belong to this text.
	PlainWithRich
)

func (s State) String() string {
	switch s {
	case PlainWithRich:
		return "plain+rich"
	default:
		return "plain"
	}
}

// PasteEvent carries the text the platform delivered with a paste.
type PasteEvent struct {
	Text string
}

// Result is a reconstructed paste. RichRows is nil unless State is
// PlainWithRich, in which case it has exactly the shape of PlainRows.
type Result struct {
	Text       string
	PlainRows  [][]string
	RichRows   [][]json.RawMessage
	State      State
	TransferID string
}

// IsSingle reports a paste of exactly one cell.
func (r Result) IsSingle() bool {
	return len(r.PlainRows) == 1 && len(r.PlainRows[0]) == 1
}

// Single returns the only cell of a single-cell paste and its rich value,
// nil when there is none.
func (r Result) Single() (string, json.RawMessage) {
	if !r.IsSingle() {
		return "", nil
	}
	return r.PlainRows[0][0], r.Rich(0, 0)
}

// Rich returns the rich value of a cell, nil when absent.
func (r Result) Rich(row, col int) json.RawMessage {
	if r.RichRows == nil || row >= len(r.RichRows) || col >= len(r.RichRows[row]) {
		return nil
	}
	v := r.RichRows[row][col]
	if string(v) == "null" {
		return nil
	}
	return v
}

type Reader struct {
	store     store.Store
	clipboard TextReader
}

type ReaderOption func(*Reader)

// WithClipboard makes Read prefer an explicit clipboard read over the
// text delivered with the event.
func WithClipboard(r TextReader) ReaderOption {
	return func(rd *Reader) {
		rd.clipboard = r
	}
}

func NewReader(st store.Store, opts ...ReaderOption) *Reader {
	r := &Reader{store: st}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read reconstructs a paste. It never fails: every problem with the
// clipboard or the stored payload downgrades the result to PlainOnly.
func (r *Reader) Read(ctx context.Context, ev PasteEvent) Result {
	text := r.text(ctx, ev)

	rows, err := dsv.TSV.Decode(text)
	if err != nil {
		logger.Debug().Err(err).Msg("clipboard text is not well formed, using best-effort rows")
	}

	res := Result{Text: text, PlainRows: rows, State: PlainOnly}
	if payload, ok := r.payloadFor(text, rows); ok {
		res.RichRows = payload.JSON
		res.State = PlainWithRich
		res.TransferID = payload.ID
	}
	return res
}

func (r *Reader) text(ctx context.Context, ev PasteEvent) string {
	if r.clipboard == nil {
		return ev.Text
	}
	text, err := r.clipboard.ReadText(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("clipboard read failed, using event data")
		return ev.Text
	}
	if text == "" {
		return ev.Text
	}
	return text
}

func (r *Reader) payloadFor(text string, rows [][]string) (Payload, bool) {
	raw, ok, err := r.store.Get(StorageKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read rich clipboard payload")
		return Payload{}, false
	}
	if !ok {
		return Payload{}, false
	}

	payload, err := UnmarshalPayload(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("discarding unreadable rich clipboard payload")
		r.discard()
		return Payload{}, false
	}

	// Anything else on the clipboard means another application, or another
	// copy, wrote since this payload was stored.
	if payload.Text != text {
		logger.Debug().Str("transfer_id", payload.ID).Msg("discarding stale rich clipboard payload")
		r.discard()
		return Payload{}, false
	}

	if !payload.ShapeMatches(rows) {
		logger.Debug().Str("transfer_id", payload.ID).Msg("rich clipboard payload does not match the pasted cells")
		return Payload{}, false
	}

	return payload, true
}

func (r *Reader) discard() {
	if err := r.store.Remove(StorageKey); err != nil {
		logger.Warn().Err(err).Msg("failed to clear rich clipboard payload")
	}
}
