package clipboard

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"gridclip/pkg/dsv"
	"gridclip/pkg/errors"
	"gridclip/pkg/fieldtypes"
	"gridclip/pkg/logger"
	"gridclip/pkg/store"

	"github.com/google/uuid"
)

// Transfer describes a completed copy.
type Transfer struct {
	ID   uuid.UUID
	Text string
	Rows int
	Cols int
	// Rich is false when the payload could not be persisted; the plain
	// text was still written.
	Rich bool
}

type Writer struct {
	system      SystemClipboard
	store       store.Store
	registry    *fieldtypes.Registry
	richFormats bool
}

type WriterOption func(*Writer)

// WithRegistry overrides the field type registry (fieldtypes.Default).
func WithRegistry(r *fieldtypes.Registry) WriterOption {
	return func(w *Writer) {
		w.registry = r
	}
}

// WithRichFormats also offers text/html and RichMIMEType when the system
// clipboard can serve several formats.
func WithRichFormats(enabled bool) WriterOption {
	return func(w *Writer) {
		w.richFormats = enabled
	}
}

func NewWriter(system SystemClipboard, st store.Store, opts ...WriterOption) *Writer {
	w := &Writer{
		system:   system,
		store:    st,
		registry: fieldtypes.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write copies sel. The plain text always reaches the system clipboard
// before the payload is stored; a store failure is logged and reported
// through Transfer.Rich only.
func (w *Writer) Write(ctx context.Context, sel Selection) (Transfer, error) {
	if err := ctx.Err(); err != nil {
		return Transfer{}, err
	}

	plain, rich, err := w.serialize(sel)
	if err != nil {
		return Transfer{}, err
	}

	rows, cols := sel.Dimensions()
	transfer := Transfer{
		ID:   uuid.New(),
		Text: dsv.TSV.Encode(plain),
		Rows: rows,
		Cols: cols,
	}
	payload := Payload{ID: transfer.ID.String(), Text: transfer.Text, JSON: rich}

	encoded, encodeErr := payload.Marshal()
	if err := w.writeSystem(transfer.Text, plain, encoded, encodeErr == nil); err != nil {
		return Transfer{}, errors.ClipboardError(err)
	}

	log := logger.GetLogger().With().
		Str("transfer_id", transfer.ID.String()).
		Int("rows", rows).
		Int("cols", cols).
		Logger()

	if encodeErr != nil {
		log.Warn().Err(encodeErr).Msg("rich clipboard payload could not be encoded, copied plain text only")
		return transfer, nil
	}

	if err := w.store.Set(StorageKey, encoded); err != nil {
		if stderrors.Is(err, store.ErrQuotaExceeded) {
			log.Warn().Int("bytes", len(encoded)).Msg("clipboard store is full, copied plain text only")
		} else {
			log.Warn().Err(err).Msg("failed to persist rich clipboard payload, copied plain text only")
		}
		return transfer, nil
	}

	transfer.Rich = true
	log.Debug().Int("bytes", len(encoded)).Msg("copied selection")
	return transfer, nil
}

func (w *Writer) serialize(sel Selection) ([][]string, [][]json.RawMessage, error) {
	plain := make([][]string, len(sel))
	rich := make([][]json.RawMessage, len(sel))

	for i, row := range sel {
		plain[i] = make([]string, len(row))
		rich[i] = make([]json.RawMessage, len(row))
		for j, cell := range row {
			ft, err := w.registry.Get(cell.Field.Type)
			if err != nil {
				return nil, nil, errors.NewWithError(errors.ExitCodeValidation,
					"cannot copy field '"+cell.Field.Name+"'", err)
			}
			plain[i][j] = ft.PrepareValueForCopy(cell.Field, cell.Value)
			rich[i][j] = marshalRich(ft.PrepareRichValueForCopy(cell.Field, cell.Value))
		}
	}
	return plain, rich, nil
}

func (w *Writer) writeSystem(text string, plain [][]string, encoded string, haveEncoded bool) error {
	fw, ok := w.system.(FormatWriter)
	if !w.richFormats || !ok {
		return w.system.WriteText(text)
	}

	formats := map[string][]byte{
		"text/html": []byte(renderHTML(plain)),
	}
	if haveEncoded {
		formats[RichMIMEType] = []byte(encoded)
	}
	return fw.WriteFormats(text, formats)
}

var jsonNull = json.RawMessage("null")

func marshalRich(v any) json.RawMessage {
	if v == nil {
		return jsonNull
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Debug().Err(err).Msg("rich cell value is not serializable, storing null")
		return jsonNull
	}
	return data
}
