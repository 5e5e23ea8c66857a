package clipboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gerrors "gridclip/pkg/errors"
	"gridclip/pkg/models"
	"gridclip/pkg/store"

	"github.com/google/go-cmp/cmp"
)

// fakeClipboard stands in for the operating system clipboard.
type fakeClipboard struct {
	text     string
	formats  map[string][]byte
	writeErr error
	readErr  error
	reads    int
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = text
	f.formats = nil
	return nil
}

func (f *fakeClipboard) ReadText(ctx context.Context) (string, error) {
	f.reads++
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.text, nil
}

// formatClipboard also accepts several MIME types.
type formatClipboard struct {
	fakeClipboard
}

func (f *formatClipboard) WriteFormats(plain string, formats map[string][]byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = plain
	f.formats = formats
	return nil
}

var (
	nameField  = models.Field{ID: 1, Name: "Name", Type: models.FieldText}
	priceField = models.Field{ID: 2, Name: "Price", Type: models.FieldNumber, Decimals: 2}
	linkField  = models.Field{ID: 3, Name: "Company", Type: models.FieldLinkRow}
)

func link(id int, value string) []models.LinkedRow {
	return []models.LinkedRow{{ID: id, Value: value}}
}

// selection2x3 is a 2 row by 3 column block with a rich link column.
func selection2x3() Selection {
	return Selection{
		{
			{Field: nameField, Value: "Widget"},
			{Field: priceField, Value: 9.5},
			{Field: linkField, Value: link(1, "Acme")},
		},
		{
			{Field: nameField, Value: "Gadget"},
			{Field: priceField, Value: 12},
			{Field: linkField, Value: link(2, "Globex")},
		},
	}
}

// paste simulates the next paste event carrying whatever the clipboard holds.
func paste(r *Reader, cb *fakeClipboard) Result {
	return r.Read(context.Background(), PasteEvent{Text: cb.text})
}

func TestWriteRead_RoundTrip(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	w := NewWriter(cb, st)

	transfer, err := w.Write(context.Background(), selection2x3())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !transfer.Rich || transfer.Rows != 2 || transfer.Cols != 3 {
		t.Errorf("Transfer = %+v, want rich 2x3", transfer)
	}
	if cb.text != transfer.Text {
		t.Errorf("clipboard holds %q, transfer says %q", cb.text, transfer.Text)
	}

	res := paste(NewReader(st), cb)

	wantPlain := [][]string{
		{"Widget", "9.50", "Acme"},
		{"Gadget", "12.00", "Globex"},
	}
	if diff := cmp.Diff(wantPlain, res.PlainRows); diff != "" {
		t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
	}
	if res.State != PlainWithRich {
		t.Fatalf("State = %v, want %v", res.State, PlainWithRich)
	}
	if res.TransferID != transfer.ID.String() {
		t.Errorf("TransferID = %q, want %q", res.TransferID, transfer.ID)
	}

	var links []models.LinkedRow
	if err := json.Unmarshal(res.Rich(1, 2), &links); err != nil {
		t.Fatalf("rich link cell: %v", err)
	}
	if diff := cmp.Diff(link(2, "Globex"), links); diff != "" {
		t.Errorf("rich link mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRead_Quoting(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	tricky := "tab\there, \"quoted\"\nand a new line"

	sel := Selection{{{Field: nameField, Value: tricky}, {Field: nameField, Value: "plain"}}}
	if _, err := NewWriter(cb, st).Write(context.Background(), sel); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	wantText := "\"tab\there, \"\"quoted\"\"\nand a new line\"\tplain"
	if cb.text != wantText {
		t.Errorf("clipboard text = %q, want %q", cb.text, wantText)
	}

	res := paste(NewReader(st), cb)
	if diff := cmp.Diff([][]string{{tricky, "plain"}}, res.PlainRows); diff != "" {
		t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
	}
	if res.State != PlainWithRich {
		t.Errorf("State = %v, want %v", res.State, PlainWithRich)
	}
}

func TestRead_ShapeGuard(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	if _, err := NewWriter(cb, st).Write(context.Background(), selection2x3()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, _, _ := st.Get(StorageKey)
	payload, err := UnmarshalPayload(raw)
	if err != nil {
		t.Fatalf("UnmarshalPayload() error = %v", err)
	}
	for i := range payload.JSON {
		payload.JSON[i] = payload.JSON[i][:2]
	}
	corrupted, _ := payload.Marshal()
	if err := st.Set(StorageKey, corrupted); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	res := paste(NewReader(st), cb)

	if res.RichRows != nil || res.State != PlainOnly {
		t.Errorf("rich data should be absent, got state %v rows %v", res.State, res.RichRows)
	}
	if rows, cols := len(res.PlainRows), len(res.PlainRows[0]); rows != 2 || cols != 3 {
		t.Errorf("plain rows = %dx%d, want 2x3", rows, cols)
	}
	if _, ok, _ := st.Get(StorageKey); !ok {
		t.Error("a shape mismatch must not clear the stored payload")
	}
}

func TestRead_StalenessGuard(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	if _, err := NewWriter(cb, st).Write(context.Background(), selection2x3()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Another application copies something else.
	cb.text = "unrelated\ttext\nfrom\telsewhere"

	res := paste(NewReader(st), cb)

	want := [][]string{{"unrelated", "text"}, {"from", "elsewhere"}}
	if diff := cmp.Diff(want, res.PlainRows); diff != "" {
		t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
	}
	if res.RichRows != nil || res.State != PlainOnly {
		t.Errorf("stale rich data was trusted: state %v", res.State)
	}
	if _, ok, _ := st.Get(StorageKey); ok {
		t.Error("stale payload should be cleared")
	}
}

func TestRead_SameShapeDifferentTextIsStale(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	sel := Selection{{{Field: nameField, Value: "mine"}}}
	if _, err := NewWriter(cb, st).Write(context.Background(), sel); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	cb.text = "theirs"
	res := paste(NewReader(st), cb)

	if res.State != PlainOnly {
		t.Errorf("State = %v, want %v", res.State, PlainOnly)
	}
	if text, rich := res.Single(); text != "theirs" || rich != nil {
		t.Errorf("Single() = %q, %s; want theirs without rich data", text, rich)
	}
}

func TestRead_SingleCell(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	sel := Selection{{{Field: linkField, Value: link(7, "Initech")}}}
	if _, err := NewWriter(cb, st).Write(context.Background(), sel); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	res := paste(NewReader(st), cb)

	if !res.IsSingle() {
		t.Fatalf("IsSingle() = false for rows %v", res.PlainRows)
	}
	if len(res.RichRows) != 1 || len(res.RichRows[0]) != 1 {
		t.Fatalf("RichRows shape = %v, want exactly one row of one cell", res.RichRows)
	}
	text, rich := res.Single()
	if text != "Initech" {
		t.Errorf("Single() text = %q, want Initech", text)
	}
	var links []models.LinkedRow
	if err := json.Unmarshal(rich, &links); err != nil || len(links) != 1 || links[0].ID != 7 {
		t.Errorf("Single() rich = %s (%v), want the linked row", rich, err)
	}
}

func TestRead_NullRichCellsAreAbsent(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	sel := Selection{{{Field: nameField, Value: nil}, {Field: nameField, Value: "x"}}}
	if _, err := NewWriter(cb, st).Write(context.Background(), sel); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	res := paste(NewReader(st), cb)
	if res.State != PlainWithRich {
		t.Fatalf("State = %v, want %v", res.State, PlainWithRich)
	}
	if res.Rich(0, 0) != nil {
		t.Errorf("Rich(0,0) = %s, want nil", res.Rich(0, 0))
	}
	if string(res.Rich(0, 1)) != `"x"` {
		t.Errorf("Rich(0,1) = %s, want \"x\"", res.Rich(0, 1))
	}
	if res.Rich(5, 5) != nil {
		t.Error("Rich() out of range should be nil")
	}
}

func TestWrite_StorageFailureResilience(t *testing.T) {
	tests := []struct {
		name  string
		store *store.Memory
	}{
		{name: "quota exceeded", store: store.NewMemory(8)},
		{name: "store error", store: func() *store.Memory {
			m := store.NewMemory(0)
			m.FailSet = errors.New("disk on fire")
			return m
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &fakeClipboard{}
			transfer, err := NewWriter(cb, tt.store).Write(context.Background(), selection2x3())
			if err != nil {
				t.Fatalf("Write() error = %v, want nil", err)
			}
			if transfer.Rich {
				t.Error("Transfer.Rich = true although the payload was not stored")
			}

			tt.store.FailSet = nil
			res := paste(NewReader(tt.store), cb)
			want := [][]string{
				{"Widget", "9.50", "Acme"},
				{"Gadget", "12.00", "Globex"},
			}
			if diff := cmp.Diff(want, res.PlainRows); diff != "" {
				t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
			}
			if res.State != PlainOnly {
				t.Errorf("State = %v, want %v", res.State, PlainOnly)
			}
		})
	}
}

func TestWrite_QuotaKeepsPreviousPayloadStale(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(400)
	w := NewWriter(cb, st)

	if _, err := w.Write(context.Background(), Selection{{{Field: nameField, Value: "small"}}}); err != nil {
		t.Fatalf("Write(small) error = %v", err)
	}
	big := Selection{{{Field: nameField, Value: strings.Repeat("x", 500)}}}
	transfer, err := w.Write(context.Background(), big)
	if err != nil {
		t.Fatalf("Write(big) error = %v", err)
	}
	if transfer.Rich {
		t.Fatal("big payload should not fit")
	}

	// The old payload is still stored but no longer matches the clipboard.
	res := paste(NewReader(st), cb)
	if res.State != PlainOnly {
		t.Errorf("State = %v, want %v", res.State, PlainOnly)
	}
	if text, _ := res.Single(); text != strings.Repeat("x", 500) {
		t.Errorf("Single() text has %d bytes, want 500", len(text))
	}
}

func TestWrite_SystemClipboardFailure(t *testing.T) {
	cb := &fakeClipboard{writeErr: errors.New("no display")}
	st := store.NewMemory(0)

	_, err := NewWriter(cb, st).Write(context.Background(), selection2x3())
	if !gerrors.IsExitCode(err, gerrors.ExitCodeClipboard) {
		t.Fatalf("Write() error = %v, want clipboard error", err)
	}
	if st.Len() != 0 {
		t.Error("nothing may be persisted when the clipboard write fails")
	}
}

func TestWrite_UnknownFieldType(t *testing.T) {
	cb := &fakeClipboard{}
	sel := Selection{{{Field: models.Field{Name: "Formula", Type: "formula"}, Value: "=1+1"}}}

	_, err := NewWriter(cb, store.NewMemory(0)).Write(context.Background(), sel)
	if !gerrors.IsExitCode(err, gerrors.ExitCodeValidation) {
		t.Fatalf("Write() error = %v, want validation error", err)
	}
	if cb.text != "" {
		t.Errorf("clipboard was written: %q", cb.text)
	}
}

func TestWrite_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cb := &fakeClipboard{}
	if _, err := NewWriter(cb, store.NewMemory(0)).Write(ctx, selection2x3()); !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
}

func TestWrite_RichFormats(t *testing.T) {
	cb := &formatClipboard{}
	st := store.NewMemory(0)

	transfer, err := NewWriter(cb, st, WithRichFormats(true)).Write(context.Background(), selection2x3())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if cb.text != transfer.Text {
		t.Errorf("plain text = %q, want %q", cb.text, transfer.Text)
	}
	html := string(cb.formats["text/html"])
	if !strings.HasPrefix(html, "<table><tr><td>Widget</td>") {
		t.Errorf("text/html = %q", html)
	}
	stored, _, _ := st.Get(StorageKey)
	if string(cb.formats[RichMIMEType]) != stored {
		t.Error("rich MIME type should carry the stored payload")
	}

	// Without the option only plain text is written.
	plainOnly := &formatClipboard{}
	if _, err := NewWriter(plainOnly, st).Write(context.Background(), selection2x3()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if plainOnly.formats != nil {
		t.Errorf("formats = %v, want none", plainOnly.formats)
	}
}

func TestRead_UnreadablePayloadIsCleared(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     "{broken",
		"missing text": `{"json":[["1"]]}`,
		"wrong types":  `{"text":"a","json":"nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemory(0)
			_ = st.Set(StorageKey, raw)

			res := NewReader(st).Read(context.Background(), PasteEvent{Text: "a"})
			if res.State != PlainOnly {
				t.Errorf("State = %v, want %v", res.State, PlainOnly)
			}
			if _, ok, _ := st.Get(StorageKey); ok {
				t.Error("unreadable payload should be cleared")
			}
		})
	}
}

func TestRead_StoreGetFailure(t *testing.T) {
	st := store.NewMemory(0)
	st.FailGet = errors.New("locked")

	res := NewReader(st).Read(context.Background(), PasteEvent{Text: "a\tb"})
	if res.State != PlainOnly {
		t.Errorf("State = %v, want %v", res.State, PlainOnly)
	}
	if diff := cmp.Diff([][]string{{"a", "b"}}, res.PlainRows); diff != "" {
		t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_ExplicitClipboardRead(t *testing.T) {
	cb := &fakeClipboard{}
	st := store.NewMemory(0)
	if _, err := NewWriter(cb, st).Write(context.Background(), selection2x3()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// The event carries a truncated text but the explicit read sees it all.
	r := NewReader(st, WithClipboard(cb))
	res := r.Read(context.Background(), PasteEvent{Text: "Widget"})
	if cb.reads != 1 {
		t.Errorf("clipboard reads = %d, want 1", cb.reads)
	}
	if res.State != PlainWithRich || len(res.PlainRows) != 2 {
		t.Errorf("explicit read not used: state %v rows %v", res.State, res.PlainRows)
	}
}

func TestRead_ClipboardReadFallsBackToEvent(t *testing.T) {
	tests := []struct {
		name string
		cb   *fakeClipboard
	}{
		{name: "permission denied", cb: &fakeClipboard{text: "ignored", readErr: errors.New("permission denied")}},
		{name: "empty clipboard", cb: &fakeClipboard{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewReader(store.NewMemory(0), WithClipboard(tt.cb)).
				Read(context.Background(), PasteEvent{Text: "from\tevent"})
			if diff := cmp.Diff([][]string{{"from", "event"}}, res.PlainRows); diff != "" {
				t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRead_MalformedTextIsBestEffort(t *testing.T) {
	res := NewReader(store.NewMemory(0)).Read(context.Background(), PasteEvent{Text: "a\t\"open"})
	if diff := cmp.Diff([][]string{{"a", "open"}}, res.PlainRows); diff != "" {
		t.Errorf("PlainRows mismatch (-want +got):\n%s", diff)
	}
}

func TestPayload_ShapeMatches(t *testing.T) {
	cell := json.RawMessage(`1`)
	tests := []struct {
		name  string
		json  [][]json.RawMessage
		plain [][]string
		want  bool
	}{
		{"same shape", [][]json.RawMessage{{cell, cell}}, [][]string{{"a", "b"}}, true},
		{"row count differs", [][]json.RawMessage{{cell}}, [][]string{{"a"}, {"b"}}, false},
		{"cell count differs", [][]json.RawMessage{{cell}, {cell}}, [][]string{{"a"}, {"b", "c"}}, false},
		{"nil json", nil, [][]string{{"a"}}, false},
		{"all rows empty", [][]json.RawMessage{{}}, [][]string{{}}, false},
		{"no rows", [][]json.RawMessage{}, [][]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{JSON: tt.json}
			if got := p.ShapeMatches(tt.plain); got != tt.want {
				t.Errorf("ShapeMatches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if PlainOnly.String() != "plain" || PlainWithRich.String() != "plain+rich" {
		t.Errorf("String() = %q, %q", PlainOnly, PlainWithRich)
	}
}

func TestRenderHTML(t *testing.T) {
	got := renderHTML([][]string{{"<b>", "a\nb"}})
	want := "<table><tr><td>&lt;b&gt;</td><td>a<br>b</td></tr></table>"
	if got != want {
		t.Errorf("renderHTML() = %q, want %q", got, want)
	}
}
