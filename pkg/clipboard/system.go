package clipboard

import (
	"context"
	"errors"

	atotto "github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// SystemClipboard is the plain-text slot of the operating system clipboard.
type SystemClipboard interface {
	WriteText(text string) error
}

// TextReader reads the clipboard explicitly. It is awaited before a paste
// is parsed.
type TextReader interface {
	ReadText(ctx context.Context) (string, error)
}

// FormatWriter is implemented by clipboards that can offer several MIME
// types at once. plain is always offered as text.
type FormatWriter interface {
	WriteFormats(plain string, formats map[string][]byte) error
}

// System is the operating system clipboard.
type System struct{}

func NewSystem() System {
	return System{}
}

func (System) WriteText(text string) error {
	if atotto.Unsupported {
		return ErrUnsupported
	}
	return atotto.WriteAll(text)
}

func (System) WriteFormats(plain string, formats map[string][]byte) error {
	if len(formats) == 0 {
		return System{}.WriteText(plain)
	}
	return WriteMultiFormat(formats, plain)
}

// ReadText reads the clipboard in the background so a cancelled ctx
// releases the caller even when the clipboard utility hangs.
func (System) ReadText(ctx context.Context) (string, error) {
	if atotto.Unsupported {
		return "", ErrUnsupported
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := atotto.ReadAll()
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}
