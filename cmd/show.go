package cmd

import (
	"context"
	"strings"
	"time"

	"gridclip/pkg/clipboard"
	"gridclip/pkg/errors"
	"gridclip/pkg/logger"
	"gridclip/pkg/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// entryInfo is implemented by stores that keep entry metadata.
type entryInfo interface {
	Info(key string) (store.Entry, bool, error)
}

// ShowOutput represents the stored payload for structured output
type ShowOutput struct {
	Stored     bool       `json:"stored" yaml:"stored"`
	Readable   bool       `json:"readable" yaml:"readable"`
	TransferID string     `json:"transfer_id,omitempty" yaml:"transfer_id,omitempty"`
	Rows       int        `json:"rows" yaml:"rows"`
	Cols       int        `json:"cols" yaml:"cols"`
	Bytes      int        `json:"bytes" yaml:"bytes"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Clipboard  string     `json:"clipboard" yaml:"clipboard"`
	Text       string     `json:"text,omitempty" yaml:"text,omitempty"`
}

const (
	clipboardCurrent = "current"
	clipboardStale   = "stale"
	clipboardUnknown = "unknown"
)

var showCmd = NewCommand("show",
	"Show the stored rich clipboard data",
	`Show what gridclip stored with the last copy and whether the system
clipboard still holds the text it belongs to.`).
	WithArgs(cobra.NoArgs).
	WithStore(runShow).
	Build()

func runShow(ctx context.Context, env *Env) error {
	raw, ok, err := env.Store.Get(clipboard.StorageKey)
	if err != nil {
		return errors.StoreError("Failed to read the stored clipboard data", err)
	}

	out := ShowOutput{Stored: ok, Clipboard: clipboardUnknown, Bytes: len(raw)}
	if ok {
		describePayload(ctx, env, raw, &out)
	}

	if env.Out.IsStructured() {
		return env.Out.Write(out)
	}

	if !out.Stored {
		env.Out.Printf("No rich clipboard data stored.\n")
		return nil
	}

	w := env.Cmd.OutOrStdout()
	if !out.Readable {
		red := color.New(color.FgRed)
		_, _ = red.Fprintf(w, "Stored data is unreadable (%s); it will be discarded on the next paste.\n", FormatBytes(out.Bytes))
		return nil
	}

	env.Out.Printf("Transfer:  %s\n", out.TransferID)
	env.Out.Printf("Cells:     %d × %d\n", out.Rows, out.Cols)
	env.Out.Printf("Size:      %s\n", FormatBytes(out.Bytes))
	if out.UpdatedAt != nil {
		env.Out.Printf("Copied:    %s\n", FormatTimestamp(*out.UpdatedAt))
	}
	env.Out.Printf("Clipboard: ")
	switch out.Clipboard {
	case clipboardCurrent:
		_, _ = color.New(color.FgGreen).Fprintln(w, "current (pastes will be typed)")
	case clipboardStale:
		_, _ = color.New(color.FgYellow).Fprintln(w, "stale (pastes will be plain text)")
	default:
		env.Out.Printf("%s\n", clipboardUnknown)
	}
	env.Out.Printf("Text:      %s\n", Truncate(strings.ReplaceAll(out.Text, "\t", " ⇥ "), 60))
	return nil
}

func describePayload(ctx context.Context, env *Env, raw string, out *ShowOutput) {
	if info, ok := env.Store.(entryInfo); ok {
		if entry, found, err := info.Info(clipboard.StorageKey); err == nil && found {
			out.Bytes = entry.Size
			updated := entry.UpdatedAt
			out.UpdatedAt = &updated
		}
	}

	payload, err := clipboard.UnmarshalPayload(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("stored clipboard payload is unreadable")
		return
	}
	out.Readable = true
	out.TransferID = payload.ID
	out.Text = payload.Text
	out.Rows = len(payload.JSON)
	for _, row := range payload.JSON {
		out.Cols = max(out.Cols, len(row))
	}

	if !env.Config.Clipboard.ReadSystem {
		return
	}
	text, err := newSystemClipboard().ReadText(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("could not read the system clipboard")
		return
	}
	if text == payload.Text {
		out.Clipboard = clipboardCurrent
	} else {
		out.Clipboard = clipboardStale
	}
}
