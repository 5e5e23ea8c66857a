package cmd

import (
	"context"
	"io"

	"gridclip/pkg/clipboard"
	"gridclip/pkg/errors"
	"gridclip/pkg/grid"
	"gridclip/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	pasteRow   int
	pasteCol   string
	pasteRows  int
	pasteCols  int
	pasteText  string
	pasteStdin bool
)

// PasteOutput represents a paste for structured output
type PasteOutput struct {
	State      string `json:"state" yaml:"state"`
	TransferID string `json:"transfer_id,omitempty" yaml:"transfer_id,omitempty"`
	Rows       int    `json:"rows" yaml:"rows"`
	Cols       int    `json:"cols" yaml:"cols"`
	Changed    int    `json:"changed" yaml:"changed"`
	Unchanged  int    `json:"unchanged" yaml:"unchanged"`
	ReadOnly   int    `json:"read_only" yaml:"read_only"`
	Rejected   int    `json:"rejected" yaml:"rejected"`
	Saved      bool   `json:"saved" yaml:"saved"`
}

var pasteCmd = NewCommand("paste <grid.yaml>",
	"Paste the clipboard into grid cells",
	`Paste the clipboard into a grid document, starting at --row/--col.

The clipboard text is parsed as tab-separated rows. When it is exactly what
gridclip last copied, the typed values stored with it are used instead of
the text. A single pasted value fills the whole target; a block is written
from the target's top-left cell. Read-only fields are never written.`).
	WithExample(`  # Paste at the first cell
  gridclip paste grid.yaml

  # Fill Status for rows 1-10 with one copied value
  gridclip paste grid.yaml --col Status --rows 10

  # Paste text from another program without touching the clipboard
  printf 'a\tb\n' | gridclip paste grid.yaml --stdin --dry-run`).
	WithArgs(cobra.ExactArgs(1)).
	WithStore(runPaste).
	Build()

func runPaste(ctx context.Context, env *Env) error {
	path := env.Args[0]
	doc, err := grid.Load(path)
	if err != nil {
		return err
	}

	target, err := cellRange(doc, pasteRow, pasteCol, pasteRows, pasteCols)
	if err != nil {
		return err
	}

	ev, explicit, err := pasteEvent(env)
	if err != nil {
		return err
	}

	var opts []clipboard.ReaderOption
	if env.Config.Clipboard.ReadSystem && !explicit {
		opts = append(opts, clipboard.WithClipboard(newSystemClipboard()))
	}
	res := clipboard.NewReader(env.Store, opts...).Read(ctx, ev)

	out := PasteOutput{State: res.State.String(), TransferID: res.TransferID, Rows: len(res.PlainRows)}
	for _, row := range res.PlainRows {
		out.Cols = max(out.Cols, len(row))
	}
	if len(res.PlainRows) == 0 {
		if env.Out.IsStructured() {
			return env.Out.Write(out)
		}
		env.Out.Printf("Clipboard is empty, nothing pasted.\n")
		return nil
	}

	applied, err := doc.ApplyPaste(target, res, nil)
	if err != nil {
		return errors.Wrap(err, "paste into "+path)
	}
	out.Changed, out.Unchanged, out.ReadOnly, out.Rejected = applied.Changed, applied.Unchanged, applied.ReadOnly, applied.Rejected

	if applied.Changed > 0 && !IsDryRun() {
		if err := doc.Save(path); err != nil {
			return errors.Wrap(err, "paste into "+path)
		}
		out.Saved = true
	}

	logger.Info().
		Str("state", out.State).
		Int("changed", applied.Changed).
		Bool("saved", out.Saved).
		Msg("Pasted cells")

	if env.Out.IsStructured() {
		return env.Out.Write(out)
	}

	w := env.Cmd.OutOrStdout()
	if IsDryRun() {
		prompter{in: env.Cmd.InOrStdin(), out: w}.PrintDryRun("Would change %d cells in %s", applied.Changed, path)
	} else {
		green := color.New(color.FgGreen)
		_, _ = green.Fprintf(w, "✓ Pasted %d × %d cells (%s), %d changed\n", out.Rows, out.Cols, out.State, applied.Changed)
	}
	if applied.ReadOnly > 0 {
		env.Out.Printf("  %d read-only cells skipped\n", applied.ReadOnly)
	}
	if applied.Rejected > 0 {
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Fprintf(w, "  %d values could not be converted and were left unchanged\n", applied.Rejected)
	}
	return nil
}

// pasteEvent returns the text the paste carries. explicit is true when the
// user supplied it, in which case the system clipboard is not consulted.
func pasteEvent(env *Env) (clipboard.PasteEvent, bool, error) {
	switch {
	case pasteStdin:
		data, err := io.ReadAll(env.Cmd.InOrStdin())
		if err != nil {
			return clipboard.PasteEvent{}, false, errors.FileError("read", "stdin", err)
		}
		return clipboard.PasteEvent{Text: string(data)}, true, nil
	case env.Cmd.Flags().Changed("text"):
		return clipboard.PasteEvent{Text: pasteText}, true, nil
	case !env.Config.Clipboard.ReadSystem:
		return clipboard.PasteEvent{}, false, errors.NewWithSuggestion(errors.ExitCodeValidation,
			"nothing to paste: reading the system clipboard is disabled",
			"Pass --text or --stdin, or run 'gridclip config set clipboard.read_system true'.")
	default:
		return clipboard.PasteEvent{}, false, nil
	}
}

func init() {
	pasteCmd.Flags().IntVar(&pasteRow, "row", 1, "Target row (1-based)")
	pasteCmd.Flags().StringVar(&pasteCol, "col", "", "Target column, by field name or 1-based number")
	pasteCmd.Flags().IntVar(&pasteRows, "rows", 1, "Target height; a block paste is clipped to it (0 for all remaining)")
	pasteCmd.Flags().IntVar(&pasteCols, "cols", 1, "Target width; a block paste is clipped to it (0 for all remaining)")
	pasteCmd.Flags().StringVar(&pasteText, "text", "", "Paste this text instead of reading the clipboard")
	pasteCmd.Flags().BoolVar(&pasteStdin, "stdin", false, "Paste text read from stdin instead of reading the clipboard")
}
