package cmd

import (
	"context"
	"fmt"

	"gridclip/pkg/clipboard"
	"gridclip/pkg/errors"

	"github.com/spf13/cobra"
)

var clearCmd = NewCommand("clear",
	"Delete the stored rich clipboard data",
	`Delete the typed values stored with the last copy. The system clipboard
is left alone; later pastes use its plain text only.`).
	WithArgs(cobra.NoArgs).
	WithStore(runClear).
	Build()

func runClear(ctx context.Context, env *Env) error {
	_, ok, err := env.Store.Get(clipboard.StorageKey)
	if err != nil {
		return errors.StoreError("Failed to read the stored clipboard data", err)
	}
	if !ok {
		env.Out.Printf("Nothing to clear.\n")
		return nil
	}

	p := prompter{in: env.Cmd.InOrStdin(), out: env.Cmd.OutOrStdout()}
	details := map[string]string{
		"Driver": env.Config.Store.Driver,
		"Origin": env.Config.Store.Origin,
	}
	if env.Config.Store.Driver != "memory" {
		details["Path"] = env.Config.Store.Path
	}

	if IsDryRun() {
		_, err := p.ConfirmDestructive("clear the stored clipboard data", details)
		return err
	}
	if err := p.RequireConfirmation("clear the stored clipboard data", details); err != nil {
		return err
	}

	if err := env.Store.Remove(clipboard.StorageKey); err != nil {
		return errors.StoreError("Failed to clear the stored clipboard data", err)
	}
	fmt.Fprintln(env.Cmd.OutOrStdout(), "✓ Cleared stored clipboard data")
	return nil
}
