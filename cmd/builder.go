package cmd

import (
	"context"

	"gridclip/pkg/clipboard"
	"gridclip/pkg/config"
	"gridclip/pkg/errors"
	"gridclip/pkg/store"

	"github.com/spf13/cobra"
)

// systemClipboard is what commands need from the operating system
// clipboard.
type systemClipboard interface {
	clipboard.SystemClipboard
	clipboard.TextReader
}

// newSystemClipboard is replaced in tests.
var newSystemClipboard = func() systemClipboard {
	return clipboard.NewSystem()
}

// Env is what a store-backed command runs with.
type Env struct {
	Cmd    *cobra.Command
	Args   []string
	Config *config.Config
	Store  store.Backend
	Out    *OutputWriter
}

type CommandBuilder struct {
	cmd *cobra.Command
}

func NewCommand(name, short, long string) *CommandBuilder {
	return &CommandBuilder{
		cmd: &cobra.Command{
			Use:   name,
			Short: short,
			Long:  long,
		},
	}
}

func (b *CommandBuilder) WithExample(example string) *CommandBuilder {
	b.cmd.Example = example
	return b
}

func (b *CommandBuilder) WithArgs(args cobra.PositionalArgs) *CommandBuilder {
	b.cmd.Args = args
	return b
}

// WithStore runs fn with the configured store opened and a context bounded
// by --timeout.
func (b *CommandBuilder) WithStore(fn func(ctx context.Context, env *Env) error) *CommandBuilder {
	b.cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return errors.StoreError(errors.ErrMsgStoreOpen, err)
		}
		defer st.Close()

		ctx, cancel := GetContext()
		defer cancel()

		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())

		return fn(ctx, &Env{Cmd: cmd, Args: args, Config: cfg, Store: st, Out: out})
	}
	return b
}

func (b *CommandBuilder) Build() *cobra.Command {
	return b.cmd
}
