package cmd

import (
	"encoding/json"
	"os"

	"gridclip/pkg/clipboard"

	"github.com/spf13/cobra"
)

var clipboardServeCmd = &cobra.Command{
	Use:    clipboard.ServeCommand,
	Hidden: true,
	Short:  "Internal: serve clipboard formats over Wayland (do not call directly)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var formats map[string][]byte
		if err := json.NewDecoder(os.Stdin).Decode(&formats); err != nil {
			return err
		}
		return clipboard.ServeClipboard(formats)
	},
}
