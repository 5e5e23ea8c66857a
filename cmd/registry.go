package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)
	root.AddCommand(clipboardServeCmd)

	root.AddCommand(copyCmd)
	root.AddCommand(pasteCmd)
	root.AddCommand(showCmd)
	root.AddCommand(clearCmd)
	root.AddCommand(configCmd)

	configCmd.AddCommand(
		configShowCmd,
		configPathCmd,
		configSetCmd,
	)
}
