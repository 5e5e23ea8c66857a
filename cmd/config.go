package cmd

import (
	"fmt"
	"strings"

	"gridclip/pkg/config"
	"gridclip/pkg/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gridclip configuration",
	Long: `Show and change the gridclip configuration file. Environment variables
(GRIDCLIP_STORE_DRIVER, GRIDCLIP_STORE_PATH, GRIDCLIP_ORIGIN,
GRIDCLIP_MAX_VALUE_BYTES, GRIDCLIP_LOG_LEVEL) override the file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(cfg)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value and save the file. Keys: " + strings.Join(config.Keys(), ", "),
	Example: `  gridclip config set store.driver memory
  gridclip config set clipboard.rich_formats false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.SetValue(args[0], args[1]); err != nil {
			return err
		}

		if IsDryRun() {
			prompter{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}.PrintDryRun("Would set %s = %s", args[0], args[1])
			return nil
		}
		if err := config.Save(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ExitCodeConfig, "Failed to save configuration")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", args[0], args[1])
		return nil
	},
}
