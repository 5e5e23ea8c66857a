package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"gridclip/pkg/completions"
	"gridclip/pkg/config"
	"gridclip/pkg/errors"
	"gridclip/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var defaultTimeout = 10 * time.Second
var globalTimeout time.Duration
var outputFormat string
var dryRunFlag bool
var assumeYesFlag bool
var logLevel string
var storeDriverFlag string

var rootCmd = &cobra.Command{
	Use:   "gridclip",
	Short: "Copy and paste typed grid cells through the system clipboard",
	Long: `gridclip copies cells of a YAML grid document to the system clipboard as
tab-separated text that any application can paste, and keeps a typed copy of
the same cells in a local SQLite store. Pasting back into a grid restores
links, files and select options when the clipboard still holds what gridclip
copied.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if globalTimeout <= 0 {
			globalTimeout = defaultTimeout
		}
		// Explicit flag wins over env var, env var over the config file.
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if envLevel := os.Getenv("GRIDCLIP_LOG_LEVEL"); envLevel != "" {
				level = envLevel
			} else if cfg, err := config.Load(); err == nil && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
		}
		logger.SetLevel(level)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ver := Version
		if ver == "" {
			ver = "dev"
		}
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "gridclip version %s\n", ver)
		fmt.Fprintf(out, "Built: %s\n", bt)
		fmt.Fprintf(out, "Git commit: %s\n", gc)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitCode := errors.HandleReturn(err)
		os.Exit(int(exitCode))
	}
}

func GetContext() (context.Context, context.CancelFunc) {
	timeout := globalTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storeDriverFlag != "" {
		cfg.Store.Driver = storeDriverFlag
	}
	return cfg, nil
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().DurationVar(&globalTimeout, "timeout", defaultTimeout, "Timeout for clipboard access (e.g., 5s, 1m)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVarP(&assumeYesFlag, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&storeDriverFlag, "store", "", "Override the store driver (sqlite, memory)")

	completions.RegisterCompletions(rootCmd)
}
