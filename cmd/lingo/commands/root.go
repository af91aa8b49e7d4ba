package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lingovibe/backend/internal/app"
	"lingovibe/backend/internal/config"
	"lingovibe/backend/internal/logger"
)

var (
	configPath string
	verbose    bool

	current *app.App
)

var rootCmd = &cobra.Command{
	Use:           "lingo",
	Short:         "LingoVibe vocabulary companion",
	Version:       config.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logger.ParseLevel("warn")
		if verbose {
			level = logger.ParseLevel("debug")
		}
		logger.InitWithWriter(level, os.Stderr)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $LINGO_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(defineCmd, sayCmd, notebookCmd, storyCmd, langCmd, settingsCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath, true)
	}
	return config.Load()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if current != nil {
		current.Close()
		current = nil
	}
	return err
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(out(cmd), format, args...)
}
