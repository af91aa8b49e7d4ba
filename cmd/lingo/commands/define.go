package commands

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lingovibe/backend/internal/logger"
)

// illustrationWait bounds how long --save waits for the picture.
const illustrationWait = 30 * time.Second

var defineSave bool

var defineCmd = &cobra.Command{
	Use:   "define <word or phrase>",
	Short: "Look up a word or phrase",
	Long: `Look up a word or phrase in the target language.

Example:
  lingo define "good morning"
  lingo define neko --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.Session
		if err := s.Search(cmd.Context(), strings.Join(args, " ")); err != nil {
			if msg := s.State().LastError; msg != "" {
				printf(cmd, "%s\n", renderError(msg))
			}
			return err
		}
		state := s.State()
		if defineSave && !state.Saved {
			waitCtx, cancel := context.WithTimeout(cmd.Context(), illustrationWait)
			err := s.WaitBackground(waitCtx)
			cancel()
			if err != nil {
				logger.Warn("illustration not ready, saving without it", "module", "cli", "action", "define", "resource", "notebook", "result", "failed", "error", err)
			}
			if err := s.ToggleSave(cmd.Context()); err != nil {
				return err
			}
			state = s.State()
		}
		printf(cmd, "%s\n", renderEntry(state.Result, state.Saved))
		return nil
	},
}

func init() {
	defineCmd.Flags().BoolVarP(&defineSave, "save", "s", false, "save the result to the notebook")
}
