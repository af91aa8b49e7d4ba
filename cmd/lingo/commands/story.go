package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"lingovibe/backend/internal/service"
)

var errNotebookTooSmall = errors.New("save at least 2 words first")

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Write a short story using the notebook words",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.Session
		if err := s.GenerateStory(cmd.Context()); err != nil {
			if errors.Is(err, service.ErrPrecondition) {
				return errNotebookTooSmall
			}
			if msg := s.State().LastError; msg != "" {
				printf(cmd, "%s\n", renderError(msg))
			}
			return err
		}
		printf(cmd, "%s\n", boxStyle.Render(s.State().Story))
		return nil
	},
}
