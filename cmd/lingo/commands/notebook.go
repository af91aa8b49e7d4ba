package commands

import (
	"github.com/spf13/cobra"
)

var notebookCmd = &cobra.Command{
	Use:     "notebook",
	Aliases: []string{"nb"},
	Short:   "Manage saved words",
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved words, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printf(cmd, "%s\n", renderNotebook(current.Session.State().Notebook))
		return nil
	},
}

var notebookShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.Session
		if err := s.OpenNotebookItem(args[0]); err != nil {
			return err
		}
		state := s.State()
		printf(cmd, "%s\n", renderEntry(state.Result, state.Saved))
		return nil
	},
}

var notebookRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved word",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.Session
		if err := s.OpenNotebookItem(args[0]); err != nil {
			return err
		}
		word := s.State().Result.TargetWord
		if err := s.ToggleSave(cmd.Context()); err != nil {
			return err
		}
		printf(cmd, "Removed %s\n", wordStyle.Render(word))
		return nil
	},
}

func init() {
	notebookCmd.AddCommand(notebookListCmd, notebookShowCmd, notebookRemoveCmd)
}
