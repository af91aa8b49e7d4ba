package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lingovibe/backend/internal/model"
)

var langCmd = &cobra.Command{
	Use:   "lang",
	Short: "Show or change the language pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printf(cmd, "%s\n", renderLanguages(current.Session.State().Languages))
		return nil
	},
}

var langSetCmd = &cobra.Command{
	Use:   "set <native> <target>",
	Short: "Set the native and target languages",
	Long: `Set the language pair by code and finish onboarding.

Example:
  lingo lang set en ja`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.Session
		if err := s.CompleteOnboarding(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		printf(cmd, "%s\n", renderLanguages(s.State().Languages))
		return nil
	},
}

var langSwapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap the native and target languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.Session
		if err := s.SwapLanguages(cmd.Context()); err != nil {
			return err
		}
		printf(cmd, "%s\n", renderLanguages(s.State().Languages))
		return nil
	},
}

var langListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, l := range model.Languages {
			printf(cmd, "%s  %s %s\n", dimStyle.Render(fmt.Sprintf("%-3s", l.Code)), l.Name, dimStyle.Render(l.NativeName))
		}
		return nil
	},
}

func init() {
	langCmd.AddCommand(langSetCmd, langSwapCmd, langListCmd)
}
