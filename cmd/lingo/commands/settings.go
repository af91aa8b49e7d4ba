package commands

import (
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the AI provider settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := current.Settings.GetAISettings(cmd.Context())
		if err != nil {
			return err
		}
		rows := [][2]string{
			{"provider", s.Provider},
			{"model", s.Model},
			{"image model", s.ImageModel},
			{"speech model", s.SpeechModel},
			{"voice", s.Voice},
			{"base url", s.BaseURL},
			{"api key", s.APIKey},
		}
		for _, r := range rows {
			if r[1] == "" {
				r[1] = dimStyle.Render("default")
			}
			printf(cmd, "%-14s %s\n", labelStyle.Render(r[0]), r[1])
		}
		return nil
	},
}

var settingsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test message to the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := current.Settings.GetAISettings(cmd.Context())
		if err != nil {
			return err
		}
		// the masked key resolves to the stored one
		reply, err := current.Settings.TestAI(cmd.Context(), s)
		if err != nil {
			return err
		}
		printf(cmd, "%s %s\n", wordStyle.Render("ok"), reply)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsTestCmd)
}
