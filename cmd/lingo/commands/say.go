package commands

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lingovibe/backend/internal/audio"
	"lingovibe/backend/internal/audio/speaker"
)

var sayOutput string

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Pronounce text",
	Long: `Synthesize text and play it on the default sound device.

With --output the audio is written as a WAV file instead.

Example:
  lingo say "こんにちは"
  lingo say hola -o hola.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		if sayOutput != "" {
			pcm, err := current.Gateway.Synthesize(cmd.Context(), text)
			if err != nil {
				return err
			}
			if len(pcm) == 0 {
				return errors.New("provider returned no audio")
			}
			if err := os.WriteFile(sayOutput, audio.EncodeWAV(audio.SpeechFormat, pcm), 0o644); err != nil {
				return err
			}
			printf(cmd, "Wrote %s (%s)\n", sayOutput, audio.SpeechFormat.Duration(int64(len(pcm))))
			return nil
		}

		player := audio.NewPlayer(current.Gateway, speaker.New(audio.SpeechFormat), current.Session.SetPlaying)
		return player.Play(cmd.Context(), text)
	},
}

func init() {
	sayCmd.Flags().StringVarP(&sayOutput, "output", "o", "", "write a WAV file instead of playing")
}
