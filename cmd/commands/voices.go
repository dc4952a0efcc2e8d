package commands

import (
	"fmt"
	"text/tabwriter"

	"problemtimer/internal/core/announcer"
	"problemtimer/internal/platform"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the system speech engine",
	Long: `List the voices reported by the text-to-speech command of this system.
The voice marked with * is the one announcements would use for the
configured --voice filter.`,
	Args: cobra.NoArgs,
	RunE: runVoices,
}

func runVoices(cmd *cobra.Command, args []string) error {
	engine, err := platform.NewSpeechEngine()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithVoiceTimeout(cmd)
	defer cancel()
	voices, err := engine.Voices(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "engine: %s\n\n", engine.Name())
	if len(voices) == 0 {
		fmt.Fprintln(out, "no voices installed")
		return nil
	}

	selected, _ := announcer.SelectVoice(voices, settings.VoiceName)
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "\tNAME\tLANGUAGE\tID")
	for _, voice := range voices {
		marker := ""
		if voice == selected {
			marker = "*"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", marker, voice.Name, voice.Language, voice.ID)
	}
	return writer.Flush()
}
