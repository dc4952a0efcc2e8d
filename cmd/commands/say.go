package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var sayCmd = &cobra.Command{
	Use:   "say <phrase...>",
	Short: "Speak a phrase with the configured voice and speech settings",
	Example: `  problemtimer say Problem 1
  problemtimer say --voice samantha "Good, you are ahead by 1 minute 5 seconds"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSay,
}

func runSay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc := newServices(ctx, settings, slog.Default())
	defer svc.close()

	voice, ok := svc.speaker.Voice()
	if !ok {
		return errors.New("no speech voice available")
	}

	text := strings.Join(args, " ")
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", voice.Name, svc.engineName, text)
	if err := svc.speaker.SpeakAndAwait(ctx, text); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}
