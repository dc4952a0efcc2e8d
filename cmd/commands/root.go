package commands

import (
	"fmt"
	"log/slog"

	"problemtimer/internal/logging"
	"problemtimer/internal/storage"
	"problemtimer/internal/ui/preferences"

	"github.com/spf13/cobra"
)

const appName = "ProblemTimer"

var (
	logLevel  string
	voiceName string
	minutes   int
	problems  int

	settings preferences.Settings
)

var rootCmd = &cobra.Command{
	Use:   "problemtimer",
	Short: "Repetition countdown timer with spoken announcements",
	Long: `Problem Timer divides a session into equal problems, counts each one down
and announces progress with the system text-to-speech voice.

Settings are stored in the user config directory and can be overridden per run:
  problemtimer --minutes 60 --problems 3
  problemtimer tui --voice samantha`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initSession,
	RunE:              runGUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&voiceName, "voice", "", "preferred voice name (substring, case-insensitive)")
	rootCmd.PersistentFlags().IntVar(&minutes, "minutes", 0, "total session length in minutes")
	rootCmd.PersistentFlags().IntVar(&problems, "problems", 0, "number of problems")

	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(sayCmd)
}

func initSession(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logging.Setup(logging.Options{Level: level})

	loaded, err := storage.LoadSettings(appName)
	if err != nil {
		slog.Warn("load settings", "error", err)
	}
	settings, err = applyFlags(cmd, loaded)
	return err
}

// applyFlags overrides stored settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, base preferences.Settings) (preferences.Settings, error) {
	flags := cmd.Flags()
	totalMinutes, problemCount := base.TotalMinutes, base.Problems
	if flags.Changed("minutes") {
		if minutes < 0 {
			return base, fmt.Errorf("--minutes must not be negative")
		}
		totalMinutes = minutes
	}
	if flags.Changed("problems") {
		if problems < 1 {
			return base, fmt.Errorf("--problems must be at least 1")
		}
		problemCount = problems
	}
	updated := base.WithTimer(totalMinutes, problemCount)
	if flags.Changed("voice") {
		updated.VoiceName = voiceName
	}
	return updated, nil
}

func saveSettings(updated preferences.Settings) {
	if err := storage.SaveSettings(appName, updated); err != nil {
		slog.Warn("save settings", "error", err)
	}
}
