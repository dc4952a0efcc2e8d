package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"problemtimer/internal/logging"
	"problemtimer/internal/storage"
	"problemtimer/internal/ui/terminal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const logFileName = "problemtimer.log"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the timer in the terminal",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger, closeLog := terminalLogger()
	defer closeLog()

	svc := newServices(ctx, settings, logger)
	defer svc.close()

	model := terminal.New(ctx, terminal.Options{
		Controller: svc.timer,
		Session: terminal.Session{
			TotalMinutes: settings.TotalMinutes,
			Problems:     settings.Problems,
		},
		TimerEvents:  svc.timer.Subscribe(16),
		SpeechStatus: svc.speaker.Subscribe(16),
		OnSession: func(session terminal.Session) {
			settings = settings.WithTimer(session.TotalMinutes, session.Problems)
			saveSettings(settings)
		},
		VoiceName: svc.voiceName(),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

// terminalLogger redirects logging to a file next to the settings so the
// screen is not overwritten. Logging is discarded when the file cannot be opened.
func terminalLogger() (*slog.Logger, func()) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		level = slog.LevelInfo
	}

	var writer io.Writer = io.Discard
	closeLog := func() {}
	if settingsPath, err := storage.SettingsPath(appName); err == nil {
		if file, err := logging.OpenFile(filepath.Join(filepath.Dir(settingsPath), logFileName)); err == nil {
			writer = file
			closeLog = func() { _ = file.Close() }
		}
	}

	return logging.Setup(logging.Options{Level: level, Writer: writer}), closeLog
}
