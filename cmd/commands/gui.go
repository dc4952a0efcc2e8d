package commands

import (
	"context"
	"log/slog"

	"problemtimer/internal/core/phrase"
	"problemtimer/internal/platform"
	"problemtimer/internal/ui/preferences"
	"problemtimer/internal/ui/timerwindow"
	"problemtimer/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/cobra"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop timer window (default)",
	RunE:  runGUI,
}

func runGUI(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		slog.Error("single instance", "error", err)
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := slog.Default()
	svc := newServices(ctx, settings, logger)
	defer svc.close()

	fyneApp := app.NewWithID("com.problemtimer.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	timerWindow := timerwindow.New(ctx, fyneApp, svc.timer, timerwindow.Session{
		TotalMinutes: settings.TotalMinutes,
		Problems:     settings.Problems,
	})
	timerWindow.SetOnSession(func(session timerwindow.Session) {
		settings = settings.WithTimer(session.TotalMinutes, session.Problems)
		saveSettings(settings)
	})

	var prefsWindow *preferences.Window
	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings.VoiceName = updated.VoiceName
		settings.SpeechRate = updated.SpeechRate
		settings.SpeechPitch = updated.SpeechPitch
		settings.SpeechVolume = updated.SpeechVolume
		saveSettings(settings)

		svc.speaker.SetParams(settings.SpeechParams())
		svc.speaker.SetPreferredVoice(settings.VoiceName)
		go func() {
			loadVoice(ctx, svc.speaker, logger)
			name := svc.voiceName()
			fyne.Do(func() {
				prefsWindow.SetSelectedVoice(name)
			})
		}()
	})
	prefsWindow.SetSelectedVoice(svc.voiceName())
	prefsWindow.SetOnTest(func(preview preferences.Settings) {
		if svc.speaker.Speaking() {
			return
		}
		svc.speaker.SetParams(preview.SpeechParams())
		svc.speaker.Enqueue(phrase.Problem(1))
	})
	timerWindow.SetOnPreferences(prefsWindow.Show)

	quit := func() {
		cancel()
		fyneApp.Quit()
	}

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowTimer:   timerWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnToggleRun: func() {
				if trayManager.Running() {
					svc.timer.Pause()
					return
				}
				go svc.timer.Start(ctx)
			},
			OnSkip: func() {
				go svc.timer.Skip(ctx)
			},
			OnReset: svc.timer.Reset,
			OnQuit:  quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		timerWindow.SetCloseIntercept(timerWindow.Hide)
	} else {
		slog.Info("system tray unsupported on this platform")
		timerWindow.SetCloseIntercept(quit)
	}

	refresh := func() {
		snapshot := svc.timer.Snapshot()
		timerWindow.Refresh(snapshot)
		if trayManager != nil {
			trayManager.Update(snapshot)
		}
	}

	timerEvents := svc.timer.Subscribe(16)
	speechStatus := svc.speaker.Subscribe(16)
	go func() {
		for timerEvents != nil || speechStatus != nil {
			select {
			case _, ok := <-timerEvents:
				if !ok {
					timerEvents = nil
					continue
				}
			case _, ok := <-speechStatus:
				if !ok {
					speechStatus = nil
					continue
				}
			}
			fyne.Do(refresh)
		}
	}()

	refresh()
	timerWindow.Show()
	fyneApp.Run()
	return nil
}
