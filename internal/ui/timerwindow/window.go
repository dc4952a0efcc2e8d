// Package timerwindow is the main desktop window: session inputs, the
// countdown display and the Start/Pause/Completed/Reset controls.
package timerwindow

import (
	"context"
	"image/color"
	"strconv"
	"strings"

	"problemtimer/internal/core/model"
	"problemtimer/internal/core/repetition"
	"problemtimer/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Controller is the part of the repetition timer driven by the window.
type Controller interface {
	Start(ctx context.Context)
	Pause()
	Skip(ctx context.Context)
	Reset()
	Configure(config model.TimerConfig) bool
	Snapshot() repetition.Snapshot
}

// Session holds the values shown in the input fields.
type Session struct {
	TotalMinutes int
	Problems     int
}

// Window manages the timer UI.
type Window struct {
	window     fyne.Window
	controller Controller
	ctx        context.Context

	minutesEntry  *widget.Entry
	problemsEntry *widget.Entry
	perProblem    *widget.Label
	problemLabel  *widget.Label
	clockText     *canvas.Text
	statusText    *canvas.Text

	startButton *widget.Button
	pauseButton *widget.Button
	skipButton  *widget.Button
	resetButton *widget.Button

	session       Session
	onSession     func(Session)
	onPreferences func()
	refreshing    bool
}

var (
	clockColor     = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	completedColor = color.NRGBA{R: 96, G: 200, B: 120, A: 255}
)

// New creates the timer window. ctx bounds the announcements awaited by
// button handlers.
func New(ctx context.Context, app fyne.App, controller Controller, session Session) *Window {
	window := app.NewWindow("Problem Timer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	title := canvas.NewText("Problem Timer", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 21
	subtitle := widget.NewLabel("Time the progress as you go!")

	minutesEntry := widget.NewEntry()
	minutesEntry.SetPlaceHolder("0")
	problemsEntry := widget.NewEntry()
	problemsEntry.SetPlaceHolder("1")

	clockText := canvas.NewText("00:00", clockColor)
	clockText.Alignment = fyne.TextAlignCenter
	clockText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockText.TextSize = 48

	statusText := canvas.NewText("Ready", theme.Color(theme.ColorNameForeground))
	statusText.Alignment = fyne.TextAlignCenter
	statusText.TextSize = 16

	timerWindow := &Window{
		window:        window,
		controller:    controller,
		ctx:           ctx,
		minutesEntry:  minutesEntry,
		problemsEntry: problemsEntry,
		perProblem:    widget.NewLabel(""),
		problemLabel:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		clockText:     clockText,
		statusText:    statusText,
	}

	timerWindow.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), timerWindow.handleStart)
	timerWindow.startButton.Importance = widget.HighImportance
	timerWindow.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), controller.Pause)
	timerWindow.skipButton = widget.NewButtonWithIcon("Completed", theme.MediaSkipNextIcon(), timerWindow.handleSkip)
	timerWindow.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), controller.Reset)
	voiceButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if timerWindow.onPreferences != nil {
			timerWindow.onPreferences()
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Total Minutes", minutesEntry),
		widget.NewFormItem("Number of Problems", problemsEntry),
	)

	header := container.NewBorder(nil, nil, nil, voiceButton, container.NewVBox(title, subtitle))
	timerDisplay := container.NewVBox(timerWindow.problemLabel, clockText, statusText)
	buttons := container.NewHBox(
		layout.NewSpacer(),
		timerWindow.startButton,
		timerWindow.pauseButton,
		timerWindow.skipButton,
		timerWindow.resetButton,
		layout.NewSpacer(),
	)

	window.SetContent(container.NewVBox(
		header,
		widget.NewSeparator(),
		form,
		timerWindow.perProblem,
		widget.NewSeparator(),
		timerDisplay,
		buttons,
	))
	window.Resize(fyne.NewSize(420, 380))
	window.CenterOnScreen()

	timerWindow.setSession(session)
	minutesEntry.OnChanged = func(string) { timerWindow.handleInput() }
	problemsEntry.OnChanged = func(string) { timerWindow.handleInput() }

	timerWindow.Refresh(controller.Snapshot())
	return timerWindow
}

// SetOnSession sets the handler called after the inputs changed the session.
func (timerWindow *Window) SetOnSession(handler func(Session)) {
	timerWindow.onSession = handler
}

// SetOnPreferences sets the handler of the voice settings button.
func (timerWindow *Window) SetOnPreferences(handler func()) {
	timerWindow.onPreferences = handler
}

// SetCloseIntercept replaces the default close behavior.
func (timerWindow *Window) SetCloseIntercept(handler func()) {
	timerWindow.window.SetCloseIntercept(handler)
}

// Show displays and focuses the window.
func (timerWindow *Window) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// Hide hides the window.
func (timerWindow *Window) Hide() {
	timerWindow.window.Hide()
}

// Refresh redraws the window from snapshot. Must run on the fyne goroutine.
func (timerWindow *Window) Refresh(snapshot repetition.Snapshot) {
	timerWindow.perProblem.SetText(display.PerProblem(snapshot))
	timerWindow.problemLabel.SetText(display.Problem(snapshot))

	timerWindow.clockText.Text = display.Clock(snapshot.RemainingSeconds)
	timerWindow.clockText.Refresh()

	timerWindow.statusText.Text = display.Status(snapshot.Phase)
	if snapshot.Phase == repetition.PhaseCompleted {
		timerWindow.statusText.Color = completedColor
	} else {
		timerWindow.statusText.Color = theme.Color(theme.ColorNameForeground)
	}
	timerWindow.statusText.Refresh()

	controls := display.ControlsFor(snapshot)
	running := snapshot.Phase == repetition.PhaseRunning
	setVisible(timerWindow.startButton, !running)
	setVisible(timerWindow.pauseButton, running)
	setVisible(timerWindow.skipButton, running)
	setEnabled(timerWindow.startButton, controls.Start)
	setEnabled(timerWindow.pauseButton, controls.Pause)
	setEnabled(timerWindow.skipButton, controls.Skip)
	setEnabled(timerWindow.resetButton, controls.Reset)
	setEnabled(timerWindow.minutesEntry, controls.Inputs)
	setEnabled(timerWindow.problemsEntry, controls.Inputs)
}

func (timerWindow *Window) handleStart() {
	go timerWindow.controller.Start(timerWindow.ctx)
}

func (timerWindow *Window) handleSkip() {
	go timerWindow.controller.Skip(timerWindow.ctx)
}

func (timerWindow *Window) handleInput() {
	if timerWindow.refreshing {
		return
	}
	session := Session{
		TotalMinutes: parseField(timerWindow.minutesEntry.Text, 0),
		Problems:     parseField(timerWindow.problemsEntry.Text, 1),
	}
	if session.Problems < 1 {
		session.Problems = 1
	}

	config := model.NewTimerConfig(session.TotalMinutes*60, session.Problems)
	if !timerWindow.controller.Configure(config) {
		timerWindow.setSession(timerWindow.session)
		return
	}
	timerWindow.session = session
	timerWindow.Refresh(timerWindow.controller.Snapshot())
	if timerWindow.onSession != nil {
		timerWindow.onSession(session)
	}
}

func (timerWindow *Window) setSession(session Session) {
	timerWindow.refreshing = true
	defer func() { timerWindow.refreshing = false }()

	timerWindow.session = session
	timerWindow.minutesEntry.SetText(strconv.Itoa(session.TotalMinutes))
	timerWindow.problemsEntry.SetText(strconv.Itoa(session.Problems))
}

// parseField reads a non-negative integer; anything unparsable becomes fallback.
func parseField(text string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

type enabler interface {
	Enable()
	Disable()
}

func setEnabled(target enabler, enabled bool) {
	if enabled {
		target.Enable()
		return
	}
	target.Disable()
}

func setVisible(target fyne.CanvasObject, visible bool) {
	if visible {
		target.Show()
		return
	}
	target.Hide()
}
