// Package terminal is a bubbletea front end for the repetition timer.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"problemtimer/internal/core/announcer"
	"problemtimer/internal/core/model"
	"problemtimer/internal/core/repetition"
	"problemtimer/internal/ui/display"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of the repetition timer driven by the terminal UI.
type Controller interface {
	Start(ctx context.Context)
	Pause()
	Skip(ctx context.Context)
	Reset()
	Configure(config model.TimerConfig) bool
	Snapshot() repetition.Snapshot
}

// Session holds the editable session values.
type Session struct {
	TotalMinutes int
	Problems     int
}

// Options wires the model to its collaborators.
type Options struct {
	Controller Controller
	Session    Session
	// TimerEvents and SpeechStatus are optional observer channels.
	TimerEvents  <-chan repetition.Event
	SpeechStatus <-chan announcer.Status
	// OnSession is called after a session change was accepted.
	OnSession func(Session)
	// VoiceName is shown in the footer; empty means silent.
	VoiceName string
}

// Model is the bubbletea model of the timer screen.
type Model struct {
	ctx        context.Context
	controller Controller
	options    Options

	session      Session
	snapshot     repetition.Snapshot
	announcement string

	keys     keyMap
	help     help.Model
	progress progress.Model
	styles   styles
	width    int
	quitting bool
}

// New creates the terminal model.
func New(ctx context.Context, options Options) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	bar.ShowPercentage = false

	m := Model{
		ctx:        ctx,
		controller: options.Controller,
		options:    options,
		session:    options.Session,
		keys:       defaultKeyMap(),
		help:       help.New(),
		progress:   bar,
		styles:     defaultStyles(),
	}
	m.snapshot = m.controller.Snapshot()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForTimerEvent(m.options.TimerEvents),
		waitForSpeechStatus(m.options.SpeechStatus),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		target := msg.Width - 12
		if target > 50 {
			target = 50
		}
		if target > 10 {
			m.progress.Width = target
		}
		return m, nil

	case TickMsg:
		m.snapshot = m.controller.Snapshot()
		return m, tickCmd()

	case timerEventMsg:
		if msg.Type == repetition.EventAnnouncement {
			m.announcement = msg.Message
		}
		m.snapshot = m.controller.Snapshot()
		return m, waitForTimerEvent(m.options.TimerEvents)

	case speechStatusMsg:
		if msg.Type == announcer.StatusStarted {
			m.announcement = msg.Phrase
		}
		m.snapshot = m.controller.Snapshot()
		return m, waitForSpeechStatus(m.options.SpeechStatus)

	case actionDoneMsg, feedClosedMsg:
		m.snapshot = m.controller.Snapshot()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controls := display.ControlsFor(m.snapshot)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Toggle):
		if m.snapshot.Phase == repetition.PhaseRunning {
			if controls.Pause {
				m.controller.Pause()
			}
		} else if controls.Start {
			m.snapshot = m.controller.Snapshot()
			return m, blockingCmd(m.ctx, m.controller.Start)
		}

	case key.Matches(msg, m.keys.Skip):
		if controls.Skip {
			return m, blockingCmd(m.ctx, m.controller.Skip)
		}

	case key.Matches(msg, m.keys.Reset):
		if controls.Reset {
			m.controller.Reset()
		}

	case key.Matches(msg, m.keys.MoreMinutes):
		m.applySession(controls, m.session.TotalMinutes+1, m.session.Problems)
	case key.Matches(msg, m.keys.LessMinutes):
		m.applySession(controls, m.session.TotalMinutes-1, m.session.Problems)
	case key.Matches(msg, m.keys.MoreProblems):
		m.applySession(controls, m.session.TotalMinutes, m.session.Problems+1)
	case key.Matches(msg, m.keys.LessProblems):
		m.applySession(controls, m.session.TotalMinutes, m.session.Problems-1)
	}

	m.snapshot = m.controller.Snapshot()
	return m, nil
}

func (m *Model) applySession(controls display.Controls, minutes, problems int) {
	if !controls.Inputs {
		return
	}
	if minutes < 0 {
		minutes = 0
	}
	if problems < 1 {
		problems = 1
	}
	session := Session{TotalMinutes: minutes, Problems: problems}
	if session == m.session {
		return
	}
	if !m.controller.Configure(model.NewTimerConfig(minutes*60, problems)) {
		return
	}
	m.session = session
	if m.options.OnSession != nil {
		m.options.OnSession(session)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snapshot := m.snapshot
	controls := display.ControlsFor(snapshot)

	fieldStyle := m.styles.Field
	if !controls.Inputs {
		fieldStyle = m.styles.Locked
	}
	inputs := lipgloss.JoinVertical(lipgloss.Left,
		fieldStyle.Render(fmt.Sprintf("Total Minutes:      %d", m.session.TotalMinutes)),
		fieldStyle.Render(fmt.Sprintf("Number of Problems: %d", m.session.Problems)),
		m.styles.Subtitle.Render(display.PerProblem(snapshot)),
	)

	statusStyle := m.styles.Status
	if snapshot.Phase == repetition.PhaseCompleted {
		statusStyle = m.styles.Completed
	}
	card := m.styles.Card.Render(lipgloss.JoinVertical(lipgloss.Center,
		display.Problem(snapshot),
		m.styles.Clock.Render(display.Clock(snapshot.RemainingSeconds)),
		m.progress.ViewAs(elapsedFraction(snapshot)),
		statusStyle.Render(display.Status(snapshot.Phase)),
	))

	var speech string
	if snapshot.Speaking || snapshot.Awaiting {
		speech = m.styles.Speech.Render("speaking: " + m.announcement)
	}

	voice := m.options.VoiceName
	if voice == "" {
		voice = "none (silent)"
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Problem Timer"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Time the progress as you go!"))
	b.WriteString("\n\n")
	b.WriteString(inputs)
	b.WriteString("\n\n")
	b.WriteString(card)
	b.WriteString("\n")
	b.WriteString(speech)
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("voice: " + voice))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return m.styles.Base.Render(b.String())
}

// Session returns the session values currently shown.
func (m Model) Session() Session {
	return m.session
}

func elapsedFraction(snapshot repetition.Snapshot) float64 {
	if snapshot.PerRepetitionSeconds <= 0 {
		return 0
	}
	elapsed := snapshot.PerRepetitionSeconds - snapshot.RemainingSeconds
	fraction := float64(elapsed) / float64(snapshot.PerRepetitionSeconds)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
