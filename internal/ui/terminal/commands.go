package terminal

import (
	"context"
	"time"

	"problemtimer/internal/core/announcer"
	"problemtimer/internal/core/repetition"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg redraws the screen once a second.
type TickMsg time.Time

type timerEventMsg repetition.Event

type speechStatusMsg announcer.Status

type actionDoneMsg struct{}

type feedClosedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForTimerEvent(events <-chan repetition.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return timerEventMsg(event)
	}
}

func waitForSpeechStatus(statuses <-chan announcer.Status) tea.Cmd {
	if statuses == nil {
		return nil
	}
	return func() tea.Msg {
		status, ok := <-statuses
		if !ok {
			return feedClosedMsg{}
		}
		return speechStatusMsg(status)
	}
}

// blockingCmd runs a timer call that waits on an announcement off the
// update loop.
func blockingCmd(ctx context.Context, action func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		action(ctx)
		return actionDoneMsg{}
	}
}
