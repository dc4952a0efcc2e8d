// Package display turns timer snapshots into the texts and control states
// shared by the desktop window, the tray menu and the terminal UI.
package display

import (
	"fmt"

	"problemtimer/internal/core/repetition"
)

// Clock formats seconds as mm:ss. Minutes are not wrapped at an hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Status returns the session status line.
func Status(phase repetition.Phase) string {
	switch phase {
	case repetition.PhaseCompleted:
		return "Completed!"
	case repetition.PhaseRunning:
		return "Running..."
	case repetition.PhasePaused:
		return "Paused"
	default:
		return "Ready"
	}
}

// Problem returns "Problem: n / N".
func Problem(snapshot repetition.Snapshot) string {
	return fmt.Sprintf("Problem: %d / %d", snapshot.Repetition, snapshot.Repetitions)
}

// PerProblem returns the "Time per problem" summary.
func PerProblem(snapshot repetition.Snapshot) string {
	return "Time per problem: " + Clock(snapshot.PerRepetitionSeconds)
}

// Controls lists which actions are currently available.
type Controls struct {
	Start  bool
	Pause  bool
	Skip   bool
	Reset  bool
	Inputs bool
}

// ControlsFor applies the enablement rules to snapshot. Reset stays
// available while speaking since it is what aborts an announcement.
func ControlsFor(snapshot repetition.Snapshot) Controls {
	busy := snapshot.Speaking || snapshot.Awaiting
	running := snapshot.Phase == repetition.PhaseRunning
	midSession := snapshot.Phase != repetition.PhaseCompleted && snapshot.Repetition > 1

	return Controls{
		Start:  !running && !busy && snapshot.TotalDurationSeconds > 0 && snapshot.Repetitions >= 1,
		Pause:  running && !busy,
		Skip:   running && !busy,
		Reset:  true,
		Inputs: !running && !busy && !midSession,
	}
}

// Summary is a one-line description used by the tray status item.
func Summary(snapshot repetition.Snapshot) string {
	return fmt.Sprintf("%s %s (%d/%d)",
		Status(snapshot.Phase), Clock(snapshot.RemainingSeconds), snapshot.Repetition, snapshot.Repetitions)
}
