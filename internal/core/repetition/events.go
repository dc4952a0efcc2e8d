package repetition

import "time"

// Phase represents the current timer mode.
type Phase string

const (
	PhaseReady     Phase = "ready"
	PhaseRunning   Phase = "running"
	PhasePaused    Phase = "paused"
	PhaseCompleted Phase = "completed"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventPhaseChange  EventType = "phase_change"
	EventProgress     EventType = "progress"
	EventRepetition   EventType = "repetition"
	EventAnnouncement EventType = "announcement"
	EventConfig       EventType = "config"
)

// Event represents a timer update for observers.
type Event struct {
	Type        EventType
	Phase       Phase
	Repetition  int
	Repetitions int
	Remaining   time.Duration
	Message     string
	At          time.Time
}

// Snapshot is a read-only projection of the timer state.
type Snapshot struct {
	Phase                Phase
	Repetition           int
	Repetitions          int
	RemainingSeconds     int
	PerRepetitionSeconds int
	TotalDurationSeconds int
	Speaking             bool
	Awaiting             bool
	Ticking              bool
}
