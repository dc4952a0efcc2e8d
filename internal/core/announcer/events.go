package announcer

import "time"

// StatusType defines the kind of announcer update.
type StatusType string

const (
	StatusStarted   StatusType = "started"
	StatusFinished  StatusType = "finished"
	StatusFailed    StatusType = "failed"
	StatusCancelled StatusType = "cancelled"
	StatusIdle      StatusType = "idle"
)

// Status reports announcer progress to observers.
type Status struct {
	Type     StatusType
	Phrase   string
	Speaking bool
	Pending  int
	At       time.Time
}
