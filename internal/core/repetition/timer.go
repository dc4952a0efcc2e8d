package repetition

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"problemtimer/internal/core/model"
	"problemtimer/internal/core/phrase"
)

// Speaker is the announcement channel used by the Timer.
type Speaker interface {
	// SpeakAndAwait blocks until the phrase was spoken, failed or was cancelled.
	SpeakAndAwait(ctx context.Context, phrase string) error
	// Enqueue queues a phrase without waiting for it.
	Enqueue(phrase string)
	// CancelAll stops speech and releases every waiter.
	CancelAll()
	// Speaking reports whether a phrase is in flight.
	Speaking() bool
}

// Options contains runtime options for the Timer.
type Options struct {
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Timer is the repetition countdown state machine.
//
// Announcements that must finish before the countdown continues are awaited
// with the mutex released, so Pause and Reset stay effective while speech is
// in flight. Every Reset bumps the generation; an await that returns into a
// newer generation discards its pending transition.
type Timer struct {
	mu            sync.Mutex
	config        model.TimerConfig
	perRepetition int
	phase         Phase
	repetition    int
	remaining     int

	speaker Speaker
	ticks   TickSource
	options Options
	logger  *slog.Logger

	tick       TickHandle
	tickSeq    uint64
	awaiting   int
	generation uint64

	ctx    context.Context
	cancel context.CancelFunc
	events []chan Event
	closed bool
}

// New creates a Timer in the Ready phase.
func New(config model.TimerConfig, speaker Speaker, ticks TickSource, options Options) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if ticks == nil {
		ticks = NewIntervalTicker()
	}

	config = config.Normalize()
	ctx, cancel := context.WithCancel(context.Background())
	timer := &Timer{
		config:        config,
		perRepetition: config.PerRepetitionSeconds(),
		phase:         PhaseReady,
		repetition:    1,
		speaker:       speaker,
		ticks:         ticks,
		options:       options,
		logger:        logger.With("component", "timer"),
		ctx:           ctx,
		cancel:        cancel,
	}
	timer.remaining = timer.perRepetition
	return timer
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	if timer.closed {
		close(ch)
	} else {
		timer.events = append(timer.events, ch)
	}
	timer.mu.Unlock()
	return ch
}

// Snapshot returns the current state.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return Snapshot{
		Phase:                timer.phase,
		Repetition:           timer.repetition,
		Repetitions:          timer.config.RepetitionCount,
		RemainingSeconds:     timer.remaining,
		PerRepetitionSeconds: timer.perRepetition,
		TotalDurationSeconds: timer.config.TotalDurationSeconds,
		Speaking:             timer.speaker.Speaking(),
		Awaiting:             timer.awaiting > 0,
		Ticking:              timer.tick != nil,
	}
}

// Configure replaces the session configuration. It is rejected while running
// or while speech is in flight; out-of-range values are clamped.
func (timer *Timer) Configure(config model.TimerConfig) bool {
	config = config.Normalize()

	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed || timer.phase == PhaseRunning || timer.awaiting > 0 || timer.speaker.Speaking() {
		return false
	}

	timer.config = config
	timer.perRepetition = config.PerRepetitionSeconds()
	timer.remaining = timer.perRepetition
	if timer.repetition > config.RepetitionCount {
		timer.repetition = config.RepetitionCount
	}
	timer.logger.Debug("configured",
		"total_seconds", config.TotalDurationSeconds,
		"repetitions", config.RepetitionCount,
		"per_repetition_seconds", timer.perRepetition)
	timer.emitLocked(timer.eventLocked(EventConfig))
	return true
}

// Start begins or resumes the countdown. It blocks until the opening
// announcement has been spoken; ticks begin only afterwards.
func (timer *Timer) Start(ctx context.Context) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed || timer.phase == PhaseRunning || timer.awaiting > 0 || timer.speaker.Speaking() {
		return
	}

	if timer.phase == PhaseCompleted {
		timer.repetition = 1
	}
	timer.stopTicksLocked()
	timer.remaining = timer.perRepetition
	timer.phase = PhaseRunning
	timer.logger.Info("started", "repetition", timer.repetition, "of", timer.config.RepetitionCount)
	timer.emitLocked(timer.eventLocked(EventPhaseChange))

	if !timer.awaitLocked(ctx, phrase.Problem(timer.repetition)) {
		return
	}
	if timer.phase == PhaseRunning && timer.awaiting == 0 {
		timer.startTicksLocked()
	}
}

// Pause stops the countdown, keeping the remaining time and repetition.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.phase != PhaseRunning {
		return
	}
	timer.stopTicksLocked()
	timer.phase = PhasePaused
	timer.logger.Info("paused", "repetition", timer.repetition, "remaining", timer.remaining)
	timer.emitLocked(timer.eventLocked(EventPhaseChange))
}

// Skip ends the current repetition early. It announces how far ahead of
// schedule the user is, then continues as if the countdown had reached zero.
func (timer *Timer) Skip(ctx context.Context) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.phase != PhaseRunning || timer.awaiting > 0 {
		return
	}

	timer.stopTicksLocked()
	timer.logger.Info("skipped", "repetition", timer.repetition, "remaining", timer.remaining)
	if !timer.awaitLocked(ctx, phrase.AheadBy(timer.remaining)) {
		return
	}
	timer.endRepetitionLocked(ctx)
}

// Reset cancels ticking and speech and returns to Ready at repetition 1.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	timer.stopTicksLocked()
	timer.generation++
	timer.awaiting = 0
	timer.phase = PhaseReady
	timer.repetition = 1
	timer.remaining = timer.perRepetition
	timer.logger.Info("reset")
	timer.emitLocked(timer.eventLocked(EventPhaseChange))
	timer.mu.Unlock()

	timer.speaker.CancelAll()
}

// Close stops ticking and closes observer channels.
func (timer *Timer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	timer.stopTicksLocked()
	timer.generation++
	timer.awaiting = 0
	timer.cancel()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) onTick(seq uint64) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if seq != timer.tickSeq || timer.tick == nil || timer.phase != PhaseRunning {
		return
	}

	if timer.remaining > 0 {
		timer.remaining--
	}
	timer.emitLocked(timer.eventLocked(EventProgress))
	if timer.remaining > 0 {
		return
	}
	timer.endRepetitionLocked(timer.ctx)
}

// endRepetitionLocked advances to the next repetition or completes the session.
// Called with the mutex held; it is released while the next problem is announced.
func (timer *Timer) endRepetitionLocked(ctx context.Context) {
	timer.stopTicksLocked()

	if timer.repetition >= timer.config.RepetitionCount {
		timer.phase = PhaseCompleted
		timer.logger.Info("completed", "repetitions", timer.config.RepetitionCount)
		timer.emitLocked(timer.eventLocked(EventPhaseChange))
		timer.speaker.Enqueue(phrase.AllCompleted)
		return
	}

	next := timer.repetition + 1
	if !timer.awaitLocked(ctx, phrase.Problem(next)) {
		return
	}

	timer.repetition = next
	timer.remaining = timer.perRepetition
	timer.emitLocked(timer.eventLocked(EventRepetition))
	if timer.phase == PhaseRunning && timer.awaiting == 0 {
		timer.startTicksLocked()
	}
}

// awaitLocked speaks message with the mutex released and reacquires it.
// It reports false when a reset happened meanwhile or ctx ended first;
// in the latter case a running timer is paused so it does not stall without ticks.
func (timer *Timer) awaitLocked(ctx context.Context, message string) bool {
	generation := timer.generation
	timer.awaiting++
	event := timer.eventLocked(EventAnnouncement)
	event.Message = message
	timer.emitLocked(event)
	timer.mu.Unlock()

	err := timer.speaker.SpeakAndAwait(ctx, message)

	timer.mu.Lock()
	if generation != timer.generation {
		return false
	}
	timer.awaiting--
	if err != nil {
		timer.logger.Warn("announcement abandoned", "phrase", message, "error", err)
		if timer.phase == PhaseRunning {
			timer.stopTicksLocked()
			timer.phase = PhasePaused
			timer.emitLocked(timer.eventLocked(EventPhaseChange))
		}
		return false
	}
	return true
}

func (timer *Timer) startTicksLocked() {
	timer.stopTicksLocked()
	timer.tickSeq++
	seq := timer.tickSeq
	timer.tick = timer.ticks.Schedule(timer.options.TickInterval, func() {
		timer.onTick(seq)
	})
}

func (timer *Timer) stopTicksLocked() {
	if timer.tick == nil {
		return
	}
	timer.tick.Cancel()
	timer.tick = nil
}

func (timer *Timer) eventLocked(eventType EventType) Event {
	return Event{
		Type:        eventType,
		Phase:       timer.phase,
		Repetition:  timer.repetition,
		Repetitions: timer.config.RepetitionCount,
		Remaining:   time.Duration(timer.remaining) * time.Second,
		At:          time.Now(),
	}
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}
