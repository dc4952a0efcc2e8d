// Package announcer serializes spoken announcements so that at most one
// utterance is rendered by the synthesis engine at any time.
package announcer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"problemtimer/internal/core/model"
)

// Options configures an Announcer.
type Options struct {
	// PreferredVoice is matched case-insensitively against voice names.
	PreferredVoice string
	Params         model.SpeechParams
	Logger         *slog.Logger
}

type utterance struct {
	phrase string
	done   chan struct{}
}

// Announcer owns the speech queue. Phrases are spoken in FIFO order.
type Announcer struct {
	mu       sync.Mutex
	engineMu sync.Mutex
	engine   Engine
	options  Options
	logger   *slog.Logger

	voice       Voice
	hasVoice    bool
	queue       []*utterance
	speaking    bool
	epoch       uint64
	stopCurrent context.CancelFunc
	events      []chan Status
	closed      bool
}

// New creates an Announcer. A nil engine yields a silent announcer.
// LoadVoices must succeed before anything is spoken.
func New(engine Engine, options Options) *Announcer {
	if options.Params == (model.SpeechParams{}) {
		options.Params = model.DefaultSpeechParams()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcer{
		engine:  engine,
		options: options,
		logger:  logger.With("component", "announcer"),
	}
}

// LoadVoices queries the engine and selects the voice used for announcements.
// When no voice is found every announcement resolves immediately.
func (announcer *Announcer) LoadVoices(ctx context.Context) (Voice, error) {
	if announcer.engine == nil {
		announcer.setVoice(Voice{}, false)
		return Voice{}, ErrUnavailable
	}

	voices, err := announcer.engine.Voices(ctx)
	if err != nil {
		announcer.setVoice(Voice{}, false)
		return Voice{}, fmt.Errorf("list voices: %w", err)
	}

	announcer.mu.Lock()
	preferred := announcer.options.PreferredVoice
	announcer.mu.Unlock()

	voice, ok := SelectVoice(voices, preferred)
	announcer.setVoice(voice, ok)
	if !ok {
		return Voice{}, ErrUnavailable
	}
	announcer.logger.Info("voice selected", "voice", voice.Name, "preferred", preferred, "available", len(voices))
	return voice, nil
}

// SetPreferredVoice changes the voice name filter. Call LoadVoices to apply it.
func (announcer *Announcer) SetPreferredVoice(name string) {
	announcer.mu.Lock()
	announcer.options.PreferredVoice = name
	announcer.mu.Unlock()
}

// SetParams changes rate, pitch and volume for subsequent utterances.
func (announcer *Announcer) SetParams(params model.SpeechParams) {
	announcer.mu.Lock()
	announcer.options.Params = params
	announcer.mu.Unlock()
}

// Voice returns the selected voice.
func (announcer *Announcer) Voice() (Voice, bool) {
	announcer.mu.Lock()
	defer announcer.mu.Unlock()
	return announcer.voice, announcer.hasVoice
}

// Speaking reports whether a phrase is in flight.
func (announcer *Announcer) Speaking() bool {
	announcer.mu.Lock()
	defer announcer.mu.Unlock()
	return announcer.speaking
}

// Pending returns the number of queued phrases, including the one being spoken.
func (announcer *Announcer) Pending() int {
	announcer.mu.Lock()
	defer announcer.mu.Unlock()
	return len(announcer.queue)
}

// Subscribe registers a new observer channel.
func (announcer *Announcer) Subscribe(buffer int) <-chan Status {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Status, buffer)
	announcer.mu.Lock()
	if announcer.closed {
		close(ch)
	} else {
		announcer.events = append(announcer.events, ch)
	}
	announcer.mu.Unlock()
	return ch
}

// Enqueue appends a phrase to the queue without waiting for it.
func (announcer *Announcer) Enqueue(phrase string) {
	announcer.enqueue(phrase)
}

// SpeakAndAwait queues a phrase and blocks until it has been spoken, has failed,
// or was dropped by CancelAll. It only returns an error when ctx ends first.
func (announcer *Announcer) SpeakAndAwait(ctx context.Context, phrase string) error {
	item := announcer.enqueue(phrase)
	select {
	case <-item.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CancelAll stops the utterance in flight, drops the queue and releases every waiter.
func (announcer *Announcer) CancelAll() {
	announcer.mu.Lock()
	announcer.epoch++
	pending := announcer.queue
	announcer.queue = nil
	wasSpeaking := announcer.speaking
	announcer.speaking = false
	stop := announcer.stopCurrent
	announcer.stopCurrent = nil
	if wasSpeaking || len(pending) > 0 {
		announcer.emitLocked(Status{Type: StatusCancelled, Pending: len(pending), At: time.Now()})
	}
	announcer.mu.Unlock()

	if stop != nil {
		stop()
	}
	if wasSpeaking && announcer.engine != nil {
		if err := announcer.engine.StopAll(); err != nil {
			announcer.logger.Warn("stop speech", "error", err)
		}
	}
	for _, item := range pending {
		close(item.done)
	}
	if len(pending) > 0 {
		announcer.logger.Debug("speech cancelled", "dropped", len(pending))
	}
}

// Close cancels all speech and closes observer channels.
func (announcer *Announcer) Close() {
	announcer.CancelAll()

	announcer.mu.Lock()
	if announcer.closed {
		announcer.mu.Unlock()
		return
	}
	announcer.closed = true
	events := announcer.events
	announcer.events = nil
	announcer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (announcer *Announcer) setVoice(voice Voice, ok bool) {
	announcer.mu.Lock()
	announcer.voice = voice
	announcer.hasVoice = ok
	announcer.mu.Unlock()
}

func (announcer *Announcer) enqueue(phrase string) *utterance {
	item := &utterance{phrase: phrase, done: make(chan struct{})}

	announcer.mu.Lock()
	defer announcer.mu.Unlock()
	if announcer.closed || announcer.engine == nil || !announcer.hasVoice {
		announcer.logger.Debug("speech unavailable, skipping", "phrase", phrase)
		close(item.done)
		return item
	}

	announcer.queue = append(announcer.queue, item)
	if !announcer.speaking {
		announcer.speaking = true
		go announcer.drain(announcer.epoch)
	}
	return item
}

// drain speaks queued phrases until the queue is empty or the epoch changes.
// engineMu is held for the whole run so a drain started after CancelAll
// cannot overlap an utterance that is still winding down.
func (announcer *Announcer) drain(epoch uint64) {
	announcer.engineMu.Lock()
	defer announcer.engineMu.Unlock()

	for {
		announcer.mu.Lock()
		if epoch != announcer.epoch {
			announcer.mu.Unlock()
			return
		}
		if len(announcer.queue) == 0 {
			announcer.speaking = false
			announcer.emitLocked(Status{Type: StatusIdle, At: time.Now()})
			announcer.mu.Unlock()
			return
		}
		head := announcer.queue[0]
		voice := announcer.voice
		params := announcer.options.Params
		ctx, cancel := context.WithCancel(context.Background())
		announcer.stopCurrent = cancel
		announcer.emitLocked(Status{
			Type:     StatusStarted,
			Phrase:   head.phrase,
			Speaking: true,
			Pending:  len(announcer.queue),
			At:       time.Now(),
		})
		announcer.mu.Unlock()

		announcer.logger.Debug("speaking", "phrase", head.phrase)
		err := announcer.engine.Speak(ctx, head.phrase, voice, params)
		cancel()

		announcer.mu.Lock()
		if epoch != announcer.epoch {
			announcer.mu.Unlock()
			return
		}
		announcer.stopCurrent = nil
		announcer.queue = announcer.queue[1:]
		close(head.done)

		status := Status{
			Type:     StatusFinished,
			Phrase:   head.phrase,
			Speaking: true,
			Pending:  len(announcer.queue),
			At:       time.Now(),
		}
		if err != nil {
			announcer.logger.Warn("utterance failed", "phrase", head.phrase, "error", err)
			status.Type = StatusFailed
		}
		announcer.emitLocked(status)
		announcer.mu.Unlock()
	}
}

func (announcer *Announcer) emitLocked(status Status) {
	for _, ch := range announcer.events {
		select {
		case ch <- status:
		default:
		}
	}
}
