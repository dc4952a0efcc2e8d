package announcer

import (
	"context"
	"errors"
	"strings"

	"problemtimer/internal/core/model"
)

// ErrUnavailable indicates speech synthesis is not available on this system.
var ErrUnavailable = errors.New("speech synthesis unavailable")

// Voice describes a voice offered by a synthesis engine.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Engine renders text as audible speech.
type Engine interface {
	// Speak blocks until the utterance finished, failed, or ctx was cancelled.
	Speak(ctx context.Context, text string, voice Voice, params model.SpeechParams) error
	// StopAll interrupts any utterance in progress.
	StopAll() error
	// Voices lists the voices the engine can use.
	Voices(ctx context.Context) ([]Voice, error)
}

// SelectVoice picks the first voice whose name contains preferred (case-insensitive),
// falling back to the first available voice.
func SelectVoice(voices []Voice, preferred string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	needle := strings.ToLower(strings.TrimSpace(preferred))
	if needle != "" {
		for _, voice := range voices {
			if strings.Contains(strings.ToLower(voice.Name), needle) {
				return voice, true
			}
		}
	}
	return voices[0], true
}
