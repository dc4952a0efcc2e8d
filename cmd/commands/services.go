package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"problemtimer/internal/core/announcer"
	"problemtimer/internal/core/repetition"
	"problemtimer/internal/platform"
	"problemtimer/internal/ui/preferences"

	"github.com/spf13/cobra"
)

const voiceLoadTimeout = 10 * time.Second

// services bundles the announcer and timer built from settings.
type services struct {
	engineName string
	speaker    *announcer.Announcer
	timer      *repetition.Timer
}

// newSpeechEngine returns a nil Engine when the host has no speech command,
// so announcements degrade to silence.
func newSpeechEngine(logger *slog.Logger) (announcer.Engine, string) {
	engine, err := platform.NewSpeechEngine()
	if err != nil {
		if errors.Is(err, announcer.ErrUnavailable) {
			logger.Warn("no text-to-speech command found, announcements are silent")
		} else {
			logger.Warn("speech engine", "error", err)
		}
		return nil, ""
	}
	return engine, engine.Name()
}

func newServices(ctx context.Context, current preferences.Settings, logger *slog.Logger) *services {
	engine, engineName := newSpeechEngine(logger)
	speaker := announcer.New(engine, announcer.Options{
		PreferredVoice: current.VoiceName,
		Params:         current.SpeechParams(),
		Logger:         logger,
	})
	loadVoice(ctx, speaker, logger)

	timer := repetition.New(current.TimerConfig(), speaker, nil, repetition.Options{Logger: logger})
	return &services{
		engineName: engineName,
		speaker:    speaker,
		timer:      timer,
	}
}

func loadVoice(ctx context.Context, speaker *announcer.Announcer, logger *slog.Logger) (announcer.Voice, bool) {
	ctx, cancel := context.WithTimeout(ctx, voiceLoadTimeout)
	defer cancel()

	voice, err := speaker.LoadVoices(ctx)
	if err != nil {
		if !errors.Is(err, announcer.ErrUnavailable) {
			logger.Warn("load voices", "error", err)
		}
		return announcer.Voice{}, false
	}
	return voice, true
}

func (svc *services) voiceName() string {
	voice, ok := svc.speaker.Voice()
	if !ok {
		return ""
	}
	return voice.Name
}

// close stops the session and releases speech resources.
func (svc *services) close() {
	svc.timer.Reset()
	svc.timer.Close()
	svc.speaker.Close()
}

func contextWithVoiceTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), voiceLoadTimeout)
}
