package preferences

import (
	"problemtimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	TotalMinutes int
	Problems     int

	VoiceName    string
	SpeechRate   float64
	SpeechPitch  float64
	SpeechVolume float64
}

// DefaultSettings returns default settings for the problem timer.
func DefaultSettings() Settings {
	speech := model.DefaultSpeechParams()
	return Settings{
		TotalMinutes: 0,
		Problems:     3,
		VoiceName:    "zira",
		SpeechRate:   speech.Rate,
		SpeechPitch:  speech.Pitch,
		SpeechVolume: speech.Volume,
	}
}

// TimerConfig converts settings to a TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.NewTimerConfig(settings.TotalMinutes*60, settings.Problems)
}

// SpeechParams converts settings to utterance parameters.
func (settings Settings) SpeechParams() model.SpeechParams {
	return model.SpeechParams{
		Rate:   settings.SpeechRate,
		Pitch:  settings.SpeechPitch,
		Volume: settings.SpeechVolume,
	}
}

// WithTimer returns a copy holding the given session length and problem count.
func (settings Settings) WithTimer(totalMinutes, problems int) Settings {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	if problems < 1 {
		problems = 1
	}
	settings.TotalMinutes = totalMinutes
	settings.Problems = problems
	return settings
}
