package model

import "math"

// TimerConfig defines how a session is split into repetitions.
type TimerConfig struct {
	TotalDurationSeconds int
	RepetitionCount      int
}

// NewTimerConfig builds a TimerConfig, coercing out-of-range input.
func NewTimerConfig(totalSeconds, repetitions int) TimerConfig {
	return TimerConfig{
		TotalDurationSeconds: totalSeconds,
		RepetitionCount:      repetitions,
	}.Normalize()
}

// Normalize clamps the duration to >= 0 and the repetition count to >= 1.
func (config TimerConfig) Normalize() TimerConfig {
	if config.TotalDurationSeconds < 0 {
		config.TotalDurationSeconds = 0
	}
	if config.RepetitionCount < 1 {
		config.RepetitionCount = 1
	}
	return config
}

// PerRepetitionSeconds returns the total duration divided evenly, rounded half up.
func (config TimerConfig) PerRepetitionSeconds() int {
	config = config.Normalize()
	return int(math.Round(float64(config.TotalDurationSeconds) / float64(config.RepetitionCount)))
}

// SpeechParams controls how announcements are rendered by the synthesis engine.
type SpeechParams struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultSpeechParams returns the utterance parameters used for announcements.
func DefaultSpeechParams() SpeechParams {
	return SpeechParams{
		Rate:   1.2,
		Pitch:  1.2,
		Volume: 1,
	}
}
