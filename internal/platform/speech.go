package platform

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"problemtimer/internal/core/announcer"
	"problemtimer/internal/core/model"
)

// speechCommand describes how to drive a host text-to-speech program.
type speechCommand struct {
	name        string
	path        string
	speakArgs   func(text string, voice announcer.Voice, params model.SpeechParams) []string
	voiceArgs   []string
	parseVoices func(output string) []announcer.Voice
}

// SpeechEngine speaks through the operating system's text-to-speech command.
type SpeechEngine struct {
	command speechCommand

	mu     sync.Mutex
	active map[*exec.Cmd]struct{}
}

var _ announcer.Engine = (*SpeechEngine)(nil)

// NewSpeechEngine locates the host speech command.
// It returns announcer.ErrUnavailable when none is installed.
func NewSpeechEngine() (*SpeechEngine, error) {
	command, err := lookupSpeechCommand()
	if err != nil {
		return nil, err
	}
	return &SpeechEngine{
		command: command,
		active:  make(map[*exec.Cmd]struct{}),
	}, nil
}

// Name returns the speech program in use.
func (engine *SpeechEngine) Name() string {
	return engine.command.name
}

// Speak runs the speech command and waits for it to exit.
func (engine *SpeechEngine) Speak(ctx context.Context, text string, voice announcer.Voice, params model.SpeechParams) error {
	cmd := exec.CommandContext(ctx, engine.command.path, engine.command.speakArgs(text, voice, params)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: start: %w", engine.command.name, err)
	}

	engine.mu.Lock()
	engine.active[cmd] = struct{}{}
	engine.mu.Unlock()
	defer func() {
		engine.mu.Lock()
		delete(engine.active, cmd)
		engine.mu.Unlock()
	}()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", engine.command.name, err)
	}
	return nil
}

// StopAll kills every speech process started by this engine.
func (engine *SpeechEngine) StopAll() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	var firstErr error
	for cmd := range engine.active {
		if cmd.Process == nil {
			continue
		}
		if err := cmd.Process.Kill(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: kill: %w", engine.command.name, err)
		}
	}
	return firstErr
}

// Voices lists the voices reported by the speech command.
func (engine *SpeechEngine) Voices(ctx context.Context) ([]announcer.Voice, error) {
	output, err := exec.CommandContext(ctx, engine.command.path, engine.command.voiceArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: list voices: %w", engine.command.name, err)
	}
	return engine.command.parseVoices(string(output)), nil
}
