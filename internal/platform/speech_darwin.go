//go:build darwin

package platform

import (
	"os/exec"

	"problemtimer/internal/core/announcer"
)

func lookupSpeechCommand() (speechCommand, error) {
	path, err := exec.LookPath("say")
	if err != nil {
		return speechCommand{}, announcer.ErrUnavailable
	}
	return speechCommand{
		name:        "say",
		path:        path,
		speakArgs:   sayArgs,
		voiceArgs:   []string{"-v", "?"},
		parseVoices: parseSayVoices,
	}, nil
}
