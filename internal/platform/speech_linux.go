//go:build linux

package platform

import (
	"os/exec"

	"problemtimer/internal/core/announcer"
)

func lookupSpeechCommand() (speechCommand, error) {
	for _, name := range []string{"espeak-ng", "espeak"} {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		return speechCommand{
			name:        name,
			path:        path,
			speakArgs:   espeakArgs,
			voiceArgs:   []string{"--voices"},
			parseVoices: parseEspeakVoices,
		}, nil
	}
	return speechCommand{}, announcer.ErrUnavailable
}
