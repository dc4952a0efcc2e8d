//go:build windows

package platform

import (
	"os/exec"

	"problemtimer/internal/core/announcer"
)

func lookupSpeechCommand() (speechCommand, error) {
	for _, name := range []string{"powershell.exe", "pwsh.exe"} {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		return speechCommand{
			name:        name,
			path:        path,
			speakArgs:   sapiSpeakArgs,
			voiceArgs:   sapiVoiceArgs,
			parseVoices: parseSAPIVoices,
		}, nil
	}
	return speechCommand{}, announcer.ErrUnavailable
}
