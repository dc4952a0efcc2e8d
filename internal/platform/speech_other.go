//go:build !linux && !darwin && !windows

package platform

import "problemtimer/internal/core/announcer"

func lookupSpeechCommand() (speechCommand, error) {
	return speechCommand{}, announcer.ErrUnavailable
}
