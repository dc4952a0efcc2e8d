package platform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"problemtimer/internal/core/announcer"
	"problemtimer/internal/core/model"
)

const (
	espeakDefaultWPM   = 175
	espeakDefaultPitch = 50
	sayDefaultWPM      = 175
)

// parseEspeakVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en
func parseEspeakVoices(output string) []announcer.Voice {
	var voices []announcer.Voice
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, announcer.Voice{
			ID:       fields[1],
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Language: fields[1],
		})
	}
	return voices
}

// parseSayVoices reads `say -v ?` output, e.g. "Bad News   en_US    # The light you see...".
func parseSayVoices(output string) []announcer.Voice {
	var voices []announcer.Voice
	for _, line := range strings.Split(output, "\n") {
		left, _, found := strings.Cut(line, "#")
		if !found {
			continue
		}
		fields := strings.Fields(left)
		if len(fields) < 2 {
			continue
		}
		language := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")
		voices = append(voices, announcer.Voice{
			ID:       name,
			Name:     name,
			Language: language,
		})
	}
	return voices
}

// parseSAPIVoices reads "name|culture" lines produced by the PowerShell voice listing.
func parseSAPIVoices(output string) []announcer.Voice {
	var voices []announcer.Voice
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, culture, _ := strings.Cut(line, "|")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		voices = append(voices, announcer.Voice{
			ID:       name,
			Name:     name,
			Language: strings.TrimSpace(culture),
		})
	}
	return voices
}

func espeakArgs(text string, voice announcer.Voice, params model.SpeechParams) []string {
	args := []string{
		"-s", strconv.Itoa(scaleInt(espeakDefaultWPM, params.Rate, 80, 500)),
		"-p", strconv.Itoa(scaleInt(espeakDefaultPitch, params.Pitch, 0, 99)),
		"-a", strconv.Itoa(scaleInt(100, params.Volume, 0, 200)),
	}
	if voice.ID != "" {
		args = append(args, "-v", voice.ID)
	}
	return append(args, "--", text)
}

func sayArgs(text string, voice announcer.Voice, params model.SpeechParams) []string {
	args := []string{"-r", strconv.Itoa(scaleInt(sayDefaultWPM, params.Rate, 90, 720))}
	if voice.ID != "" {
		args = append(args, "-v", voice.ID)
	}
	if params.Volume > 0 && params.Volume < 1 {
		text = fmt.Sprintf("[[volm %.2f]] %s", params.Volume, text)
	}
	return append(args, "--", text)
}

func sapiSpeakArgs(text string, voice announcer.Voice, params model.SpeechParams) []string {
	rate := int(math.Round((params.Rate - 1) * 10))
	rate = clampInt(rate, -10, 10)
	volume := scaleInt(100, params.Volume, 0, 100)

	var script strings.Builder
	script.WriteString("Add-Type -AssemblyName System.Speech; ")
	script.WriteString("$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")
	if voice.ID != "" {
		fmt.Fprintf(&script, "$s.SelectVoice(%s); ", powershellQuote(voice.ID))
	}
	fmt.Fprintf(&script, "$s.Rate = %d; $s.Volume = %d; ", rate, volume)
	fmt.Fprintf(&script, "$s.Speak(%s)", powershellQuote(text))
	return []string{"-NoProfile", "-NonInteractive", "-Command", script.String()}
}

var sapiVoiceArgs = []string{
	"-NoProfile", "-NonInteractive", "-Command",
	"Add-Type -AssemblyName System.Speech; " +
		"(New-Object System.Speech.Synthesis.SpeechSynthesizer).GetInstalledVoices() | " +
		"ForEach-Object { $_.VoiceInfo.Name + '|' + $_.VoiceInfo.Culture.Name }",
}

func powershellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func scaleInt(base int, factor float64, minValue, maxValue int) int {
	if factor < 0 {
		factor = 0
	}
	return clampInt(int(math.Round(float64(base)*factor)), minValue, maxValue)
}

func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
