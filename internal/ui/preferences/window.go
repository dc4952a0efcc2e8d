package preferences

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the voice preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	onTest   func(Settings)

	voiceName   *widget.Entry
	voiceLabel  *widget.Label
	rate        *widget.Slider
	rateLabel   *widget.Label
	pitch       *widget.Slider
	pitchLabel  *widget.Label
	volume      *widget.Slider
	volumeLabel *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Problem Timer Voice")

	voiceName := widget.NewEntry()
	voiceName.SetPlaceHolder("voice name contains...")
	voiceLabel := widget.NewLabel("Selected voice: none")

	rate, rateLabel := newSlider(0.5, 2, 0.1)
	pitch, pitchLabel := newSlider(0.5, 2, 0.1)
	volume, volumeLabel := newSlider(0, 1, 0.05)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Voice", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Preferred voice"), nil, voiceName),
		voiceLabel,
		container.NewBorder(nil, nil, widget.NewLabel("Rate"), rateLabel, rate),
		container.NewBorder(nil, nil, widget.NewLabel("Pitch"), pitchLabel, pitch),
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), volumeLabel, volume),
	)

	saveButton := widget.NewButton("Save", nil)
	testButton := widget.NewButton("Test", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, testButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 300))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		voiceName:   voiceName,
		voiceLabel:  voiceLabel,
		rate:        rate,
		rateLabel:   rateLabel,
		pitch:       pitch,
		pitchLabel:  pitchLabel,
		volume:      volume,
		volumeLabel: volumeLabel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	testButton.OnTapped = func() {
		if prefs.onTest != nil {
			prefs.onTest(prefs.collect())
		}
	}
	cancelButton.OnTapped = window.Hide

	return prefs
}

// SetOnTest sets the handler that previews the current values.
func (prefs *Window) SetOnTest(handler func(Settings)) {
	prefs.onTest = handler
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetSelectedVoice shows which engine voice is in use.
func (prefs *Window) SetSelectedVoice(name string) {
	if name == "" {
		name = "none (announcements are silent)"
	}
	prefs.voiceLabel.SetText("Selected voice: " + name)
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.voiceName.SetText(settings.VoiceName)
	setSlider(prefs.rate, prefs.rateLabel, settings.SpeechRate)
	setSlider(prefs.pitch, prefs.pitchLabel, settings.SpeechPitch)
	setSlider(prefs.volume, prefs.volumeLabel, settings.SpeechVolume)
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings
	settings.VoiceName = prefs.voiceName.Text
	settings.SpeechRate = prefs.rate.Value
	settings.SpeechPitch = prefs.pitch.Value
	settings.SpeechVolume = prefs.volume.Value
	return settings
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

func newSlider(minValue, maxValue, step float64) (*widget.Slider, *widget.Label) {
	slider := widget.NewSlider(minValue, maxValue)
	slider.Step = step
	label := widget.NewLabel("")
	slider.OnChanged = func(value float64) {
		label.SetText(formatFactor(value))
	}
	return slider, label
}

func setSlider(slider *widget.Slider, label *widget.Label, value float64) {
	slider.SetValue(value)
	label.SetText(formatFactor(value))
}

func formatFactor(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
