package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"meditimer/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.Settings
	onSave    func(model.Settings)
	onCancel  func()
	onPreview func(uri string, gong model.Gong)

	startGong   *widget.Select
	endGong     *widget.Select
	fullscreen  *widget.Check
	keepAwake   *widget.Check
	forceAlarm  *widget.Check
	countUp     *widget.Check
	customStart *widget.Check
	customEnd   *widget.Check
	startURI    *widget.Entry
	endURI      *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Meditimer Settings")

	prefs := &Window{
		window:      window,
		settings:    settings,
		onSave:      onSave,
		startGong:   widget.NewSelect(SoundGongOptions(), nil),
		endGong:     widget.NewSelect(SoundGongOptions(), nil),
		fullscreen:  widget.NewCheck("Fullscreen timer", nil),
		keepAwake:   widget.NewCheck("Keep screen awake while running", nil),
		forceAlarm:  widget.NewCheck("Play gongs at alarm volume", nil),
		countUp:     widget.NewCheck("Count up instead of down", nil),
		customStart: widget.NewCheck("Custom start sound", nil),
		customEnd:   widget.NewCheck("Custom end sound", nil),
		startURI:    widget.NewEntry(),
		endURI:      widget.NewEntry(),
	}
	prefs.startURI.SetPlaceHolder("file:///path/to/sound.wav")
	prefs.endURI.SetPlaceHolder("file:///path/to/sound.wav")
	prefs.customStart.OnChanged = func(bool) { prefs.syncEnabled() }
	prefs.customEnd.OnChanged = func(bool) { prefs.syncEnabled() }
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Sounds", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(3, widget.NewLabel("Start gong"), prefs.startGong,
			widget.NewButton("Test", prefs.PreviewStart)),
		container.NewGridWithColumns(3, widget.NewLabel("End gong"), prefs.endGong,
			widget.NewButton("Test", prefs.PreviewEnd)),
		prefs.customStart,
		container.NewBorder(nil, nil, nil, prefs.browseButton(prefs.startURI), prefs.startURI),
		prefs.customEnd,
		container.NewBorder(nil, nil, nil, prefs.browseButton(prefs.endURI), prefs.endURI),
		prefs.forceAlarm,
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.fullscreen,
		prefs.keepAwake,
		prefs.countUp,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(440, 480))
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the handler run when the window is dismissed unsaved.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// SetOnPreview sets the handler that plays a sound for the Test buttons. It
// receives a custom URI, or an empty URI and a built-in gong.
func (prefs *Window) SetOnPreview(handler func(uri string, gong model.Gong)) {
	prefs.onPreview = handler
}

// PreviewStart plays the start sound as currently entered in the form.
func (prefs *Window) PreviewStart() {
	prefs.preview(prefs.formSettings().StartSound())
}

// PreviewEnd plays the end sound as currently entered in the form.
func (prefs *Window) PreviewEnd() {
	prefs.preview(prefs.formSettings().EndSound())
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.startGong.SetSelected(settings.StartGong.String())
	prefs.endGong.SetSelected(settings.EndGong.String())
	prefs.fullscreen.SetChecked(settings.Fullscreen)
	prefs.keepAwake.SetChecked(settings.KeepAwake)
	prefs.forceAlarm.SetChecked(settings.ForceAlarmStream)
	prefs.countUp.SetChecked(settings.CountUp)
	prefs.customStart.SetChecked(settings.UseCustomStart)
	prefs.customEnd.SetChecked(settings.UseCustomEnd)
	prefs.startURI.SetText(settings.StartURI)
	prefs.endURI.SetText(settings.EndURI)
	prefs.syncEnabled()
}

func (prefs *Window) handleSave() {
	settings := prefs.formSettings()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) preview(uri string, gong model.Gong) {
	if prefs.onPreview != nil {
		prefs.onPreview(uri, gong)
	}
}

func (prefs *Window) formSettings() model.Settings {
	settings := prefs.settings

	settings.StartGong = ParseGong(prefs.startGong.Selected)
	settings.EndGong = ParseGong(prefs.endGong.Selected)
	settings.Fullscreen = prefs.fullscreen.Checked
	settings.KeepAwake = prefs.keepAwake.Checked
	settings.ForceAlarmStream = prefs.forceAlarm.Checked
	settings.CountUp = prefs.countUp.Checked
	settings.UseCustomStart = prefs.customStart.Checked
	settings.UseCustomEnd = prefs.customEnd.Checked
	settings.StartURI = NormalizeSoundURI(prefs.startURI.Text)
	settings.EndURI = NormalizeSoundURI(prefs.endURI.Text)
	return settings.Normalize()
}

func (prefs *Window) syncEnabled() {
	setEnabled(prefs.startURI, prefs.customStart.Checked)
	setEnabled(prefs.endURI, prefs.customEnd.Checked)
}

func (prefs *Window) browseButton(target *widget.Entry) *widget.Button {
	return widget.NewButton("Browse", func() {
		open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			target.SetText(reader.URI().String())
		}, prefs.window)
		open.SetFilter(storage.NewExtensionFileFilter([]string{".wav", ".ogg", ".mp3", ".oga", ".flac"}))
		open.Show()
	})
}

func setEnabled(entry *widget.Entry, enabled bool) {
	if enabled {
		entry.Enable()
		return
	}
	entry.Disable()
}
