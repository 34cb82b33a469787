package panel

import (
	"errors"
	"image/color"
	"strconv"

	"countdown/internal/core/countdown"
	"countdown/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const invalidDurationMessage = "Please set a duration of at least one second."

// Engine is the countdown the window drives.
type Engine interface {
	Start(requestedSeconds int) error
	Stop()
	Reset()
	Snapshot() countdown.State
}

// Alarm plays the completion melody.
type Alarm interface {
	Play(volume float64) error
}

// Config defines window collaborators and initial values.
type Config struct {
	Title    string
	Settings model.Settings
	// Notify shows a blocking message. Defaults to an information dialog.
	Notify func(title, message string)
	// OnAlarmError receives playback failures.
	OnAlarmError func(error)
}

// Window is the countdown panel: display, duration fields, presets,
// controls and alarm volume.
type Window struct {
	window       fyne.Window
	engine       Engine
	alarm        Alarm
	title        string
	notify       func(title, message string)
	onAlarmError func(error)

	minutesText   *canvas.Text
	secondsText   *canvas.Text
	minutesEntry  *widget.Entry
	secondsEntry  *widget.Entry
	startButton   *widget.Button
	stopButton    *widget.Button
	resetButton   *widget.Button
	volume        *widget.Slider
	presetBox     *fyne.Container
	presetButtons []*widget.Button

	// completed pins the display at 00:00 until the fields are edited.
	completed bool
}

var displayColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}

// New creates the countdown window.
func New(app fyne.App, engine Engine, alarm Alarm, config Config) *Window {
	if config.Title == "" {
		config.Title = "Countdown"
	}
	settings := config.Settings.Normalize()

	panel := &Window{
		window:       app.NewWindow(config.Title),
		engine:       engine,
		alarm:        alarm,
		title:        config.Title,
		notify:       config.Notify,
		onAlarmError: config.OnAlarmError,
	}
	if panel.notify == nil {
		panel.notify = func(title, message string) {
			dialog.ShowInformation(title, message, panel.window)
		}
	}

	panel.minutesText = newDisplayText()
	panel.secondsText = newDisplayText()
	colon := newDisplayText()
	colon.Text = ":"

	panel.minutesEntry = widget.NewEntry()
	panel.secondsEntry = widget.NewEntry()
	panel.minutesEntry.SetText(strconv.Itoa(settings.DefaultMinutes))
	panel.secondsEntry.SetText(strconv.Itoa(settings.DefaultSeconds))
	panel.minutesEntry.OnChanged = panel.fieldChanged(panel.minutesEntry, model.MaxMinutes)
	panel.secondsEntry.OnChanged = panel.fieldChanged(panel.secondsEntry, model.MaxSeconds)

	panel.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), panel.Start)
	panel.startButton.Importance = widget.HighImportance
	panel.stopButton = widget.NewButtonWithIcon("Stop", theme.MediaPauseIcon(), panel.Stop)
	panel.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), panel.Reset)

	panel.volume = widget.NewSlider(0, 1)
	panel.volume.Step = 0.01
	panel.volume.Value = settings.Volume

	panel.presetBox = container.NewGridWithColumns(3)
	panel.SetPresets(settings.Presets)

	display := container.NewHBox(layout.NewSpacer(), panel.minutesText, colon, panel.secondsText, layout.NewSpacer())
	fields := container.NewGridWithColumns(4,
		panel.minutesEntry, widget.NewLabel("min"),
		panel.secondsEntry, widget.NewLabel("sec"),
	)
	controls := container.NewGridWithColumns(3, panel.startButton, panel.stopButton, panel.resetButton)
	volumeRow := container.NewBorder(nil, nil, widget.NewLabel("Alarm volume"), nil, panel.volume)

	form := container.NewVBox(
		display,
		fields,
		widget.NewLabelWithStyle("Presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		panel.presetBox,
		controls,
	)
	panel.window.SetContent(container.NewBorder(nil, volumeRow, nil, nil, form))
	panel.window.Resize(fyne.NewSize(settings.WindowWidth, settings.WindowHeight))

	panel.refreshIdleDisplay()
	return panel
}

func newDisplayText() *canvas.Text {
	text := canvas.NewText("00", displayColor)
	text.Alignment = fyne.TextAlignCenter
	text.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	text.TextSize = 48
	return text
}

// Window returns the underlying fyne window.
func (panel *Window) Window() fyne.Window {
	return panel.window
}

// Show displays the window.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
}

// Start begins the countdown from the fields, or resumes a paused one.
func (panel *Window) Start() {
	total := model.TotalSeconds(
		model.ParseField(panel.minutesEntry.Text, model.MaxMinutes),
		model.ParseField(panel.secondsEntry.Text, model.MaxSeconds),
	)
	if err := panel.engine.Start(total); err != nil {
		if errors.Is(err, countdown.ErrInvalidDuration) {
			panel.notify(panel.title, invalidDurationMessage)
		}
		return
	}
	panel.completed = false
	panel.syncState()
}

// Stop pauses the countdown.
func (panel *Window) Stop() {
	panel.engine.Stop()
	panel.syncState()
}

// Reset clears the countdown and shows the fields again.
func (panel *Window) Reset() {
	panel.engine.Reset()
	panel.completed = false
	panel.syncState()
}

// ApplyPreset sets the fields to minutes and zero seconds.
func (panel *Window) ApplyPreset(minutes int) {
	panel.minutesEntry.SetText(strconv.Itoa(model.ClampField(minutes, model.MaxMinutes)))
	panel.secondsEntry.SetText("0")
	panel.completed = false
	panel.refreshIdleDisplay()
}

// SetPresets replaces the preset buttons.
func (panel *Window) SetPresets(presets []int) {
	buttons := make([]*widget.Button, 0, len(presets))
	objects := make([]fyne.CanvasObject, 0, len(presets))
	for _, minutes := range presets {
		button := widget.NewButton(PresetLabel(minutes), func() {
			panel.ApplyPreset(minutes)
		})
		buttons = append(buttons, button)
		objects = append(objects, button)
	}
	panel.presetButtons = buttons
	panel.presetBox.Objects = objects
	panel.presetBox.Refresh()
}

// PresetLabel names a preset button.
func PresetLabel(minutes int) string {
	return strconv.Itoa(minutes) + " min"
}

// Volume returns the alarm volume currently selected.
func (panel *Window) Volume() float64 {
	return model.ClampVolume(panel.volume.Value)
}

// SetVolume moves the volume slider.
func (panel *Window) SetVolume(volume float64) {
	panel.volume.SetValue(model.ClampVolume(volume))
}

// DisplayText returns the clock as shown, "mm:ss".
func (panel *Window) DisplayText() string {
	return panel.minutesText.Text + ":" + panel.secondsText.Text
}

// HandleEvent applies an engine event. It must run on the UI thread.
// Events may arrive late, so controls follow the engine's current state
// rather than the event's.
func (panel *Window) HandleEvent(event countdown.Event) {
	if event.Type == countdown.EventComplete {
		panel.completed = true
		if err := panel.alarm.Play(panel.Volume()); err != nil && panel.onAlarmError != nil {
			panel.onAlarmError(err)
		}
	}
	panel.syncState()
}

func (panel *Window) fieldChanged(entry *widget.Entry, limit int) func(string) {
	return func(text string) {
		normalized := strconv.Itoa(model.ParseField(text, limit))
		if text != normalized {
			entry.SetText(normalized)
		}
		panel.completed = false
		panel.refreshIdleDisplay()
	}
}

// syncState aligns controls and display with the engine. A paused countdown
// keeps showing its remaining time, since Start resumes from it; the fields
// are mirrored again only after Reset.
func (panel *Window) syncState() {
	state := panel.engine.Snapshot()
	panel.setRunning(state.Running)
	switch {
	case state.Running || state.Remaining > 0:
		panel.showRemaining(state.Remaining)
	case panel.completed:
		panel.showRemaining(0)
	default:
		panel.refreshIdleDisplay()
	}
}

// refreshIdleDisplay mirrors the fields while nothing is counting down.
func (panel *Window) refreshIdleDisplay() {
	if panel.completed {
		return
	}
	state := panel.engine.Snapshot()
	if state.Running || state.Remaining > 0 {
		return
	}
	minutes := model.ParseField(panel.minutesEntry.Text, model.MaxMinutes)
	seconds := model.ParseField(panel.secondsEntry.Text, model.MaxSeconds)
	panel.setDisplay(model.FormatClock(model.TotalSeconds(minutes, 0) + seconds))
}

func (panel *Window) showRemaining(seconds int) {
	panel.setDisplay(model.FormatClock(seconds))
}

func (panel *Window) setDisplay(minutes, seconds string) {
	panel.minutesText.Text = minutes
	panel.minutesText.Refresh()
	panel.secondsText.Text = seconds
	panel.secondsText.Refresh()
}

func (panel *Window) setRunning(running bool) {
	if running {
		panel.startButton.Disable()
		panel.minutesEntry.Disable()
		panel.secondsEntry.Disable()
		return
	}
	panel.startButton.Enable()
	panel.minutesEntry.Enable()
	panel.secondsEntry.Enable()
}
