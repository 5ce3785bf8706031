package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/sailtrim/pkg/config"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/itohio/sailtrim/pkg/vane"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createTrimTab(state),
		createPWMTab(state),
		createLoopTab(state),
		createServoTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// applySettings validates the edited configuration, saves it and restarts
// the loop. On a validation error the previous configuration is restored.
func applySettings(state *appState, previous config.Config) {
	if err := state.cfg.Validate(); err != nil {
		*state.cfg = previous
		dialog.ShowError(err, state.window)
		return
	}
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
	restartControl(state)
}

func intEntry(v int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(v))
	return e
}

func durationEntry(d time.Duration) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(d.String())
	return e
}

func setInt(dst *int, e *widget.Entry) {
	if v, err := strconv.Atoi(e.Text); err == nil {
		*dst = v
	}
}

func setDuration(dst *time.Duration, e *widget.Entry) {
	if d, err := time.ParseDuration(e.Text); err == nil {
		*dst = d
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := vane.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}
	baudEntry := intEntry(state.cfg.Serial.BaudRate)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			previous := *state.cfg
			if portSelect.Selected != "" {
				selectedPort := portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected // Fallback to selected text
				}
				state.cfg.Serial.Port = selectedPort
			}
			setInt(&state.cfg.Serial.BaudRate, baudEntry)
			applySettings(state, previous)
		},
	}

	return container.NewTabItem("Serial", form)
}

// createTrimTab creates the sail calibration tab.
func createTrimTab(state *appState) *container.TabItem {
	centreEntry := intEntry(state.cfg.Trim.Centre)
	centreOffsetEntry := intEntry(state.cfg.Trim.CentreOffset)
	portRunEntry := intEntry(state.cfg.Trim.PortRun)
	stbdRunEntry := intEntry(state.cfg.Trim.StbdRun)
	windOffsetEntry := intEntry(state.cfg.Trim.WindOffset)

	wrapSelect := widget.NewSelect([]string{strconv.Itoa(trim.Codes), strconv.Itoa(trim.LegacyWrapModulus)}, nil)
	wrapSelect.SetSelected(strconv.Itoa(state.cfg.Trim.WrapModulus))

	gybeSelect := widget.NewSelect([]string{trim.GybeLiteral.String(), trim.GybeOffset.String()}, nil)
	gybeSelect.SetSelected(state.cfg.Trim.Gybe)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Centre (ticks)", Widget: centreEntry},
			{Text: "Centre Offset (ticks)", Widget: centreOffsetEntry},
			{Text: "Port Run (ticks)", Widget: portRunEntry},
			{Text: "Starboard Run (ticks)", Widget: stbdRunEntry},
			{Text: "Wind Offset (codes)", Widget: windOffsetEntry},
			{Text: "Wrap Modulus", Widget: wrapSelect},
			{Text: "Gybe Sweep", Widget: gybeSelect},
		},
		OnSubmit: func() {
			previous := *state.cfg
			setInt(&state.cfg.Trim.Centre, centreEntry)
			setInt(&state.cfg.Trim.CentreOffset, centreOffsetEntry)
			setInt(&state.cfg.Trim.PortRun, portRunEntry)
			setInt(&state.cfg.Trim.StbdRun, stbdRunEntry)
			setInt(&state.cfg.Trim.WindOffset, windOffsetEntry)
			if m, err := strconv.Atoi(wrapSelect.Selected); err == nil {
				state.cfg.Trim.WrapModulus = m
			}
			if gybeSelect.Selected != "" {
				state.cfg.Trim.Gybe = gybeSelect.Selected
			}
			applySettings(state, previous)
		},
	}

	return container.NewTabItem("Trim", form)
}

// createPWMTab creates the servo timer tab.
func createPWMTab(state *appState) *container.TabItem {
	clockEntry := intEntry(int(state.cfg.PWM.ClockHz))
	servoEntry := intEntry(int(state.cfg.PWM.ServoHz))
	periodLabel := widget.NewLabel(fmt.Sprintf("%d ticks", state.cfg.Timing().Period()))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Timer Clock (Hz)", Widget: clockEntry},
			{Text: "Servo Frequency (Hz)", Widget: servoEntry},
			{Text: "Period", Widget: periodLabel},
		},
		OnSubmit: func() {
			previous := *state.cfg
			if v, err := strconv.ParseUint(clockEntry.Text, 10, 32); err == nil && v > 0 {
				state.cfg.PWM.ClockHz = uint32(v)
			}
			if v, err := strconv.ParseUint(servoEntry.Text, 10, 32); err == nil && v > 0 {
				state.cfg.PWM.ServoHz = uint32(v)
			}
			periodLabel.SetText(fmt.Sprintf("%d ticks", state.cfg.Timing().Period()))
			applySettings(state, previous)
		},
	}

	return container.NewTabItem("PWM", form)
}

// createLoopTab creates the control loop tab.
func createLoopTab(state *appState) *container.TabItem {
	intervalEntry := durationEntry(state.cfg.Loop.Interval)
	timeoutEntry := durationEntry(state.cfg.Loop.AcquireTimeout)
	historyEntry := intEntry(state.cfg.Loop.History)

	fallbackSelect := widget.NewSelect([]string{
		control.FallbackHold.String(),
		control.FallbackCentre.String(),
		control.FallbackNone.String(),
	}, nil)
	fallbackSelect.SetSelected(state.cfg.Loop.Fallback)

	traceCheck := widget.NewCheck("", nil)
	traceCheck.SetChecked(state.cfg.Loop.Trace)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Interval", Widget: intervalEntry},
			{Text: "Acquire Timeout (0=wait)", Widget: timeoutEntry},
			{Text: "Fallback", Widget: fallbackSelect},
			{Text: "Trace", Widget: traceCheck},
			{Text: "History (readings)", Widget: historyEntry},
		},
		OnSubmit: func() {
			previous := *state.cfg
			setDuration(&state.cfg.Loop.Interval, intervalEntry)
			setDuration(&state.cfg.Loop.AcquireTimeout, timeoutEntry)
			setInt(&state.cfg.Loop.History, historyEntry)
			if fallbackSelect.Selected != "" {
				state.cfg.Loop.Fallback = fallbackSelect.Selected
			}
			state.cfg.Loop.Trace = traceCheck.Checked
			applySettings(state, previous)
		},
	}

	return container.NewTabItem("Loop", form)
}

// createServoTab creates the servo output tab.
func createServoTab(state *appState) *container.TabItem {
	driverSelect := widget.NewSelect([]string{servo.DriverBridge, servo.DriverRPi, servo.DriverNone}, nil)
	driverSelect.SetSelected(state.cfg.Servo.Driver)
	pinEntry := intEntry(int(state.cfg.Servo.Pin))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Driver", Widget: driverSelect},
			{Text: "PWM0 Pin (rpi)", Widget: pinEntry},
		},
		OnSubmit: func() {
			previous := *state.cfg
			if driverSelect.Selected != "" {
				state.cfg.Servo.Driver = driverSelect.Selected
			}
			if v, err := strconv.ParseUint(pinEntry.Text, 10, 8); err == nil {
				state.cfg.Servo.Pin = uint8(v)
			}
			applySettings(state, previous)
		},
	}

	return container.NewTabItem("Servo", form)
}

// createMockTab creates the simulated vane tab.
func createMockTab(state *appState) *container.TabItem {
	sweepEntry := durationEntry(state.cfg.Mock.SweepPeriod)
	noiseEntry := intEntry(state.cfg.Mock.Noise)
	conversionEntry := durationEntry(state.cfg.Mock.ConversionTime)
	startEntry := intEntry(state.cfg.Mock.Start)
	stallEntry := intEntry(state.cfg.Mock.StallAfter)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Sweep Period (0=still)", Widget: sweepEntry},
			{Text: "Noise (codes)", Widget: noiseEntry},
			{Text: "Conversion Time", Widget: conversionEntry},
			{Text: "Start Code", Widget: startEntry},
			{Text: "Stall After (0=never)", Widget: stallEntry},
		},
		OnSubmit: func() {
			previous := *state.cfg
			setDuration(&state.cfg.Mock.SweepPeriod, sweepEntry)
			setInt(&state.cfg.Mock.Noise, noiseEntry)
			setDuration(&state.cfg.Mock.ConversionTime, conversionEntry)
			setInt(&state.cfg.Mock.Start, startEntry)
			setInt(&state.cfg.Mock.StallAfter, stallEntry)
			applySettings(state, previous)
		},
	}

	return container.NewTabItem("Mock", form)
}
