package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/sailtrim/pkg/config"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/scope"
	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/itohio/sailtrim/pkg/vane"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use simulated vane instead of serial port")
		traceFlag  = flag.Bool("trace", false, "Log every control decision (overrides config)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *traceFlag {
		cfg.Loop.Trace = true
	}

	mapper, err := newMapper(cfg)
	if err != nil {
		log.Fatalf("Invalid trim configuration: %v", err)
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.sailtrim")

	// Create main window
	window := application.NewWindow("Sail Trim")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	state := &appState{
		cfg:         cfg,
		configPath:  *configFlag,
		window:      window,
		useMock:     *mockFlag,
		scopeWidget: scope.New(mapper),
		curveWidget: scope.NewCurve(mapper),
		statusLabel: widget.NewLabel("Disconnected"),
	}

	toolbar := createToolbar(state)

	content := container.NewBorder(
		toolbar,
		state.statusLabel,
		nil,
		nil,
		container.NewVSplit(state.scopeWidget, state.curveWidget),
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		stopControl(state)
	})
	window.ShowAndRun()
}

// controlChain tracks the running loop and its peripherals for graceful shutdown.
type controlChain struct {
	device vane.Device
	servo  servo.Servo
	cancel context.CancelFunc
	done   chan struct{} // Closed when the loop goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	window     fyne.Window
	useMock    bool

	scopeWidget *scope.ScopeWidget
	curveWidget *scope.CurveWidget
	statusLabel *widget.Label
	connectBtn  *widget.Button
	chain       *controlChain // Current control chain (nil if not connected)

	// Throttling for widget updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

func newMapper(cfg *config.Config) (*trim.Mapper, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	return trim.New(params), nil
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("Connect", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		nil, // right
		nil, // center (spacer)
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.chain != nil {
		stopControl(state)
		state.connectBtn.SetText("Connect")
		state.connectBtn.SetIcon(theme.LoginIcon())
		state.statusLabel.SetText("Disconnected")
		return
	}

	if err := startControl(state); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.connectBtn.SetText("Disconnect")
	state.connectBtn.SetIcon(theme.LogoutIcon())
}

// startControl connects the peripherals and starts the control loop.
func startControl(state *appState) error {
	mapper, err := newMapper(state.cfg)
	if err != nil {
		return err
	}
	opts, err := state.cfg.LoopOptions()
	if err != nil {
		return err
	}

	device, out, err := vane.Open(state.cfg, state.useMock)
	if err != nil {
		return err
	}
	if err := device.Connect(); err != nil {
		out.Release()
		if state.useMock {
			return fmt.Errorf("failed to connect to simulated vane: %w", err)
		}
		return fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err)
	}
	if state.useMock {
		log.Printf("Connected to simulated vane")
	} else {
		log.Printf("Connected to serial port: %s", state.cfg.Serial.Port)
	}

	history := control.NewHistory(state.cfg.Loop.History)
	state.scopeWidget.SetMapper(mapper)
	state.curveWidget.SetMapper(mapper)

	loop := control.New(device, out, mapper, opts)

	// Throttle updates to ~60 FPS to keep the UI responsive
	const updateInterval = 16 * time.Millisecond
	loop.OnUpdate(func(r control.Reading) {
		history.Push(r)

		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < updateInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		readings := history.Readings()
		fyne.Do(func() {
			state.scopeWidget.UpdateData(readings)
			if !r.Fallback {
				state.curveWidget.SetCurrent(r.Decision)
			}
			state.statusLabel.SetText(formatStatus(r))
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()

	state.chain = &controlChain{
		device: device,
		servo:  out,
		cancel: cancel,
		done:   done,
	}
	return nil
}

// stopControl stops the loop and waits for it before closing the peripherals.
func stopControl(state *appState) {
	chain := state.chain
	if chain == nil {
		return
	}
	state.chain = nil

	chain.cancel()
	<-chain.done

	if err := chain.device.Close(); err != nil {
		log.Printf("Error closing device: %v", err)
	}
	if err := chain.servo.Release(); err != nil {
		log.Printf("Error releasing servo: %v", err)
	}
	log.Printf("Disconnected")
}

// restartControl applies a changed configuration to a running loop.
func restartControl(state *appState) {
	if state.chain == nil {
		if mapper, err := newMapper(state.cfg); err == nil {
			state.scopeWidget.SetMapper(mapper)
			state.curveWidget.SetMapper(mapper)
		}
		return
	}
	stopControl(state)
	if err := startControl(state); err != nil {
		dialog.ShowError(err, state.window)
		state.connectBtn.SetText("Connect")
		state.connectBtn.SetIcon(theme.LoginIcon())
	}
}
