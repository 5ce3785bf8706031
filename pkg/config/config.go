package config

import (
	"fmt"
	"os"
	"time"

	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Trim   TrimConfig   `yaml:"trim"`
	PWM    PWMConfig    `yaml:"pwm"`
	Loop   LoopConfig   `yaml:"loop"`
	Servo  servo.Config `yaml:"servo"`
	Mock   MockConfig   `yaml:"mock"`
}

// SerialConfig contains serial port configuration for the vane bridge.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// TrimConfig contains the sail calibration. Pulses are in PWM timer ticks.
type TrimConfig struct {
	Centre       int    `yaml:"centre"`        // Pulse with the boom at centre
	CentreOffset int    `yaml:"centre_offset"` // Added to centre if the boom isn't centred at Centre
	PortRun      int    `yaml:"port_run"`
	StbdRun      int    `yaml:"stbd_run"`
	WindOffset   int    `yaml:"wind_offset"`  // Vane misalignment in codes
	WrapModulus  int    `yaml:"wrap_modulus"` // 1024, or 1023 for legacy firmware
	Gybe         string `yaml:"gybe"`         // "literal" or "offset"
}

// PWMConfig contains the servo timer parameters.
type PWMConfig struct {
	ClockHz uint32 `yaml:"clock_hz"`
	ServoHz uint32 `yaml:"servo_hz"`
}

// LoopConfig contains control loop parameters.
type LoopConfig struct {
	Interval       time.Duration `yaml:"interval"`        // Minimum time between iterations (0 = back to back)
	AcquireTimeout time.Duration `yaml:"acquire_timeout"` // 0 waits forever for the sensor
	Fallback       string        `yaml:"fallback"`        // "hold", "centre" or "none" on acquire timeout
	Trace          bool          `yaml:"trace"`           // Log every decision
	History        int           `yaml:"history"`         // Number of readings kept for display
}

// MockConfig contains simulated vane configuration.
type MockConfig struct {
	SweepPeriod    time.Duration `yaml:"sweep_period"`    // Time for one full vane turn (0 = stationary)
	Noise          int           `yaml:"noise"`           // Noise amplitude in codes
	ConversionTime time.Duration `yaml:"conversion_time"` // Simulated ADC busy time
	Start          int           `yaml:"start"`           // Starting vane code
	StallAfter     int           `yaml:"stall_after"`     // Stop completing conversions after N samples (0 = never)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // "COM3" on Windows
			BaudRate: 115200,
		},
		Trim: TrimConfig{
			Centre:       int(trim.DefaultCentre),
			CentreOffset: 0,
			PortRun:      int(trim.DefaultPortRun),
			StbdRun:      int(trim.DefaultStbdRun),
			WindOffset:   0,
			WrapModulus:  trim.Codes,
			Gybe:         trim.GybeLiteral.String(),
		},
		PWM: PWMConfig{
			ClockHz: servo.DefaultClockHz,
			ServoHz: servo.DefaultServoHz,
		},
		Loop: LoopConfig{
			Interval:       20 * time.Millisecond, // One servo frame
			AcquireTimeout: 0,
			Fallback:       control.FallbackHold.String(),
			Trace:          false,
			History:        600,
		},
		Servo: servo.Config{
			Driver: servo.DriverBridge,
			Pin:    18,
		},
		Mock: MockConfig{
			SweepPeriod:    20 * time.Second,
			Noise:          3,
			ConversionTime: time.Millisecond,
			Start:          0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if _, err := trim.ParseGybeMode(c.Trim.Gybe); err != nil {
		return err
	}
	if c.Trim.WrapModulus != trim.Codes && c.Trim.WrapModulus != trim.LegacyWrapModulus {
		return fmt.Errorf("wrap_modulus must be %d or %d, got %d", trim.Codes, trim.LegacyWrapModulus, c.Trim.WrapModulus)
	}
	if _, err := control.ParseFallback(c.Loop.Fallback); err != nil {
		return err
	}

	period := c.Timing().Period()
	centre := c.Trim.Centre + c.Trim.CentreOffset
	for name, p := range map[string]int{"centre": centre, "port_run": c.Trim.PortRun, "stbd_run": c.Trim.StbdRun} {
		if p <= 0 || trim.Pulse(p) >= period {
			return fmt.Errorf("%s pulse %d outside PWM period of %d ticks", name, p, period)
		}
	}

	switch c.Servo.Driver {
	case servo.DriverBridge, servo.DriverRPi, servo.DriverNone:
	default:
		return fmt.Errorf("unknown servo driver %q", c.Servo.Driver)
	}

	return nil
}

// Params converts the trim section into mapper parameters.
func (c *Config) Params() (trim.Params, error) {
	gybe, err := trim.ParseGybeMode(c.Trim.Gybe)
	if err != nil {
		return trim.Params{}, err
	}
	return trim.Params{
		Centre:       trim.Pulse(c.Trim.Centre),
		CentreOffset: trim.Pulse(c.Trim.CentreOffset),
		PortRun:      trim.Pulse(c.Trim.PortRun),
		StbdRun:      trim.Pulse(c.Trim.StbdRun),
		WindOffset:   c.Trim.WindOffset,
		WrapModulus:  c.Trim.WrapModulus,
		Gybe:         gybe,
	}, nil
}

// Timing converts the pwm section into servo timing.
func (c *Config) Timing() servo.Timing {
	return servo.Timing{ClockHz: c.PWM.ClockHz, ServoHz: c.PWM.ServoHz}
}

// LoopOptions converts the loop section into control loop options.
func (c *Config) LoopOptions() (control.Options, error) {
	fallback, err := control.ParseFallback(c.Loop.Fallback)
	if err != nil {
		return control.Options{}, err
	}
	return control.Options{
		Interval:       c.Loop.Interval,
		AcquireTimeout: c.Loop.AcquireTimeout,
		Fallback:       fallback,
		Trace:          c.Loop.Trace,
	}, nil
}

// ensureDefaults ensures that all required fields have default values if missing.
// Offsets are legitimately zero and are left alone.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Trim.Centre == 0 {
		c.Trim.Centre = def.Trim.Centre
	}
	if c.Trim.PortRun == 0 {
		c.Trim.PortRun = def.Trim.PortRun
	}
	if c.Trim.StbdRun == 0 {
		c.Trim.StbdRun = def.Trim.StbdRun
	}
	if c.Trim.WrapModulus == 0 {
		c.Trim.WrapModulus = def.Trim.WrapModulus
	}
	if c.Trim.Gybe == "" {
		c.Trim.Gybe = def.Trim.Gybe
	}

	if c.PWM.ClockHz == 0 {
		c.PWM.ClockHz = def.PWM.ClockHz
	}
	if c.PWM.ServoHz == 0 {
		c.PWM.ServoHz = def.PWM.ServoHz
	}

	if c.Loop.Fallback == "" {
		c.Loop.Fallback = def.Loop.Fallback
	}
	if c.Loop.History == 0 {
		c.Loop.History = def.Loop.History
	}

	if c.Servo.Driver == "" {
		c.Servo.Driver = def.Servo.Driver
	}
	if c.Servo.Pin == 0 {
		c.Servo.Pin = def.Servo.Pin
	}

	if c.Mock.ConversionTime == 0 {
		c.Mock.ConversionTime = def.Mock.ConversionTime
	}
}
