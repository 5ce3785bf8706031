package main

import (
	"os"

	"github.com/itohio/sailtrim/pkg/config"
	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagPort   string
	flagMock   bool
	flagTrace  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trimctl",
		Short: "trimctl - headless sail trim controller",
		Long: `trimctl reads the wind vane, maps the apparent wind to a boom servo
pulse and writes it, without the desktop monitor.

The vane is reached through the bridge firmware on a serial port, or
simulated with --mock.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
	rootCmd.PersistentFlags().BoolVar(&flagMock, "mock", false, "Use simulated vane instead of serial port")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "Log every control decision (overrides config)")

	rootCmd.AddCommand(
		newRunCmd(),
		newWatchCmd(),
		newTableCmd(),
		newPortsCmd(),
	)
	return rootCmd
}

// loadConfig loads the configuration file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagPort != "" {
		cfg.Serial.Port = flagPort
	}
	if flagTrace {
		cfg.Loop.Trace = true
	}
	return cfg, nil
}
