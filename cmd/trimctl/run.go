package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/itohio/sailtrim/pkg/config"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/itohio/sailtrim/pkg/vane"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var driver string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the control loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Servo.Driver = driver
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, err := openSession(cfg, flagMock)
			if err != nil {
				return err
			}
			defer session.Close()

			log.Printf("Running: %s", session.describe(cfg, flagMock))
			err = session.loop.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&driver, "servo", "", "Servo driver override (bridge, rpi, none)")
	return cmd
}

// session is a connected vane and servo with a loop over them.
type session struct {
	device vane.Device
	servo  servo.Servo
	loop   *control.Loop
}

func openSession(cfg *config.Config, mock bool) (*session, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.LoopOptions()
	if err != nil {
		return nil, err
	}

	device, out, err := vane.Open(cfg, mock)
	if err != nil {
		return nil, err
	}
	if err := device.Connect(); err != nil {
		out.Release()
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &session{
		device: device,
		servo:  out,
		loop:   control.New(device, out, trim.New(params), opts),
	}, nil
}

func (s *session) describe(cfg *config.Config, mock bool) string {
	source := cfg.Serial.Port
	if mock {
		source = "simulated vane"
	}
	centre := s.loop.Mapper().ApparentCentre()
	return fmt.Sprintf("%s, servo %s, centre %d ticks, gybe %s", source, cfg.Servo.Driver, centre, s.loop.Mapper().Params().Gybe)
}

// Close closes the device and releases the servo.
func (s *session) Close() {
	if err := s.device.Close(); err != nil {
		log.Printf("Error closing device: %v", err)
	}
	if err := s.servo.Release(); err != nil {
		log.Printf("Error releasing servo: %v", err)
	}
}
