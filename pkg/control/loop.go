// Package control runs the polling loop: acquire a vane sample, map it to a
// pulse, write the pulse.
package control

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/itohio/sailtrim/pkg/trim"
)

// ErrTimeout is returned by Step when the sensor did not complete an
// acquisition within Options.AcquireTimeout.
var ErrTimeout = errors.New("acquire timed out")

// errorBackoff paces Run while an adapter keeps failing.
const errorBackoff = 100 * time.Millisecond

// Sensor triggers one conversion and blocks until the latched sample is ready.
type Sensor interface {
	Acquire(ctx context.Context) (trim.Sample, error)
}

// Actuator writes a pulse width to the servo output.
type Actuator interface {
	SetPulse(p trim.Pulse) error
}

// Fallback selects what is written when an acquisition times out.
type Fallback uint8

const (
	// FallbackHold re-writes the last written pulse, or the apparent centre.
	FallbackHold Fallback = iota
	// FallbackCentre writes the apparent centre.
	FallbackCentre
	// FallbackNone writes nothing.
	FallbackNone
)

func (f Fallback) String() string {
	switch f {
	case FallbackCentre:
		return "centre"
	case FallbackNone:
		return "none"
	}
	return "hold"
}

// ParseFallback parses "hold", "centre" or "none". The empty string is hold.
func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "", "hold":
		return FallbackHold, nil
	case "centre", "center":
		return FallbackCentre, nil
	case "none":
		return FallbackNone, nil
	}
	return FallbackHold, fmt.Errorf("unknown fallback %q", s)
}

// Options configures a Loop.
type Options struct {
	Interval       time.Duration // Minimum iteration period, 0 runs back to back
	AcquireTimeout time.Duration // 0 waits for the sensor forever
	Fallback       Fallback
	Trace          bool
}

// Reading is the outcome of one iteration.
// For a fallback reading only Pulse of the embedded Decision is meaningful.
type Reading struct {
	Time time.Time
	Raw  trim.Sample
	trim.Decision
	Fallback bool // Sensor timed out, Pulse came from the fallback policy
	Written  bool // Pulse was written to the actuator
}

// Loop is the single-state polling controller.
//
// The mapping carries no state between iterations. The only thing the loop
// remembers is the last written pulse, used by FallbackHold.
type Loop struct {
	sensor Sensor
	servo  Actuator
	mapper *trim.Mapper
	opts   Options

	mu       sync.Mutex
	last     trim.Pulse
	haveLast bool

	callbacks []func(Reading)
	cbMu      sync.RWMutex
}

// New creates a Loop.
func New(sensor Sensor, servo Actuator, mapper *trim.Mapper, opts Options) *Loop {
	return &Loop{
		sensor: sensor,
		servo:  servo,
		mapper: mapper,
		opts:   opts,
	}
}

// Mapper returns the mapper used by the loop.
func (l *Loop) Mapper() *trim.Mapper {
	return l.mapper
}

// OnUpdate registers a callback invoked after every iteration that produced
// a Reading. Callbacks run on the loop goroutine and must return quickly.
func (l *Loop) OnUpdate(cb func(Reading)) {
	l.cbMu.Lock()
	defer l.cbMu.Unlock()
	l.callbacks = append(l.callbacks, cb)
}

// Step performs one iteration: trigger and wait for a sample, map it and
// write the pulse.
//
// On an acquisition timeout the fallback is applied and the fallback Reading
// is returned together with ErrTimeout. If ctx is cancelled, ctx.Err() is
// returned.
func (l *Loop) Step(ctx context.Context) (Reading, error) {
	acqCtx := ctx
	if l.opts.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, l.opts.AcquireTimeout)
		defer cancel()
	}

	raw, err := l.sensor.Acquire(acqCtx)
	if err != nil {
		if ctx.Err() != nil {
			return Reading{}, ctx.Err()
		}
		if l.opts.AcquireTimeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return l.fallback()
		}
		return Reading{}, fmt.Errorf("acquire: %w", err)
	}

	r := Reading{
		Time:     time.Now(),
		Raw:      raw,
		Decision: l.mapper.Map(raw),
	}
	if err := l.write(r.Pulse); err != nil {
		return r, err
	}
	r.Written = true

	if l.opts.Trace {
		log.Printf("control: raw=%d %s", raw, r.Decision)
	}
	l.notify(r)
	return r, nil
}

// Run calls Step until ctx is cancelled, pacing iterations by
// Options.Interval. Errors other than cancellation are logged and the loop
// continues. Run always returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		started := time.Now()

		_, err := l.Step(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := l.opts.Interval - time.Since(started)
		if err != nil {
			log.Printf("control: %v", err)
			if !errors.Is(err, ErrTimeout) && wait < errorBackoff {
				wait = errorBackoff
			}
		}
		if wait <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// LastPulse returns the last pulse written, if any.
func (l *Loop) LastPulse() (trim.Pulse, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last, l.haveLast
}

func (l *Loop) fallback() (Reading, error) {
	r := Reading{Time: time.Now(), Fallback: true}
	centre := l.mapper.ApparentCentre()

	switch l.opts.Fallback {
	case FallbackNone:
		l.notify(r)
		return r, ErrTimeout
	case FallbackCentre:
		r.Pulse = centre
	default:
		if p, ok := l.LastPulse(); ok {
			r.Pulse = p
		} else {
			r.Pulse = centre
		}
	}

	if err := l.write(r.Pulse); err != nil {
		return r, fmt.Errorf("%w: fallback: %w", ErrTimeout, err)
	}
	r.Written = true
	l.notify(r)
	return r, ErrTimeout
}

func (l *Loop) write(p trim.Pulse) error {
	if err := l.servo.SetPulse(p); err != nil {
		return fmt.Errorf("set pulse %d: %w", p, err)
	}
	l.mu.Lock()
	l.last = p
	l.haveLast = true
	l.mu.Unlock()
	return nil
}

func (l *Loop) notify(r Reading) {
	l.cbMu.RLock()
	defer l.cbMu.RUnlock()
	for _, cb := range l.callbacks {
		cb(r)
	}
}
