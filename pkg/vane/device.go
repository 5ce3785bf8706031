package vane

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/itohio/sailtrim/pkg/trim"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the bridge firmware baud rate.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 16
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial talks to the bridge firmware over a UART.
//
// Protocol, newline terminated ASCII:
//
//	host -> MCU  "?<seq>"       trigger one acquisition
//	MCU  -> host "A<seq>,<raw>" latched sample, 0..1023, echoing seq
//	host -> MCU  "P<ticks>"     write the servo pulse
//
// A reply whose seq does not match the pending trigger answers an earlier,
// timed out acquisition and is discarded.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      io.ReadWriteCloser
	samples   chan reply
	mu        sync.RWMutex
	writeMu   sync.Mutex
	cancel    context.CancelFunc
	connected bool

	acqMu sync.Mutex // Serializes Acquire
	seq   uint16
}

// reply is one parsed sample line.
type reply struct {
	seq uint16
	raw trim.Sample
}

// New creates a new Serial instance with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading samples.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.attach(port)
	return nil
}

// attach starts the reader on conn. d.mu must be held.
func (d *Serial) attach(conn io.ReadWriteCloser) {
	ctx, cancel := context.WithCancel(context.Background())

	d.conn = conn
	d.samples = make(chan reply, d.bufSize)
	d.cancel = cancel
	d.connected = true

	go readSamples(ctx, conn, d.samples)
}

// Close closes the connection. Pending Acquire calls return ErrNotConnected.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false
	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Acquire triggers one conversion on the MCU and waits for its reply.
// Replies to earlier triggers are discarded.
func (d *Serial) Acquire(ctx context.Context) (trim.Sample, error) {
	d.acqMu.Lock()
	defer d.acqMu.Unlock()

	d.mu.RLock()
	samples, connected := d.samples, d.connected
	d.mu.RUnlock()
	if !connected {
		return 0, ErrNotConnected
	}

	for drained := false; !drained; {
		select {
		case _, ok := <-samples:
			if !ok {
				return 0, ErrNotConnected
			}
		default:
			drained = true
		}
	}

	d.seq++
	seq := d.seq
	if err := d.send(formatTrigger(seq)); err != nil {
		return 0, fmt.Errorf("trigger: %w", err)
	}

	for {
		select {
		case r, ok := <-samples:
			if !ok {
				return 0, ErrNotConnected
			}
			if r.seq != seq {
				log.Printf("Discarding stale sample %d for trigger %d", r.raw, r.seq)
				continue
			}
			return r.raw, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// SetPulse sends the pulse width in timer ticks to the MCU.
func (d *Serial) SetPulse(p trim.Pulse) error {
	if p < 0 {
		return fmt.Errorf("negative pulse %d", p)
	}
	return d.send(formatPulse(p))
}

// Release implements servo.Servo. The MCU keeps the last pulse.
func (d *Serial) Release() error {
	return nil
}

func (d *Serial) send(cmd string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if _, err := io.WriteString(d.conn, cmd); err != nil {
		return fmt.Errorf("failed to send %q: %w", strings.TrimSpace(cmd), err)
	}
	return nil
}

// readSamples reads lines from conn, parses them and feeds samples.
// It closes samples on exit.
func readSamples(ctx context.Context, conn io.Reader, samples chan<- reply) {
	defer close(samples)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readSamples: %v", r)
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		r, err := parseLine(line)
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}

		// Send sample to channel (non-blocking)
		select {
		case samples <- r:
		case <-ctx.Done():
			return
		default:
			log.Printf("Samples channel full, dropping sample")
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) {
		log.Printf("Error reading from serial port: %v", err)
	}
}

// parseLine parses a sample line from the MCU.
// Format: A<seq>,<raw>, seq is decimal 0..65535, raw is decimal 0..1023
// Example: A17,512
func parseLine(line string) (reply, error) {
	if len(line) < 2 || line[0] != 'A' {
		return reply{}, fmt.Errorf("invalid line format: expected A<seq>,<raw>")
	}

	seqStr, rawStr, ok := strings.Cut(line[1:], ",")
	if !ok {
		return reply{}, fmt.Errorf("invalid line format: missing sequence")
	}

	seq, err := strconv.ParseUint(seqStr, 10, 16)
	if err != nil {
		return reply{}, fmt.Errorf("invalid sequence: %w", err)
	}

	raw, err := strconv.ParseUint(rawStr, 10, 16)
	if err != nil {
		return reply{}, fmt.Errorf("invalid reading: %w", err)
	}
	if raw > uint64(trim.MaxCode) {
		return reply{}, fmt.Errorf("reading out of range: %d (max %d)", raw, trim.MaxCode)
	}

	return reply{seq: uint16(seq), raw: trim.Sample(raw)}, nil
}

// formatTrigger formats an acquisition trigger. Example: ?17
func formatTrigger(seq uint16) string {
	return "?" + strconv.Itoa(int(seq)) + "\n"
}

// formatPulse formats a pulse command. Example: P1700
func formatPulse(p trim.Pulse) string {
	return "P" + strconv.Itoa(int(p)) + "\n"
}
