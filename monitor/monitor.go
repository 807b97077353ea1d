// Package monitor tails an auxiliary serial channel while a test session
// runs on the primary one. The reader is fully decoupled from the main
// collection loop; its captured lines are retrieved after it is stopped.
package monitor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.bug.st/serial"

	"github.com/JayillProne/testops/device"
	"github.com/JayillProne/testops/sanitize"
)

const (
	// DefaultBaudrate for the auxiliary (STM32 trace) channel.
	DefaultBaudrate = 230400

	// pollTimeout is the per-read timeout of the reader loop; it bounds how
	// long a Stop can lag behind the running flag being cleared.
	pollTimeout = 250 * time.Millisecond

	// stopTimeout caps the join wait on the reader goroutine.
	stopTimeout = time.Second

	eventBuffer = 64
)

// Event is one entry on the monitor's delivery queue: either a captured line
// or the terminal read error of the reader goroutine. Consuming the queue is
// optional; the buffered transcript is the authoritative capture.
type Event struct {
	Line string
	Err  error
}

// Monitor owns a background reader for one auxiliary serial port.
// Start and Stop bracket the reader goroutine; Output may be called at any
// time but is only guaranteed complete once Stop has returned.
type Monitor struct {
	log  log.Logger
	port string
	baud int

	// dial is swapped out in tests.
	dial func(port string, baud int) (device.Conn, error)

	mu    sync.Mutex
	lines []string

	running atomic.Bool
	done    chan struct{}
	events  chan Event
	conn    device.Conn
}

func New(logger log.Logger, port string, baud int) *Monitor {
	return &Monitor{
		log:    logger,
		port:   port,
		baud:   baud,
		dial:   dialSerial,
		events: make(chan Event, eventBuffer),
	}
}

func dialSerial(port string, baud int) (device.Conn, error) {
	conn, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if err := conn.SetReadTimeout(pollTimeout); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Start opens the auxiliary port and launches the reader goroutine. The
// caller decides whether an open failure is fatal.
func (m *Monitor) Start() error {
	conn, err := m.dial(m.port, m.baud)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", m.port, err)
	}
	m.conn = conn
	m.done = make(chan struct{})
	m.running.Store(true)
	go m.read()
	return nil
}

func (m *Monitor) read() {
	defer close(m.done)

	reader := device.NewLineReader(m.conn)
	for m.running.Load() {
		line, err := reader.ReadLine()
		if errors.Is(err, device.ErrReadTimeout) {
			continue
		}
		if err != nil {
			// reported once on the queue, then the reader ends
			m.publish(Event{Err: fmt.Errorf("error reading serial: %w", err)})
			return
		}

		line = sanitize.Monitor(strings.ToValidUTF8(line, "�"))
		m.mu.Lock()
		m.lines = append(m.lines, line)
		m.mu.Unlock()
		m.publish(Event{Line: line})
	}
}

// publish never blocks; the queue is a diagnostic surface with no required
// consumer.
func (m *Monitor) publish(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Events exposes the delivery queue for a live consumer.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Stop clears the running flag, joins the reader with a bounded wait and
// closes the port. Safe to call repeatedly and on a never-started monitor.
func (m *Monitor) Stop() {
	m.running.Store(false)
	if m.done != nil {
		select {
		case <-m.done:
		case <-time.After(stopTimeout):
			m.log.Warn("Aux reader did not stop in time", "port", m.port)
		}
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

// Output returns the captured transcript, newline-joined in arrival order.
func (m *Monitor) Output() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.lines, "\n")
}
