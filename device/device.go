// Package device opens and frames the USB CDC console of the board under
// test. Discovery works off the USB vid:pid identity of known boards; the
// transport is a plain serial port with a per-read timeout.
package device

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.bug.st/serial"
)

const (
	// DefaultBaudrate is the CDC baud rate of the device console.
	DefaultBaudrate = 230400

	// prompt is printed by the device shell whenever it is ready for input.
	prompt = ">: "

	// readTimeout bounds a single read on the console; the collection loop
	// relies on it to notice a silent device.
	readTimeout = time.Second
)

// Device is an open console session with the board under test.
type Device struct {
	*LineReader

	log  log.Logger
	port string
	conn Conn
}

// New wraps an already-open transport. Open is the production path; New
// exists so sessions can run against stub transports.
func New(logger log.Logger, port string, conn Conn) *Device {
	return &Device{
		LineReader: NewLineReader(conn),
		log:        logger,
		port:       port,
		conn:       conn,
	}
}

// Open dials the console port and syncs to the shell prompt.
func Open(logger log.Logger, port string, baud int) (*Device, error) {
	conn, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", port, err)
	}
	if err := conn.SetReadTimeout(readTimeout); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", port, err)
	}

	d := New(logger, port, conn)
	d.wake()
	return d, nil
}

// wake nudges the shell and swallows its banner up to the prompt. The shell
// may be mid-boot, so a timeout here is not an error; the trigger command
// still gets a fresh prompt either way.
func (d *Device) wake() {
	if err := d.Send(""); err != nil {
		d.log.Debug("Wake write failed", "port", d.port, "err", err)
		return
	}
	if _, err := d.ReadUntil(prompt); err != nil {
		d.log.Debug("No prompt after wake", "port", d.port, "err", err)
	}
}

// Send writes a shell command terminated by a carriage return.
func (d *Device) Send(cmd string) error {
	if _, err := d.conn.Write([]byte(cmd + "\r")); err != nil {
		return fmt.Errorf("failed to write to %s: %w", d.port, err)
	}
	return nil
}

// Port returns the port name the session was opened on.
func (d *Device) Port() string {
	return d.port
}

func (d *Device) Close() error {
	return d.conn.Close()
}
