package device

import (
	"io"
	"time"
)

// Conn is the transport surface the rest of the tool needs from a serial
// port. go.bug.st/serial's Port satisfies it; tests substitute scripted
// stubs.
type Conn interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds a single Read; an expired Read returns 0 bytes
	// and no error.
	SetReadTimeout(t time.Duration) error
}
