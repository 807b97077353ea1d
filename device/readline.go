package device

import (
	"bytes"
	"errors"
	"time"
)

// ErrReadTimeout is returned when the transport stayed silent past its read
// timeout before the requested delimiter appeared.
var ErrReadTimeout = errors.New("serial read timed out")

// readUntilCap bounds a single ReadUntil call even against a transport that
// keeps producing bytes without ever emitting the delimiter.
const readUntilCap = 5 * time.Second

// LineReader frames a serial byte stream into delimiter-terminated chunks.
// Bytes past a delimiter are kept for the next call.
type LineReader struct {
	conn Conn
	buf  []byte
}

func NewLineReader(conn Conn) *LineReader {
	return &LineReader{conn: conn}
}

// ReadLine returns the next CRLF-terminated line without its terminator.
func (r *LineReader) ReadLine() (string, error) {
	return r.ReadUntil("\r\n")
}

// ReadUntil reads until marker is seen and returns everything before it,
// consuming the marker. It returns ErrReadTimeout when the port goes silent
// for its read timeout, or when readUntilCap elapses without the marker.
func (r *LineReader) ReadUntil(marker string) (string, error) {
	deadline := time.Now().Add(readUntilCap)
	chunk := make([]byte, 256)
	for {
		if i := bytes.Index(r.buf, []byte(marker)); i >= 0 {
			out := string(r.buf[:i])
			r.buf = r.buf[i+len(marker):]
			return out, nil
		}
		if time.Now().After(deadline) {
			return "", ErrReadTimeout
		}

		n, err := r.conn.Read(chunk)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", ErrReadTimeout
		}
		r.buf = append(r.buf, chunk[:n]...)
	}
}

// Buffered returns whatever partial input is waiting for a delimiter.
func (r *LineReader) Buffered() string {
	return string(r.buf)
}
