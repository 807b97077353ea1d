package device

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkConn serves scripted read chunks. An empty chunk models a read
// timeout (0 bytes, nil error); once the script runs out it returns EOF.
type chunkConn struct {
	chunks [][]byte
	next   int
	closed bool
}

func (c *chunkConn) Read(p []byte) (int, error) {
	if c.next >= len(c.chunks) {
		return 0, io.EOF
	}
	chunk := c.chunks[c.next]
	c.next++
	return copy(p, chunk), nil
}

func (c *chunkConn) Write(p []byte) (int, error) { return len(p), nil }
func (c *chunkConn) Close() error                { c.closed = true; return nil }
func (c *chunkConn) SetReadTimeout(t time.Duration) error {
	return nil
}

func TestReadLine(t *testing.T) {
	r := NewLineReader(&chunkConn{chunks: [][]byte{[]byte("hello\r\nworld\r\n")}})

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "world", line)
}

func TestReadLineSplitAcrossReads(t *testing.T) {
	r := NewLineReader(&chunkConn{chunks: [][]byte{
		[]byte("Failed te"),
		[]byte("sts: 0\r"),
		[]byte("\n"),
	}})

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "Failed tests: 0", line)
}

func TestReadLineTimeout(t *testing.T) {
	r := NewLineReader(&chunkConn{chunks: [][]byte{
		[]byte("partial"),
		{}, // read timeout
	}})

	_, err := r.ReadLine()
	require.ErrorIs(t, err, ErrReadTimeout)

	// partial input survives the timeout
	assert.Equal(t, "partial", r.Buffered())
}

func TestReadUntilPrompt(t *testing.T) {
	r := NewLineReader(&chunkConn{chunks: [][]byte{[]byte("trailing output\r\n>: ")}})

	out, err := r.ReadUntil(">: ")
	require.NoError(t, err)
	assert.Equal(t, "trailing output\r\n", out)
}

func TestReadUntilTransportError(t *testing.T) {
	r := NewLineReader(&chunkConn{})
	_, err := r.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}
