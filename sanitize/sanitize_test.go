package sanitize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceBody(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "plain text passes through",
			line: "test_furi_memmgr()",
			want: "test_furi_memmgr()",
		},
		{
			name: "spinner frames removed",
			line: "[-]working[\\]still[|]going[/-]done",
			want: "workingstillgoingdone",
		},
		{
			name: "bracket group removed",
			line: "[spinner] Failed tests: 0",
			want: " Failed tests: 0",
		},
		{
			name: "cursor left escape removed",
			line: "abc\x1b[3Ddef",
			want: "abcdef",
		},
		{
			name: "split cursor left fragment removed",
			line: "abc[3Dleftover",
			want: "abc",
		},
		{
			name: "control characters removed",
			line: "a\x00b\x07c\x1fd\x7fe",
			want: "abcde",
		},
		{
			name: "ansi color codes removed",
			line: "\x1b[31mStatus: PASSED\x1b[0m",
			want: "Status: PASSED",
		},
		{
			name: "empty line",
			line: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deviceBody(tt.line))
		})
	}
}

func TestMonitorBody(t *testing.T) {
	assert.Equal(t, "boot ok", monitorBody("boot ok\r\n"))
	assert.Equal(t, "ready", monitorBody("\x1b[2Kready"))
	// monitor variant keeps bracket groups, they are real payload there
	assert.Equal(t, "[INFO] ready", monitorBody("[INFO] ready"))
}

// Sanitizing an already-sanitized body must be a no-op for printable input.
func TestDeviceBodyIdempotent(t *testing.T) {
	lines := []string{
		"test_furi_memmgr()",
		"Consumed: 1500",
		"plain text with spaces",
		"[-]spinner[|]frames",
		"\x1b[31mcolored\x1b[0m",
	}
	for _, line := range lines {
		once := deviceBody(line)
		assert.Equal(t, once, deviceBody(once), "line %q", line)
	}
}

func TestDeviceTimestampPrefix(t *testing.T) {
	out := Device("Status: PASSED")

	parts := strings.SplitN(out, " ", 3)
	require.Len(t, parts, 3)
	_, err := time.Parse(TimestampLayout, parts[0]+" "+parts[1])
	require.NoError(t, err, "prefix should parse as %s", TimestampLayout)
	assert.Equal(t, "Status: PASSED", parts[2])
}

func TestMonitorTimestampPrefix(t *testing.T) {
	out := Monitor("hello")
	require.True(t, strings.HasSuffix(out, " hello"))
	prefix := strings.TrimSuffix(out, " hello")
	_, err := time.Parse(TimestampLayout, prefix)
	require.NoError(t, err)
}
