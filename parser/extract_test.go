package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Fields
	}{
		{
			name: "failed tests",
			line: "Failed tests: 3",
			want: Fields{Failed: "Failed tests: 3"},
		},
		{
			name: "elapsed time",
			line: "Consumed: 1500",
			want: Fields{Elapsed: "Consumed: 1500"},
		},
		{
			name: "leak",
			line: "Leaked: 12",
			want: Fields{Leak: "Leaked: 12"},
		},
		{
			name: "status",
			line: "Status: PASSED",
			want: Fields{Status: "Status: PASSED"},
		},
		{
			name: "embedded in surrounding text",
			line: "[-] done; Failed tests: 0, Leaked: 4",
			want: Fields{Failed: "Failed tests: 0", Leak: "Leaked: 4"},
		},
		{
			name: "first match wins within a line",
			line: "Consumed: 100 Consumed: 200",
			want: Fields{Elapsed: "Consumed: 100"},
		},
		{
			name: "no fields",
			line: "test_furi_memmgr()",
			want: Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.line))
		})
	}
}

func TestFieldsMergeFirstWins(t *testing.T) {
	var f Fields
	f.Merge(Extract("Status: PASSED"))
	f.Merge(Extract("Status: FAILED"))
	assert.Equal(t, "Status: PASSED", f.Status)

	f.Merge(Extract("Failed tests: 1"))
	f.Merge(Extract("Failed tests: 9"))
	assert.Equal(t, "Failed tests: 1", f.Failed)
}

func TestFieldsComplete(t *testing.T) {
	var f Fields
	assert.False(t, f.Complete())

	f.Merge(Extract("Failed tests: 0"))
	f.Merge(Extract("Consumed: 1500"))
	f.Merge(Extract("Leaked: 12"))
	assert.False(t, f.Complete())

	f.Merge(Extract("Status: PASSED"))
	assert.True(t, f.Complete())
}

func TestFirstInt(t *testing.T) {
	n, err := firstInt("Failed tests: 42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = firstInt("no digits here")
	require.Error(t, err)
}

func TestStatusWord(t *testing.T) {
	word, err := statusWord("Status: PASSED")
	require.NoError(t, err)
	assert.Equal(t, "PASSED", word)

	_, err = statusWord("Status:")
	require.Error(t, err)
}
