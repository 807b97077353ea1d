package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func withPorts(t *testing.T, ports []*enumerator.PortDetails) {
	t.Helper()
	orig := listPorts
	listPorts = func() ([]*enumerator.PortDetails, error) { return ports, nil }
	t.Cleanup(func() { listPorts = orig })
}

func TestResolveAuto(t *testing.T) {
	withPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyS0", IsUSB: false},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "0483", PID: "5740", SerialNumber: "flip_test"},
	})

	port, err := Resolve(log.NewLogger(log.DiscardHandler()), "auto", BuiltinProfiles())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", port)
}

func TestResolveAutoCaseInsensitive(t *testing.T) {
	withPorts(t, []*enumerator.PortDetails{
		{Name: "COM7", IsUSB: true, VID: "0483", PID: "5740"},
	})

	port, err := Resolve(log.NewLogger(log.DiscardHandler()), "auto", BuiltinProfiles())
	require.NoError(t, err)
	assert.Equal(t, "COM7", port)
}

func TestResolveAutoNoMatch(t *testing.T) {
	withPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "10c4", PID: "ea60"},
	})

	_, err := Resolve(log.NewLogger(log.DiscardHandler()), "auto", BuiltinProfiles())
	require.ErrorIs(t, err, ErrNoDevice)
}

func TestResolveExplicit(t *testing.T) {
	withPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyACM1"},
	})

	logger := log.NewLogger(log.DiscardHandler())

	port, err := Resolve(logger, "/dev/ttyACM1", BuiltinProfiles())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM1", port)

	_, err = Resolve(logger, "/dev/ttyACM9", BuiltinProfiles())
	require.ErrorIs(t, err, ErrNoDevice)
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
- name: devboard
  vid: "0483"
  pid: "df11"
  baud: 115200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "devboard", profiles[0].Name)
	assert.Equal(t, 115200, profiles[0].Baud)
}

func TestLoadProfilesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: broken\n"), 0o644))

	_, err := LoadProfiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing vid/pid")
}

func TestLoadProfilesMissingFile(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
