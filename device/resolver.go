package device

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"go.bug.st/serial/enumerator"
	"gopkg.in/yaml.v3"
)

// ErrNoDevice is returned by Resolve when no port matches the selector.
var ErrNoDevice = errors.New("no matching device found")

// Profile describes the USB CDC identity of a supported board.
type Profile struct {
	Name string `yaml:"name"`
	VID  string `yaml:"vid"`
	PID  string `yaml:"pid"`
	Baud int    `yaml:"baud"`
}

// The Flipper Zero CLI enumerates as an ST CDC endpoint.
var builtinProfiles = []Profile{
	{Name: "flipper", VID: "0483", PID: "5740", Baud: 230400},
}

// BuiltinProfiles returns the device identities known out of the box.
func BuiltinProfiles() []Profile {
	out := make([]Profile, len(builtinProfiles))
	copy(out, builtinProfiles)
	return out
}

// LoadProfiles reads additional device profiles from a YAML file.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	var profiles []Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}
	for i, p := range profiles {
		if p.VID == "" || p.PID == "" {
			return nil, fmt.Errorf("profile %d (%s) is missing vid/pid", i, p.Name)
		}
	}
	return profiles, nil
}

// Indirection over the enumerator for tests.
var listPorts = enumerator.GetDetailedPortsList

// Resolve maps a logical port selector to a concrete port name. "auto" scans
// for a USB port matching one of the given profiles; anything else names a
// port explicitly and is only validated against the enumerated list.
func Resolve(logger log.Logger, selector string, profiles []Profile) (string, error) {
	ports, err := listPorts()
	if err != nil {
		return "", fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	if selector != "" && selector != "auto" {
		for _, p := range ports {
			if p.Name == selector {
				return selector, nil
			}
		}
		logger.Debug("Selected port not present", "port", selector)
		return "", ErrNoDevice
	}

	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		for _, profile := range profiles {
			if strings.EqualFold(p.VID, profile.VID) && strings.EqualFold(p.PID, profile.PID) {
				logger.Debug("Matched device profile", "profile", profile.Name, "port", p.Name, "serial", p.SerialNumber)
				return p.Name, nil
			}
		}
	}
	return "", ErrNoDevice
}
