package flags

import (
	"strings"
	"testing"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestOptionalFlagsDontSetRequired asserts that all flags deemed optional set
// the Required field to false.
func TestOptionalFlagsDontSetRequired(t *testing.T) {
	for _, flag := range optionalFlags {
		reqFlag, ok := flag.(cli.RequiredFlag)
		require.True(t, ok)
		require.False(t, reqFlag.IsRequired())
	}
}

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range Flags {
		name := flag.Names()[0]
		if _, ok := seenCLI[name]; ok {
			t.Errorf("duplicate flag %s", name)
			continue
		}
		seenCLI[name] = struct{}{}
	}
}

// TestEnvVarPrefix asserts that all our own flags expose a TESTOPS_ env var.
func TestEnvVarPrefix(t *testing.T) {
	for _, flag := range optionalFlags {
		envFlag, ok := flag.(interface {
			GetEnvVars() []string
		})
		if !ok || len(envFlag.GetEnvVars()) == 0 {
			continue
		}
		for _, envVar := range envFlag.GetEnvVars() {
			require.True(t, strings.HasPrefix(envVar, EnvVarPrefix+"_") || strings.HasPrefix(envVar, "TESTOPS"),
				"flag %s env var %s misses the %s prefix", flag.Names()[0], envVar, EnvVarPrefix)
		}
	}
}

func TestPrefixEnvVar(t *testing.T) {
	require.Equal(t, []string{"TESTOPS_PORT"}, opservice.PrefixEnvVar(EnvVarPrefix, "PORT"))
}
