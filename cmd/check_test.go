// -- cmd/check_test.go --
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCheckCmd_Flags(t *testing.T) {
	checkCmd := newCheckCmd()

	for _, name := range []string{"url", "browser", "headless", "timeout", "locators", "output"} {
		assert.NotNil(t, checkCmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestRootCmd_HasCheckSubcommand(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "check" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRootCmd_Silences(t *testing.T) {
	// Runtime failures are reported once, by the logger or the report, not
	// echoed again by cobra.
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}
