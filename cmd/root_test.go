package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCmd_Exists verifies the root command identity.
func TestRootCmd_Exists(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "npdb", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage,
		"Usage should not be printed on runtime errors")
}

// TestRootCmd_Subcommands verifies every pipeline stage is
// registered.
func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{
		"create", "migrate", "fetch", "parse", "canonicalize",
		"scrape", "normalize", "index", "search", "export",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		assert.True(t, registered[name],
			"subcommand %s should be registered", name)
	}
}

// TestRootCmd_VersionFlag verifies the -V shorthand.
func TestRootCmd_VersionFlag(t *testing.T) {
	f := rootCmd.Flags().Lookup("version")
	require.NotNil(t, f, "--version flag should exist")
	assert.Equal(t, "V", f.Shorthand)
}
