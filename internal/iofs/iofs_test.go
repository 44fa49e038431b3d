package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	configDir := filepath.Join(tmpDir, ".config", "npdb")
	info, err := os.Stat(configDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(),
		"Config directory should exist")

	cacheDir := filepath.Join(tmpDir, ".cache", "npdb")
	info, err = os.Stat(cacheDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(),
		"Cache directory should exist")

	logDir := filepath.Join(tmpDir, ".local", "share", "npdb",
		"logs")
	info, err = os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(),
		"Log directory should exist")
}

// TestEnsureDirs_Idempotent verifies multiple calls work.
func TestEnsureDirs_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	err = EnsureDirs(tmpDir)
	require.NoError(t, err)
}

// TestEnsureConfigFile_CreatesFile verifies the config file is
// created from the embedded template.
func TestEnsureConfigFile_CreatesFile(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	err = EnsureConfigFile(tmpDir)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, ".config", "npdb",
		"config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content),
		"Config file content should match embedded template")
}

// TestEnsureConfigFile_Idempotent verifies an existing file
// is not overwritten.
func TestEnsureConfigFile_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	err = EnsureConfigFile(tmpDir)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, ".config", "npdb",
		"config.yaml")

	customContent := "# Custom config\ndatabase:\n  host: myhost"
	err = os.WriteFile(configPath, []byte(customContent), 0644)
	require.NoError(t, err)

	err = EnsureConfigFile(tmpDir)
	require.NoError(t, err)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing config file should not be overwritten")
}

// TestEnsureStatesFile_CreatesFile verifies the states registry
// is created from the embedded template.
func TestEnsureStatesFile_CreatesFile(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	err = EnsureStatesFile(tmpDir)
	require.NoError(t, err)

	statesPath := filepath.Join(tmpDir, ".config", "npdb",
		"states.yaml")
	content, err := os.ReadFile(statesPath)
	require.NoError(t, err)
	assert.Equal(t, StatesYAML, string(content),
		"States file content should match embedded template")
}

// TestEnsureStatesFile_Idempotent verifies a user-edited registry
// is not overwritten.
func TestEnsureStatesFile_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	err = EnsureStatesFile(tmpDir)
	require.NoError(t, err)

	statesPath := filepath.Join(tmpDir, ".config", "npdb",
		"states.yaml")

	customContent := "states:\n  - {code: NC, name: X, slug: NCplants}"
	err = os.WriteFile(statesPath, []byte(customContent), 0644)
	require.NoError(t, err)

	err = EnsureStatesFile(tmpDir)
	require.NoError(t, err)

	content, err := os.ReadFile(statesPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing states file should not be overwritten")
}

// TestReadStatesFile_PrefersUserCopy verifies the user copy wins
// over the embedded registry.
func TestReadStatesFile_PrefersUserCopy(t *testing.T) {
	tmpDir := t.TempDir()

	// no user copy yet: embedded registry is returned
	data, err := ReadStatesFile(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, StatesYAML, string(data))

	err = EnsureDirs(tmpDir)
	require.NoError(t, err)
	statesPath := filepath.Join(tmpDir, ".config", "npdb",
		"states.yaml")
	customContent := "states:\n  - {code: NC, name: X, slug: NCplants}"
	err = os.WriteFile(statesPath, []byte(customContent), 0644)
	require.NoError(t, err)

	data, err = ReadStatesFile(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(data))
}

// TestStatesYAML_Embedded verifies the embedded registry covers
// all jurisdictions.
func TestStatesYAML_Embedded(t *testing.T) {
	assert.NotEmpty(t, StatesYAML,
		"Embedded StatesYAML should not be empty")
	assert.Contains(t, StatesYAML, "code: NC")
	assert.Contains(t, StatesYAML, "slug: NCplants")
	assert.Contains(t, StatesYAML, "District of Columbia")
}

// TestConfigYAML_Embedded verifies embedded config is not empty.
func TestConfigYAML_Embedded(t *testing.T) {
	assert.NotEmpty(t, ConfigYAML,
		"Embedded ConfigYAML should not be empty")
	assert.Contains(t, ConfigYAML, "database",
		"ConfigYAML should contain database section")
	assert.Contains(t, ConfigYAML, "fetch",
		"ConfigYAML should contain fetch section")
	assert.Contains(t, ConfigYAML, "log",
		"ConfigYAML should contain log section")
}
