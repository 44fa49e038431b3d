package iofs

import (
	_ "embed"
	"os"

	"github.com/Don-Green-Here/npdb/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed states.yaml
var StatesYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

func EnsureStatesFile(homeDir string) error {
	statesPath := config.StatesFilePath(homeDir)

	// Check if states registry already exists
	if _, err := os.Stat(statesPath); err == nil {
		return nil
	}

	// Write embedded states.yaml to the config directory
	if err := os.WriteFile(statesPath, []byte(StatesYAML), 0644); err != nil {
		return CopyFileError(statesPath, err)
	}

	return nil
}

// ReadStatesFile returns the states registry content, preferring a
// user-edited copy in the config directory over the embedded default.
func ReadStatesFile(homeDir string) ([]byte, error) {
	statesPath := config.StatesFilePath(homeDir)
	if data, err := os.ReadFile(statesPath); err == nil {
		return data, nil
	}
	return []byte(StatesYAML), nil
}
