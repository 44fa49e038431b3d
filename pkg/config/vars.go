package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "npdb"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/npdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/npdb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/npdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/npdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// StatesFilePath returns the full path to the states.yaml registry.
// Returns ~/.config/npdb/states.yaml by default.
func StatesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "states.yaml")
}
