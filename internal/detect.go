package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is used for config and data directory names
const AppName = "doomlearn"

// DataPaths holds the resolved locations for config and state
type DataPaths struct {
	ConfigDir string // holds config.yaml
	DataDir   string // holds state.json / state.db
}

// ConfigFile returns the default config file path
func (dp DataPaths) ConfigFile() string {
	return filepath.Join(dp.ConfigDir, "config.yaml")
}

// DetectDataPaths resolves the default directories for the current OS
func DetectDataPaths() (DataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var configDir, dataDir string
	switch runtime.GOOS {
	case "darwin":
		configDir = filepath.Join(home, "Library/Application Support", AppName)
		dataDir = configDir
	case "linux":
		configDir = filepath.Join(home, ".config", AppName)
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, AppName)
		}
		dataDir = filepath.Join(home, ".local/share", AppName)
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataDir = filepath.Join(xdg, AppName)
		}
	case "windows":
		base, err := os.UserConfigDir()
		if err != nil {
			return DataPaths{}, fmt.Errorf("failed to get config directory: %w", err)
		}
		configDir = filepath.Join(base, AppName)
		dataDir = configDir
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s (only macOS, Linux and Windows are supported)", runtime.GOOS)
	}

	return DataPaths{ConfigDir: configDir, DataDir: dataDir}, nil
}
