package config

import (
	"os"
	"path/filepath"
)

const AppName = "gridbuf"

var (
	// AppConfigDir is ~/.config/gridbuf
	AppConfigDir string

	// AppStateDir is ~/.local/state/gridbuf
	AppStateDir string

	// AppConfigFile is ~/.config/gridbuf/gridbuf.yaml
	AppConfigFile string

	// AppLogFile is ~/.local/state/gridbuf/gridbuf.log
	AppLogFile string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)
	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")

	for _, dir := range []string{AppConfigDir, AppStateDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc() error {
	logDir := filepath.Dir(AppLogFile)
	return os.MkdirAll(logDir, 0700)
}
