package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the client needs to run. All values come from
// the environment; a .env file in the working directory is honored.
type Config struct {
	BaseURL  string
	DataDir  string
	LogFile  string
	LogLevel string
}

// Load reads configuration from the environment. A missing .env file is
// fine; a missing base URL is not.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	baseURL := strings.TrimRight(os.Getenv("TASKDECK_BASE_URL"), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("TASKDECK_BASE_URL is not set")
	}

	dataDir := os.Getenv("TASKDECK_DATA_DIR")
	if dataDir == "" {
		var err error
		dataDir, err = defaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	logFile := os.Getenv("TASKDECK_LOG_FILE")
	if logFile == "" {
		logFile = filepath.Join(dataDir, "taskdeck.log")
	}

	logLevel := os.Getenv("TASKDECK_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		BaseURL:  baseURL,
		DataDir:  dataDir,
		LogFile:  logFile,
		LogLevel: logLevel,
	}, nil
}

// defaultDataDir returns the XDG data directory or a fallback under the
// user's home directory.
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskdeck"), nil
}
