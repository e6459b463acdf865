package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresBaseURL(t *testing.T) {
	t.Setenv("TASKDECK_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TASKDECK_BASE_URL")
}

func TestLoad_TrimsTrailingSlashAndFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_BASE_URL", "https://tasks.example.com/api/")
	t.Setenv("TASKDECK_DATA_DIR", dir)
	t.Setenv("TASKDECK_LOG_FILE", "")
	t.Setenv("TASKDECK_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://tasks.example.com/api", cfg.BaseURL)
	require.Equal(t, dir, cfg.DataDir)
	require.Equal(t, filepath.Join(dir, "taskdeck.log"), cfg.LogFile)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ExplicitOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_BASE_URL", "http://localhost:8080")
	t.Setenv("TASKDECK_DATA_DIR", dir)
	t.Setenv("TASKDECK_LOG_FILE", filepath.Join(dir, "custom.log"))
	t.Setenv("TASKDECK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, filepath.Join(dir, "custom.log"), cfg.LogFile)
	require.Equal(t, "debug", cfg.LogLevel)
}
