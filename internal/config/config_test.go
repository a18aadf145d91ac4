package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TRACKMYSLEEP_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "trackmysleep", "trackmysleep.db"), cfg.Database.Path)
	require.Equal(t, DriverSQLite3, cfg.Database.Driver)
	require.Equal(t, "Monday Jan-02-2006 Time: 15:04", cfg.UI.DateFormat)
	require.Equal(t, 3, cfg.UI.SnackbarSeconds)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRACKMYSLEEP_CONFIG", "")
	t.Setenv("TRACKMYSLEEP_DATABASE_DRIVER", "sqlite")
	t.Setenv("TRACKMYSLEEP_UI_SNACKBAR_SECONDS", "7")
	t.Setenv("TRACKMYSLEEP_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, 7, cfg.UI.SnackbarSeconds)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("TRACKMYSLEEP_CONFIG", path)

	want := Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "sleep.db"), Driver: DriverSQLite},
		UI:       UIConfig{DateFormat: "2006-01-02 15:04", Timezone: "UTC", SnackbarSeconds: 5},
		Log:      LogConfig{Level: "warn", File: filepath.Join(dir, "sleep.log")},
	}
	require.NoError(t, Save(want))
	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRACKMYSLEEP_CONFIG", "")
	t.Setenv("TRACKMYSLEEP_DATABASE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown database driver")
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DriverSQLite3, cfg.Database.Driver)
}
