package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/trackmysleep/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "sleep.log")

	log, closer, err := New(config.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("night_id", 7).Info("night closed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "night closed")
	require.Contains(t, string(data), "night_id=7")
}

func TestNewRejectsBadLevel(t *testing.T) {
	t.Parallel()
	_, _, err := New(config.LogConfig{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	require.Error(t, err)
}

func TestNewWithoutFileDiscards(t *testing.T) {
	t.Parallel()
	log, closer, err := New(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, log.GetLevel())
	require.NoError(t, closer.Close())
}
