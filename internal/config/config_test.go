package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REELBOARD_CONFIG_PATH", "REELBOARD_SERVER_HOST", "REELBOARD_SERVER_PORT",
		"REELBOARD_TRANSPORT", "REELBOARD_STORAGE_DRIVER", "REELBOARD_DB_PATH",
		"REELBOARD_STORAGE_DIR", "REELBOARD_NAMESPACE", "REELBOARD_SEED_PATH",
		"REELBOARD_SEED_DELAY", "REELBOARD_LOG_LEVEL", "REELBOARD_LOG_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, TransportStdio, cfg.Transport)
	require.Equal(t, DriverSQLite, cfg.Storage.Driver)
	require.Equal(t, "root", cfg.Storage.Namespace)
	require.Equal(t, 500*time.Millisecond, cfg.Seed.Delay)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "reelboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport: http
server:
  port: 9090
storage:
  driver: file
  dir: /tmp/boards
seed:
  delay: 0s
log:
  level: debug
`), 0o644))

	t.Setenv("REELBOARD_CONFIG_PATH", path)
	t.Setenv("REELBOARD_SERVER_PORT", "9191")
	t.Setenv("REELBOARD_NAMESPACE", "alice")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, TransportHTTP, cfg.Transport)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, DriverFile, cfg.Storage.Driver)
	require.Equal(t, "/tmp/boards", cfg.Storage.Dir)
	require.Equal(t, "alice", cfg.Storage.Namespace)
	require.Equal(t, time.Duration(0), cfg.Seed.Delay)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"REELBOARD_SERVER_PORT":    "eighty",
		"REELBOARD_SEED_DELAY":     "soon",
		"REELBOARD_TRANSPORT":      "carrier-pigeon",
		"REELBOARD_STORAGE_DRIVER": "tape",
		"REELBOARD_LOG_LEVEL":      "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("REELBOARD_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
