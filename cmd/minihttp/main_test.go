package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f, err := parseFlags(nil)
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:4221", f.addr)

		cfg, err := loadConfig(f)
		require.NoError(t, err)
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(wd, "file_directory"), cfg.Storage.Root)
		require.Equal(t, 4, cfg.Pool.Workers)
	})

	t.Run("flags override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"pool": {"workers": 8}, "net": {"read_timeout": "5s"}}`), 0o644))

		dir := t.TempDir()
		f, err := parseFlags([]string{"--config", path, "--directory", dir, "--read-timeout", "1s"})
		require.NoError(t, err)

		cfg, err := loadConfig(f)
		require.NoError(t, err)
		require.Equal(t, 8, cfg.Pool.Workers)
		require.Equal(t, time.Second, cfg.NET.ReadTimeout)
		require.Equal(t, dir, cfg.Storage.Root)
	})

	t.Run("file is kept unless flags are given", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"pool": {"workers": 8}, "net": {"read_timeout": "5s"}}`), 0o644))

		f, err := parseFlags([]string{"--config", path})
		require.NoError(t, err)

		cfg, err := loadConfig(f)
		require.NoError(t, err)
		require.Equal(t, 8, cfg.Pool.Workers)
		require.Equal(t, 5*time.Second, cfg.NET.ReadTimeout)
	})

	t.Run("flags equal to defaults still override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"pool": {"workers": 8}}`), 0o644))

		f, err := parseFlags([]string{"--config", path, "--workers", "4"})
		require.NoError(t, err)

		cfg, err := loadConfig(f)
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Pool.Workers)
	})

	t.Run("invalid", func(t *testing.T) {
		f, err := parseFlags([]string{"--workers", "-1"})
		require.NoError(t, err)
		_, err = loadConfig(f)
		require.Error(t, err)
	})
}

func TestFlagDefaults(t *testing.T) {
	set := newFlagSet(new(flags))
	require.Equal(t, "4", set.Lookup("workers").DefValue)
	require.Equal(t, "30s", set.Lookup("read-timeout").DefValue)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(flags{logLevel: "debug"})
	require.NoError(t, err)

	_, err = newLogger(flags{logLevel: "loud"})
	require.Error(t, err)
}
