package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsMissingEngineAddress(t *testing.T) {
	cfg := Defaults
	cfg.EngineAuthRPCAddress = ""
	cfg.PrivateKeyPath = "key.hex"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownNodeType(t *testing.T) {
	cfg := Defaults
	cfg.PrivateKeyPath = "key.hex"
	cfg.ELNodeType = "weird"
	require.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := Defaults
	cfg.PrivateKeyPath = "key.hex"
	require.NoError(t, cfg.Validate())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emerald.toml")
	contents := `
EngineAuthRPCAddress = "http://engine.example:8551"
PrivateKeyPath = "key.hex"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "http://engine.example:8551", cfg.EngineAuthRPCAddress)
	require.Equal(t, Defaults.ExecutionAuthRPCAddress, cfg.ExecutionAuthRPCAddress)
}

func TestStoreDirJoinsDataDir(t *testing.T) {
	cfg := Config{DataDir: "/tmp/emerald-home"}
	require.Equal(t, "/tmp/emerald-home/store.db", cfg.StoreDir())
}
