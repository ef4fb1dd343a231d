package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"govsig-go/internal/governance"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, rpc.MainNetBeta_RPC, cfg.RPCURL)
	require.Equal(t, rpc.MainNetBeta_WS, cfg.WSURL)
	require.Equal(t, governance.DefaultProgramID, cfg.Program())
	require.Equal(t, string(rpc.CommitmentConfirmed), cfg.Commitment)
	require.NoError(t, cfg.validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, rpc.MainNetBeta_RPC, cfg.RPCURL)
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpcUrl: http://localhost:8899
wsUrl: ws://localhost:8900
commitment: finalized
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8899", cfg.RPCURL)
	require.Equal(t, "ws://localhost:8900", cfg.WSURL)
	require.Equal(t, "finalized", cfg.Commitment)
	// Unset fields keep their defaults.
	require.Equal(t, governance.DefaultProgramID, cfg.Program())
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "from-env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpcUrl: http://env-host:8899\n"), 0o600))
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://env-host:8899", cfg.RPCURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("commitment: sortof\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "commitment")

	require.NoError(t, os.WriteFile(path, []byte("programId: not-a-key\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "program id")

	require.NoError(t, os.WriteFile(path, []byte("rpcUrl: [broken\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "parse config")
}
