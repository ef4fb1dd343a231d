package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestFromBase58RoundTrip(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	loaded, err := FromBase58(key.String())
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestFromBase58Rejects(t *testing.T) {
	_, err := FromBase58("not-base58-0OIl")
	require.Error(t, err)

	// Valid base58, wrong length.
	_, err = FromBase58(solana.NewWallet().PublicKey().String())
	require.ErrorContains(t, err, "bytes")
}

func TestFromMnemonicDeterministic(t *testing.T) {
	mnemonic, key, err := NewMnemonic()
	require.NoError(t, err)

	again, err := FromMnemonic(mnemonic, "")
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), again.PublicKey())

	other, err := FromMnemonic(mnemonic, "different-passphrase")
	require.NoError(t, err)
	require.NotEqual(t, key.PublicKey(), other.PublicKey())
}

func TestFromMnemonicRejectsGarbage(t *testing.T) {
	_, err := FromMnemonic("this is not a valid seed phrase at all", "")
	require.ErrorContains(t, err, "mnemonic")
}

func TestLoadKeygenFile(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestLoadBase58String(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	loaded, err := Load(key.String())
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestLoadFailure(t *testing.T) {
	_, err := Load("definitely not a key")
	require.ErrorContains(t, err, "could not load")
}

func TestKeystoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")

	ks, err := OpenKeystore(path)
	require.NoError(t, err)
	require.Empty(t, ks.Names())

	key := solana.NewWallet().PrivateKey
	require.NoError(t, ks.Store("ops", key, "hunter2hunter2"))

	// Reopen from disk.
	ks, err = OpenKeystore(path)
	require.NoError(t, err)
	require.Equal(t, []string{"ops"}, ks.Names())

	loaded, err := ks.Fetch("ops", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestKeystoreWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	ks, err := OpenKeystore(path)
	require.NoError(t, err)

	require.NoError(t, ks.Store("ops", solana.NewWallet().PrivateKey, "correct"))

	_, err = ks.Fetch("ops", "wrong")
	require.ErrorContains(t, err, "decrypt")

	_, err = ks.Fetch("missing", "correct")
	require.ErrorContains(t, err, "not found")
}

func TestKeystoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	ks, err := OpenKeystore(path)
	require.NoError(t, err)

	require.NoError(t, ks.Store("ops", solana.NewWallet().PrivateKey, "pw-ops-1"))
	require.NoError(t, ks.Delete("ops"))
	require.Empty(t, ks.Names())
	require.Error(t, ks.Delete("ops"))
}

func TestEncryptDistinctNonces(t *testing.T) {
	a, err := encrypt([]byte("same plaintext"), "pw")
	require.NoError(t, err)
	b, err := encrypt([]byte("same plaintext"), "pw")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
