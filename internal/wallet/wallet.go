// Package wallet loads Solana signing keys from the formats the CLI
// accepts: solana-keygen JSON files, base58-encoded private keys, and
// BIP39 mnemonics. It also provides a password-protected keystore.
package wallet

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"
)

// Load resolves a key source string into a private key. A path to an
// existing file is read as a solana-keygen JSON array; otherwise the
// string is tried as a base58 private key, then as a mnemonic.
func Load(source string) (solana.PrivateKey, error) {
	if key, err := solana.PrivateKeyFromSolanaKeygenFile(source); err == nil {
		return key, nil
	}
	if key, err := FromBase58(source); err == nil {
		return key, nil
	}
	if key, err := FromMnemonic(source, ""); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("could not load a key from %q", shorten(source))
}

// FromBase58 decodes a base58 private key string.
func FromBase58(encoded string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("invalid base58 key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("key is %d bytes, want %d", len(raw), ed25519.PrivateKeySize)
	}
	return solana.PrivateKey(raw), nil
}

// FromMnemonic derives a key from a BIP39 mnemonic. The first 32 bytes
// of the BIP39 seed become the ed25519 seed.
func FromMnemonic(mnemonic, passphrase string) (solana.PrivateKey, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	key := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	return solana.PrivateKey(key), nil
}

// NewMnemonic generates a fresh 24-word mnemonic and its derived key.
func NewMnemonic() (string, solana.PrivateKey, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", nil, err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, err
	}
	key, err := FromMnemonic(mnemonic, "")
	if err != nil {
		return "", nil, err
	}
	return mnemonic, key, nil
}

func shorten(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "..." + s[len(s)-3:]
}
