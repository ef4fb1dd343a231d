package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
)

// Keystore is a JSON file mapping wallet names to hex-encoded AES-GCM
// ciphertexts of base58 private keys, each sealed with its own password.
type Keystore struct {
	path    string
	wallets map[string]string
}

// OpenKeystore loads the keystore at path, creating an empty one if the
// file does not exist yet.
func OpenKeystore(path string) (*Keystore, error) {
	ks := &Keystore{path: path, wallets: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ks, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	if err := json.Unmarshal(data, &ks.wallets); err != nil {
		return nil, fmt.Errorf("keystore %s is corrupt: %w", path, err)
	}
	return ks, nil
}

// Names lists the stored wallet names in order.
func (ks *Keystore) Names() []string {
	names := make([]string, 0, len(ks.wallets))
	for name := range ks.wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store encrypts the key under the password and persists the keystore.
func (ks *Keystore) Store(name string, key solana.PrivateKey, password string) error {
	encrypted, err := encrypt([]byte(key.String()), password)
	if err != nil {
		return err
	}
	ks.wallets[name] = encrypted
	return ks.save()
}

// Fetch decrypts the named wallet with the password.
func (ks *Keystore) Fetch(name string, password string) (solana.PrivateKey, error) {
	encrypted, ok := ks.wallets[name]
	if !ok {
		return nil, fmt.Errorf("wallet %q not found", name)
	}
	decrypted, err := decrypt(encrypted, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet %q: %w", name, err)
	}
	return FromBase58(string(decrypted))
}

// Delete removes the named wallet and persists the keystore.
func (ks *Keystore) Delete(name string) error {
	if _, ok := ks.wallets[name]; !ok {
		return fmt.Errorf("wallet %q not found", name)
	}
	delete(ks.wallets, name)
	return ks.save()
}

func (ks *Keystore) save() error {
	data, err := json.MarshalIndent(ks.wallets, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(ks.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(ks.path, data, 0o600)
}

func encrypt(plaintext []byte, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	block, err := aes.NewCipher([]byte(padKey(password)))
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func decrypt(encryptedData string, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	block, err := aes.NewCipher([]byte(padKey(password)))
	if err != nil {
		return nil, err
	}

	ciphertext, err := hex.DecodeString(encryptedData)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// padKey stretches or truncates the password to the AES-256 key size.
func padKey(password string) string {
	const keySize = 32
	for len(password) < keySize {
		password += password
	}
	return password[:keySize]
}
