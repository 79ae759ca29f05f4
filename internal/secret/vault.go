// Package secret keeps a quote-provider API key on disk sealed under a
// passphrase, separate from the planner data.
package secret

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// PassphraseEnv names the environment variable the CLI reads the passphrase
// from.
const PassphraseEnv = "WTP_PASSPHRASE"

const (
	keyBytes     = chacha20poly1305.KeySize
	saltBytes    = 16
	sealVersion  = 1
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	ErrNoSecret        = errors.New("no API key stored")
	ErrWrongPassphrase = errors.New("wrong passphrase or damaged key file")
	ErrEmptyPassphrase = errors.New("passphrase is required")
)

type envelope struct {
	Version    int    `json:"v"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ct"`
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyBytes)
}

// Seal encrypts plaintext under passphrase.
func Seal(passphrase string, plaintext []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, salt)
	defer zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, plaintext, salt)
	return json.Marshal(envelope{Version: sealVersion, Salt: salt, Nonce: nonce, Ciphertext: ct})
}

// Open decrypts a blob produced by Seal.
func Open(passphrase string, blob []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}
	if env.Version != sealVersion || len(env.Salt) != saltBytes || len(env.Nonce) != chacha20poly1305.NonceSize {
		return nil, ErrWrongPassphrase
	}
	key := deriveKey(passphrase, env.Salt)
	defer zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, env.Nonce, env.Ciphertext, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Vault stores one sealed API key in a file.
type Vault struct {
	path string
	mu   sync.Mutex
}

// NewVault returns a vault backed by path.
func NewVault(path string) *Vault { return &Vault{path: path} }

// Path returns the file the vault writes.
func (v *Vault) Path() string { return v.path }

// Store seals and writes apiKey, replacing any previous key.
func (v *Vault) Store(passphrase, apiKey string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	blob, err := Seal(passphrase, []byte(apiKey))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(v.path, blob, 0o600)
}

// Load returns the stored key. ErrNoSecret means nothing has been stored.
func (v *Vault) Load(passphrase string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	blob, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSecret
		}
		return "", err
	}
	pt, err := Open(passphrase, blob)
	if err != nil {
		return "", err
	}
	defer zero(pt)
	return string(pt), nil
}

// Exists reports whether a key file is present.
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Clear deletes the stored key.
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.Remove(v.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
