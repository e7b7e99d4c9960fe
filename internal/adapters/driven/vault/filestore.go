package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.VaultStore = (*FileStore)(nil)

// Key derivation parameters. Changing any of these orphans every
// existing vault file, so treat them as part of the on-disk format.
const (
	keyIterations = 100_000
	keyLength     = 32
)

// keySalt is a fixed application salt. The threat model is secrets at
// rest on the user's own disk, not a server-side password database, so
// a per-file random salt buys nothing here.
var keySalt = []byte("tzij-vault-v1")

// envelope is the on-disk shape: a random nonce plus the GCM-sealed
// JSON credential map.
type envelope struct {
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

// FileStore encrypts the credential map with AES-256-GCM under a key
// derived from the master secret and writes it as a single JSON blob.
// A missing file reads as an empty vault; a blob that fails to
// authenticate surfaces domain.ErrDecryptionFailed and is left intact.
type FileStore struct {
	mu       sync.Mutex
	filePath string
	key      []byte
}

// NewFileStore derives the encryption key and prepares the store.
// The master secret must be non-empty; the directory is created on
// first save, not here.
func NewFileStore(dataDir, masterSecret string) (*FileStore, error) {
	if masterSecret == "" {
		return nil, domain.ErrMasterSecretRequired
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(home, ".tzij")
	}

	return &FileStore{
		filePath: filepath.Join(dataDir, "vault.enc"),
		key:      pbkdf2.Key([]byte(masterSecret), keySalt, keyIterations, keyLength, sha512.New),
	}, nil
}

// Path returns the vault file path.
func (s *FileStore) Path() string {
	return s.filePath
}

// Load reads and decrypts the credential map.
func (s *FileStore) Load(_ context.Context) (map[string]domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]domain.Credential), nil
		}
		return nil, fmt.Errorf("reading vault file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed vault file: %w", domain.ErrDecryptionFailed)
	}

	plaintext, err := s.open(env)
	if err != nil {
		return nil, err
	}

	creds := make(map[string]domain.Credential)
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", domain.ErrDecryptionFailed)
	}
	return creds, nil
}

// Save encrypts and atomically replaces the vault file. The write goes
// to a temp file in the same directory first so a crash mid-write never
// leaves a truncated vault.
func (s *FileStore) Save(_ context.Context, creds map[string]domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	env, err := s.seal(plaintext)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding vault envelope: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "vault-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp vault file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("restricting vault permissions: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing vault file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing vault file: %w", err)
	}

	if err := os.Rename(tmpName, s.filePath); err != nil {
		return fmt.Errorf("replacing vault file: %w", err)
	}
	return nil
}

func (s *FileStore) seal(plaintext []byte) (envelope, error) {
	gcm, err := s.gcm()
	if err != nil {
		return envelope{}, err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return envelope{}, fmt.Errorf("generating nonce: %w", err)
	}

	return envelope{
		IV:         iv,
		Ciphertext: gcm.Seal(nil, iv, plaintext, nil),
	}, nil
}

func (s *FileStore) open(env envelope) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	if len(env.IV) != gcm.NonceSize() {
		return nil, fmt.Errorf("bad nonce length: %w", domain.ErrDecryptionFailed)
	}

	// GCM authenticates, so a wrong master secret and a tampered blob
	// fail identically here.
	plaintext, err := gcm.Open(nil, env.IV, env.Ciphertext, nil)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func (s *FileStore) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
