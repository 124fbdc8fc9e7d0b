package journal

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// EncryptionNonceSize is the nonce size for AES-GCM
	EncryptionNonceSize = 12
	// EncryptionSaltSize is the salt size for key derivation
	EncryptionSaltSize = 32
	// EncryptionKeySize is the AES-256 key size
	EncryptionKeySize = 32
	// PBKDF2Iterations is the number of iterations for key derivation
	PBKDF2Iterations = 100000
)

const (
	sealVersion      = 1
	sealModeKey      = 0
	sealModePassword = 1
)

var sealMagic = []byte("JENC")

// ErrDecrypt is returned when sealed data cannot be authenticated.
var ErrDecrypt = errors.New("decryption failed")

// EncryptionConfig configures encryption at rest.
type EncryptionConfig struct {
	// Enabled turns on encryption for snapshots
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Key is the encryption key (must be 32 bytes for AES-256)
	// If empty, KeyPassword is used to derive a key
	Key []byte `yaml:"-" mapstructure:"-"`
	// KeyPassword is used to derive the encryption key via PBKDF2
	KeyPassword string `yaml:"key_password" mapstructure:"key_password"`
}

// Encryptor seals and opens snapshot payloads.
//
// Sealed data is laid out as "JENC" | version | mode | salt | nonce |
// ciphertext. In password mode every Seal draws a fresh salt, and Open
// derives the key from the stored one.
type Encryptor struct {
	key      []byte
	password string

	mu    sync.Mutex
	aeads map[string]cipher.AEAD // by salt
}

// NewEncryptor creates an encryptor from a key or password. It returns
// nil when encryption is disabled.
func NewEncryptor(cfg EncryptionConfig) (*Encryptor, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch {
	case len(cfg.Key) > 0:
		if len(cfg.Key) != EncryptionKeySize {
			return nil, errors.New("encryption key must be 32 bytes for AES-256")
		}
		return &Encryptor{key: append([]byte(nil), cfg.Key...), aeads: make(map[string]cipher.AEAD)}, nil
	case cfg.KeyPassword != "":
		return &Encryptor{password: cfg.KeyPassword, aeads: make(map[string]cipher.AEAD)}, nil
	}
	return nil, errors.New("encryption enabled but no key or password provided")
}

func (e *Encryptor) mode() byte {
	if e.key != nil {
		return sealModeKey
	}
	return sealModePassword
}

func (e *Encryptor) aead(salt []byte) (cipher.AEAD, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gcm, ok := e.aeads[string(salt)]; ok {
		return gcm, nil
	}
	key := e.key
	if key == nil {
		key = pbkdf2.Key([]byte(e.password), salt, PBKDF2Iterations, EncryptionKeySize, sha256.New)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	e.aeads[string(salt)] = gcm
	return gcm, nil
}

// Seal encrypts plaintext.
func (e *Encryptor) Seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, EncryptionSaltSize)
	if e.mode() == sealModePassword {
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
	}
	gcm, err := e.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, EncryptionNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, sealHeaderSize+len(plaintext)+gcm.Overhead())
	out = append(out, sealMagic...)
	out = append(out, sealVersion, e.mode())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, out[:len(sealMagic)+2]), nil
}

const sealHeaderSize = 4 + 2 + EncryptionSaltSize + EncryptionNonceSize

// IsSealed reports whether data starts with the sealed-data magic.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealMagic)
}

// Open decrypts data produced by Seal.
func (e *Encryptor) Open(data []byte) ([]byte, error) {
	if len(data) < sealHeaderSize || !IsSealed(data) {
		return nil, fmt.Errorf("%w: not sealed data", ErrDecrypt)
	}
	if v := data[4]; v != sealVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDecrypt, v)
	}
	if m := data[5]; m != e.mode() {
		return nil, fmt.Errorf("%w: sealed with a different key mode", ErrDecrypt)
	}
	salt := data[6 : 6+EncryptionSaltSize]
	nonce := data[6+EncryptionSaltSize : sealHeaderSize]

	gcm, err := e.aead(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, data[sealHeaderSize:], data[:6])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}
