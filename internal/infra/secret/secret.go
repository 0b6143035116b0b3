package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	_keyInfo       = "vehicle-dashboard/keystore/v1"
	_formatVersion = byte(1)
)

var (
	ErrEmptyPassphrase    = errors.New("empty passphrase")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrUnknownFormat      = errors.New("unknown sealed format")
)

// Sealer protects small blobs at rest. The associated data binds a blob to
// its owner so it cannot be moved to another record.
type Sealer interface {
	Seal(plaintext, associatedData []byte) ([]byte, error)
	Open(sealed, associatedData []byte) ([]byte, error)
}

var (
	_ Sealer = (*XChaChaSealer)(nil)
	_ Sealer = Plaintext{}
)

// XChaChaSealer seals with XChaCha20-Poly1305 under a key derived from a
// passphrase with HKDF-SHA256. Output is version || nonce || ciphertext.
type XChaChaSealer struct {
	key []byte
}

func NewXChaChaSealer(passphrase string, salt []byte) (*XChaChaSealer, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	h := hkdf.New(sha256.New, []byte(passphrase), salt, []byte(_keyInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	return &XChaChaSealer{key: key}, nil
}

func (s *XChaChaSealer) Seal(plaintext, associatedData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("reading nonce: %w", err)
	}

	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, _formatVersion)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, associatedData), nil
}

func (s *XChaChaSealer) Open(sealed, associatedData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < 1+aead.NonceSize()+aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	if sealed[0] != _formatVersion {
		return nil, ErrUnknownFormat
	}

	nonce := sealed[1 : 1+aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, sealed[1+aead.NonceSize():], associatedData)
	if err != nil {
		return nil, fmt.Errorf("opening sealed blob: %w", err)
	}
	return plaintext, nil
}

// Plaintext stores blobs as given.
type Plaintext struct{}

func (Plaintext) Seal(plaintext, _ []byte) ([]byte, error) { return plaintext, nil }

func (Plaintext) Open(sealed, _ []byte) ([]byte, error) { return sealed, nil }
