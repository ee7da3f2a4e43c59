// Package secret seals small values with an age passphrase (scrypt recipient).
package secret

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// header is the first line of every binary age file.
var header = []byte("age-encryption.org/v1\n")

// ErrLocked is returned by Open when a sealed value is read without a
// passphrase.
var ErrLocked = errors.New("value is sealed and no passphrase is configured")

// Sealer encrypts and decrypts values with one passphrase. The zero value
// (empty passphrase) passes values through unchanged.
type Sealer struct {
	passphrase string
	// workFactor is the scrypt log2(N). 0 keeps the age default.
	workFactor int
}

func NewSealer(passphrase string, workFactor int) *Sealer {
	return &Sealer{passphrase: passphrase, workFactor: workFactor}
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.passphrase != ""
}

// IsSealed reports whether data carries an age header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, header)
}

// Seal encrypts plaintext. With no passphrase it returns plaintext as is.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if !s.Enabled() {
		return plaintext, nil
	}

	recipient, err := age.NewScryptRecipient(s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Open decrypts data sealed by Seal. Unsealed data is returned unchanged, so
// values written before a passphrase was configured still load.
func (s *Sealer) Open(data []byte) ([]byte, error) {
	if !IsSealed(data) {
		return data, nil
	}
	if !s.Enabled() {
		return nil, ErrLocked
	}

	identity, err := age.NewScryptIdentity(s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting value: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted value: %w", err)
	}
	return out, nil
}
