package session

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// Sealer encrypts identity payloads before they land in the durable tier.
// An unsealable value follows the same lenient path as an unparsable one.
type Sealer struct {
	key [32]byte
}

// NewSealer takes a 64-character hex key. An empty key returns nil (sealing
// disabled).
func NewSealer(hexKey string) (*Sealer, error) {
	if hexKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("sealing key is not hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, errors.New("sealing key must decode to 32 bytes")
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

func (s *Sealer) Seal(plain []byte) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Sealer) Open(value string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("sealed value is not base64: %w", err)
	}
	if len(raw) < 24 {
		return nil, errors.New("sealed value too short")
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		return nil, errors.New("sealed value failed to open")
	}
	return plain, nil
}
