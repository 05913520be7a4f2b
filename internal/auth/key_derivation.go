package auth

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// DerivedKeyLength is the length of derived keys in bytes.
	DerivedKeyLength = 32

	purposeSessionJWT = "meuseventos-session-jwt-v1"
	purposeCSRF       = "meuseventos-csrf-v1"
	purposeFlashHash  = "meuseventos-flash-hash-v1"
	purposeFlashBlock = "meuseventos-flash-block-v1"
)

// ErrInvalidMasterSecret is returned when the master secret is invalid
var ErrInvalidMasterSecret = errors.New("master secret cannot be empty")

// DeriveKey derives a 32-byte key from masterSecret using HKDF-SHA256.
// Different purpose strings yield independent keys.
func DeriveKey(masterSecret []byte, purpose string) ([]byte, error) {
	if len(masterSecret) == 0 {
		return nil, ErrInvalidMasterSecret
	}

	reader := hkdf.New(sha256.New, masterSecret, nil, []byte(purpose))
	derivedKey := make([]byte, DerivedKeyLength)
	if _, err := io.ReadFull(reader, derivedKey); err != nil {
		return nil, err
	}
	return derivedKey, nil
}

// Keys holds every secret the web tier needs, all derived from SESSION_SECRET.
type Keys struct {
	SessionJWT []byte
	CSRF       []byte
	FlashHash  []byte
	FlashBlock []byte
}

// DeriveKeys derives the full key set from one master secret.
func DeriveKeys(masterSecret []byte) (Keys, error) {
	var keys Keys
	targets := []struct {
		purpose string
		dst     *[]byte
	}{
		{purposeSessionJWT, &keys.SessionJWT},
		{purposeCSRF, &keys.CSRF},
		{purposeFlashHash, &keys.FlashHash},
		{purposeFlashBlock, &keys.FlashBlock},
	}
	for _, target := range targets {
		key, err := DeriveKey(masterSecret, target.purpose)
		if err != nil {
			return Keys{}, err
		}
		*target.dst = key
	}
	return keys, nil
}
