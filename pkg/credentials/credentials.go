// Package credentials provides the station credential value type, its
// validation rules, WPA2 pre-shared key derivation, and durable storage of
// the cached station profile.
package credentials

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Credential limits.
const (
	// MaxSSIDLength is the maximum SSID length in bytes.
	MaxSSIDLength = 32

	// MinPassphraseLength is the minimum WPA passphrase length.
	MinPassphraseLength = 8

	// MaxPassphraseLength is the maximum WPA passphrase length.
	MaxPassphraseLength = 63

	// PSKHexLength is the length of a raw pre-shared key given as hex.
	PSKHexLength = 64

	// pskIterations and pskKeyLength are fixed by the WPA2 specification
	// (PBKDF2-HMAC-SHA1 with the SSID as salt).
	pskIterations = 4096
	pskKeyLength  = 32
)

// Credential errors.
var (
	ErrInvalidSSID       = errors.New("invalid SSID")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrOpenNetwork       = errors.New("open network has no pre-shared key")
)

// Credentials is an immutable station profile.
type Credentials struct {
	// SSID of the network (1-32 bytes).
	SSID string `json:"ssid"`

	// Passphrase is empty (open network), 8-63 bytes, or exactly 64 hex
	// characters (a raw pre-shared key).
	Passphrase string `json:"passphrase"`
}

// New validates and returns a credential value.
func New(ssid, passphrase string) (Credentials, error) {
	c := Credentials{SSID: ssid, Passphrase: passphrase}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Validate checks the SSID and passphrase against the WPA rules.
func (c Credentials) Validate() error {
	if len(c.SSID) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSSID)
	}
	if len(c.SSID) > MaxSSIDLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidSSID, len(c.SSID), MaxSSIDLength)
	}

	switch n := len(c.Passphrase); {
	case n == 0:
		// Open network.
	case n == PSKHexLength:
		if !isHex(c.Passphrase) {
			return fmt.Errorf("%w: 64-character passphrase must be hex", ErrInvalidPassphrase)
		}
	case n < MinPassphraseLength || n > MaxPassphraseLength:
		return fmt.Errorf("%w: length %d not in %d-%d", ErrInvalidPassphrase, n, MinPassphraseLength, MaxPassphraseLength)
	}
	return nil
}

// Open returns true if the credentials describe an open network.
func (c Credentials) Open() bool {
	return c.Passphrase == ""
}

// PSK derives the 256-bit WPA2 pre-shared key. A 64-hex-character
// passphrase is decoded directly; otherwise the key is derived with
// PBKDF2-HMAC-SHA1 over the passphrase with the SSID as salt.
func (c Credentials) PSK() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Open() {
		return nil, ErrOpenNetwork
	}
	if len(c.Passphrase) == PSKHexLength {
		return hex.DecodeString(c.Passphrase)
	}
	return pbkdf2.Key([]byte(c.Passphrase), []byte(c.SSID), pskIterations, pskKeyLength, sha1.New), nil
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
