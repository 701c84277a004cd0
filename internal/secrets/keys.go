package secrets

import (
	"fmt"
	"runtime"
	"strings"

	nerrors "github.com/PolarWolf314/nova/internal/errors"

	"golang.org/x/crypto/scrypt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// Default scrypt cost parameters for the sealed scheme.
const (
	DefaultScryptN = 1 << 15
	DefaultScryptR = 8
	DefaultScryptP = 1
)

// LegacyKey stretches a password into a 32 byte key by repeating it end to end
// and truncating. This is not a KDF; it exists so records written by earlier
// versions of the tool stay readable.
func LegacyKey(password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("empty password: %w", nerrors.ErrAuthenticationFailure)
	}
	repeats := KeySize/len(password) + 1
	return []byte(strings.Repeat(password, repeats)[:KeySize]), nil
}

// SealedKey derives a 32 byte key from a password and salt with scrypt.
func SealedKey(password string, salt []byte, n, r, p int) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("empty password: %w", nerrors.ErrAuthenticationFailure)
	}
	key, err := scrypt.Key([]byte(password), salt, n, r, p, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Wipe zeroes the provided buffer. This is best-effort and aims to
// reduce the chance of the compiler eliding the write.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
