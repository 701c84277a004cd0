package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"math/bits"
	"strings"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

// Scheme names the on-store ciphertext format used for new encryptions.
type Scheme string

const (
	// SchemeLegacy uses the repeat-and-truncate key and the fixed configured nonce.
	SchemeLegacy Scheme = "legacy"
	// SchemeSealed uses an scrypt key with a random salt and a random nonce per encryption.
	SchemeSealed Scheme = "sealed"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12

	headerSize   = 3 // log2(N), r, p
	saltSize     = 16
	tagSize      = 16
	sealedPrefix = "nova1$"

	// Cost ceilings for the sealed scheme. Headers are read before the tag is
	// checked, so decryption must not derive a key above these.
	maxLogN      = 20
	maxScryptR   = 32
	maxScryptP   = 16
	maxScryptMem = 1 << 30 // 128 * r * N * p bytes
)

// EngineConfig holds the values an Engine is constructed with.
type EngineConfig struct {
	// Nonce is the fixed nonce for the legacy scheme. Optional unless Scheme is legacy.
	Nonce []byte

	// ReferenceCiphertext is the password encrypted under itself, used by Validate.
	ReferenceCiphertext string

	// Scheme selects the format for new encryptions. Defaults to SchemeSealed.
	Scheme Scheme

	// Scrypt cost parameters for the sealed scheme. Zero values use the defaults.
	ScryptN int
	ScryptR int
	ScryptP int
}

// Engine encrypts and decrypts secret content under a password.
type Engine struct {
	nonce     []byte
	reference string
	scheme    Scheme
	n, r, p   int
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if len(cfg.Nonce) != 0 && len(cfg.Nonce) != NonceSize {
		return nil, fmt.Errorf("got %d bytes: %w", len(cfg.Nonce), nerrors.ErrInvalidNonce)
	}

	scheme := cfg.Scheme
	if scheme == "" {
		scheme = SchemeSealed
	}
	switch scheme {
	case SchemeSealed:
	case SchemeLegacy:
		if len(cfg.Nonce) == 0 {
			return nil, nerrors.ErrMissingNonce
		}
	default:
		return nil, fmt.Errorf("%q: %w", scheme, nerrors.ErrUnknownScheme)
	}

	e := &Engine{
		nonce:     append([]byte(nil), cfg.Nonce...),
		reference: strings.TrimSpace(cfg.ReferenceCiphertext),
		scheme:    scheme,
		n:         cfg.ScryptN,
		r:         cfg.ScryptR,
		p:         cfg.ScryptP,
	}
	if e.n == 0 {
		e.n = DefaultScryptN
	}
	if e.r == 0 {
		e.r = DefaultScryptR
	}
	if e.p == 0 {
		e.p = DefaultScryptP
	}
	if e.n < 2 || e.n&(e.n-1) != 0 {
		return nil, fmt.Errorf("scrypt N must be a power of two, got %d", e.n)
	}
	if err := checkScryptCost(bits.Len(uint(e.n))-1, e.r, e.p); err != nil {
		return nil, err
	}
	return e, nil
}

// checkScryptCost bounds the parameters of a sealed key derivation.
func checkScryptCost(logN, r, p int) error {
	switch {
	case logN < 1 || logN > maxLogN:
		return fmt.Errorf("scrypt N must be between 2 and 2^%d, got 2^%d", maxLogN, logN)
	case r < 1 || r > maxScryptR:
		return fmt.Errorf("scrypt r must be between 1 and %d, got %d", maxScryptR, r)
	case p < 1 || p > maxScryptP:
		return fmt.Errorf("scrypt p must be between 1 and %d, got %d", maxScryptP, p)
	case 128*r*p<<logN > maxScryptMem:
		return fmt.Errorf("scrypt cost 128*r*N*p exceeds %d bytes (N=2^%d r=%d p=%d)", maxScryptMem, logN, r, p)
	}
	return nil
}

// Scheme returns the scheme used for new encryptions.
func (e *Engine) Scheme() Scheme {
	return e.scheme
}

// Encrypt seals plaintext under password and returns the text-encoded ciphertext.
func (e *Engine) Encrypt(plaintext []byte, password string) (string, error) {
	if e.scheme == SchemeLegacy {
		return e.encryptLegacy(plaintext, password)
	}
	return e.encryptSealed(plaintext, password)
}

// Decrypt opens ciphertext produced by Encrypt in either scheme.
//
// Returns ErrDecode if the text is not valid encoded ciphertext and
// ErrAuthenticationFailure if the tag does not verify.
func (e *Engine) Decrypt(ciphertext string, password string) ([]byte, error) {
	ciphertext = strings.TrimSpace(ciphertext)
	if strings.HasPrefix(ciphertext, sealedPrefix) {
		return e.decryptSealed(strings.TrimPrefix(ciphertext, sealedPrefix), password)
	}
	return e.decryptLegacy(ciphertext, password)
}

// Validate reports whether password is the global password, by decrypting the
// reference ciphertext and comparing the result to password itself.
func (e *Engine) Validate(password string) bool {
	if e.reference == "" || password == "" {
		return false
	}
	plaintext, err := e.Decrypt(e.reference, password)
	if err != nil {
		return false
	}
	defer Wipe(plaintext)
	return subtle.ConstantTimeCompare(plaintext, []byte(password)) == 1
}

func (e *Engine) encryptLegacy(plaintext []byte, password string) (string, error) {
	if len(e.nonce) == 0 {
		return "", nerrors.ErrMissingNonce
	}
	key, err := LegacyKey(password)
	if err != nil {
		return "", err
	}
	defer Wipe(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	sealed := aead.Seal(nil, e.nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *Engine) decryptLegacy(ciphertext string, password string) ([]byte, error) {
	if len(e.nonce) == 0 {
		return nil, nerrors.ErrMissingNonce
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nerrors.ErrDecode, err)
	}
	if len(raw) < tagSize {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", nerrors.ErrDecode)
	}

	key, err := LegacyKey(password)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, e.nonce, raw, nil)
	if err != nil {
		return nil, nerrors.ErrAuthenticationFailure
	}
	return plaintext, nil
}

func (e *Engine) encryptSealed(plaintext []byte, password string) (string, error) {
	buf := make([]byte, headerSize+saltSize+NonceSize)
	buf[0] = byte(bits.Len(uint(e.n)) - 1)
	buf[1] = byte(e.r)
	buf[2] = byte(e.p)
	if _, err := io.ReadFull(rand.Reader, buf[headerSize:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	salt := buf[headerSize : headerSize+saltSize]
	nonce := buf[headerSize+saltSize:]

	key, err := SealedKey(password, salt, e.n, e.r, e.p)
	if err != nil {
		return "", err
	}
	defer Wipe(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	sealed := aead.Seal(buf, nonce, plaintext, nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// decryptSealed reads the cost parameters from the header, so records stay
// readable after the configured parameters change.
func (e *Engine) decryptSealed(encoded string, password string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nerrors.ErrDecode, err)
	}
	if len(raw) < headerSize+saltSize+NonceSize+tagSize {
		return nil, fmt.Errorf("%w: sealed ciphertext is truncated", nerrors.ErrDecode)
	}
	logN, r, p := int(raw[0]), int(raw[1]), int(raw[2])
	if err := checkScryptCost(logN, r, p); err != nil {
		return nil, fmt.Errorf("%w: invalid sealed header: %v", nerrors.ErrDecode, err)
	}
	salt := raw[headerSize : headerSize+saltSize]
	nonce := raw[headerSize+saltSize : headerSize+saltSize+NonceSize]
	body := raw[headerSize+saltSize+NonceSize:]

	key, err := SealedKey(password, salt, 1<<logN, r, p)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, nerrors.ErrAuthenticationFailure
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
