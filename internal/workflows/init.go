package workflows

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/PolarWolf314/nova/internal/configs"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/secrets"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// SettingsPath is the settings file to update.
	SettingsPath string

	// DatabaseURL is stored when non-empty.
	DatabaseURL string

	// Scheme selects the format for new writes. Empty keeps the current setting.
	Scheme secrets.Scheme

	// Force replaces an existing reference ciphertext.
	Force bool

	Prompter Prompter
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	SettingsPath string
	Scheme       secrets.Scheme

	// GeneratedNonce is set when a legacy nonce had to be created.
	GeneratedNonce bool
}

// nonceAlphabet keeps generated nonces printable so they survive TOML and shell variables.
const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Init sets the vault password by storing the password encrypted under
// itself as the reference ciphertext in the settings file.
//
// Changing the password does not re-encrypt stored secrets, so Force is required
// to replace an existing reference.
//
// Returns ErrVaultAlreadyInitialized if a reference exists and Force is not set.
// Returns ErrPasswordMismatch if the confirmation differs.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	settings, err := configs.LoadSettingsFile(opts.SettingsPath)
	if err != nil {
		return nil, err
	}
	// Environment overrides still apply at runtime, so the reference must be
	// produced with the effective nonce.
	effective, err := configs.LoadSettings(opts.SettingsPath)
	if err != nil {
		return nil, err
	}
	if effective.Vault.ReferenceCiphertext != "" && !opts.Force {
		return nil, nerrors.ErrVaultAlreadyInitialized
	}

	if opts.DatabaseURL != "" {
		settings.Database.URL = opts.DatabaseURL
	}
	if opts.Scheme != "" {
		settings.Vault.Scheme = string(opts.Scheme)
		effective.Vault.Scheme = string(opts.Scheme)
	}

	result := &InitResult{SettingsPath: opts.SettingsPath, Scheme: secrets.Scheme(effective.Vault.Scheme)}
	if result.Scheme == secrets.SchemeLegacy && effective.Vault.Nonce == "" {
		nonce, err := generateNonce()
		if err != nil {
			return nil, err
		}
		settings.Vault.Nonce = nonce
		effective.Vault.Nonce = nonce
		result.GeneratedNonce = true
	}

	engine, err := secrets.NewEngine(effective.EngineConfig())
	if err != nil {
		return nil, err
	}

	password, err := opts.Prompter.ReadPassword("New password: ")
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if password == "" {
		return nil, nerrors.ErrEmptyPassword
	}
	confirm, err := opts.Prompter.ReadPassword("Confirm password: ")
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if confirm != password {
		return nil, nerrors.ErrPasswordMismatch
	}

	reference, err := engine.Encrypt([]byte(password), password)
	if err != nil {
		return nil, fmt.Errorf("encrypting reference: %w", err)
	}
	settings.Vault.ReferenceCiphertext = reference

	if err := configs.SaveSettings(opts.SettingsPath, settings); err != nil {
		return nil, err
	}

	return result, nil
}

func generateNonce() (string, error) {
	buf := make([]byte, secrets.NonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	for i, b := range buf {
		buf[i] = nonceAlphabet[int(b)%len(nonceAlphabet)]
	}
	return string(buf), nil
}
