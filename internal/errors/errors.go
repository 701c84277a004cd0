package errors

import "errors"

// Location errors indicate the command was run outside a project directory.
var (
	// ErrInvalidLocation indicates the working directory does not follow the projects layout.
	ErrInvalidLocation = errors.New("invalid project path")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrAuthenticationFailure indicates the password is wrong or the ciphertext was tampered with.
	ErrAuthenticationFailure = errors.New("incorrect key or corrupted data")

	// ErrDecode indicates stored ciphertext is not validly encoded.
	ErrDecode = errors.New("stored ciphertext is not validly encoded")

	// ErrMissingNonce indicates a legacy record was read without a configured nonce.
	ErrMissingNonce = errors.New("no nonce configured for legacy ciphertext")

	// ErrInvalidNonce indicates the configured nonce has the wrong length.
	ErrInvalidNonce = errors.New("nonce must be exactly 12 bytes")

	// ErrUnknownScheme indicates an unsupported encryption scheme was requested.
	ErrUnknownScheme = errors.New("unknown encryption scheme")
)

// Store errors indicate issues talking to the backing database.
var (
	// ErrStoreUnavailable indicates a connectivity or permission failure in the store.
	ErrStoreUnavailable = errors.New("secret store unavailable")

	// ErrUnsupportedDatabase indicates the database URL uses an unknown scheme.
	ErrUnsupportedDatabase = errors.New("unsupported database url")
)

// File errors indicate issues with local file access.
var (
	// ErrFilesystem indicates a local read or write failed.
	ErrFilesystem = errors.New("filesystem error")

	// ErrInvalidArchive indicates an export archive is malformed.
	ErrInvalidArchive = errors.New("invalid export archive")
)

// Usage errors indicate bad arguments supplied by the user.
var (
	// ErrEmptyPath indicates no path argument was given.
	ErrEmptyPath = errors.New("no path provided")

	// ErrPathOutsideProject indicates a path resolves outside the current project.
	ErrPathOutsideProject = errors.New("path is outside the project")

	// ErrNoShorthands indicates configs clone was called without shorthands.
	ErrNoShorthands = errors.New("no shorthands provided")

	// ErrInvalidShorthand indicates a config shorthand is empty or contains unsupported characters.
	ErrInvalidShorthand = errors.New("invalid config shorthand")
)

// Record errors indicate a requested record does not exist or already exists.
var (
	// ErrSecretNotFound indicates no secret is stored under the given path.
	ErrSecretNotFound = errors.New("no secret found stored with this path")

	// ErrConfigNotFound indicates no config snippet has the given shorthand.
	ErrConfigNotFound = errors.New("unknown config shorthand")

	// ErrShorthandExists indicates the config shorthand is already taken.
	ErrShorthandExists = errors.New("shorthand already exists")

	// ErrFilenameExists indicates a config with the same filename is already stored.
	ErrFilenameExists = errors.New("filename already exists")
)

// Configuration errors indicate missing or conflicting settings.
var (
	// ErrMissingSetting indicates a required setting is not configured.
	ErrMissingSetting = errors.New("required setting is not configured")

	// ErrVaultAlreadyInitialized indicates a reference ciphertext is already configured.
	ErrVaultAlreadyInitialized = errors.New("vault password has already been set up")

	// ErrEmptyPassword indicates an empty vault password was entered.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidDateFormat indicates a date filter is not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
