// Package errors provides typed error values for the Nova application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Location errors: the working directory is not inside a project (ErrInvalidLocation)
//   - Crypto errors: wrong password or damaged ciphertext (ErrAuthenticationFailure, ErrDecode)
//   - Store errors: the database cannot be reached or refused the request (ErrStoreUnavailable)
//   - File errors: a local file could not be read or written (ErrFilesystem)
//   - Usage errors: missing or invalid arguments (ErrEmptyPath, ErrPathOutsideProject)
//
// # Usage
//
// Return errors from internal packages:
//
//	if project == "" {
//	    return Identity{}, errors.ErrInvalidLocation
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Clone(ctx, vault, auth, opts)
//	if errors.Is(err, nerrors.ErrAuthenticationFailure) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s: %w", path, errors.ErrFilesystem)
package errors
