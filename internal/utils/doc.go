// Package utils provides shared helpers for the nova command line.
//
// # Terminal
//
// TerminalPrompter reads the vault password without echo, from stdin when it
// is a terminal, otherwise from /dev/tty. Piped stdin supplies the password
// as its first line, which keeps scripted use possible.
//
// # Filesystem
//
//   - WriteFileWithParents: writes a file, creating parent directories
//   - FileMatches: compares a file on disk against expected content
//
// # System
//
//   - GetUsername, GetHostname: identify the caller in audit entries
package utils
