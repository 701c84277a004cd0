// Package audit records mutations of the secret vault.
//
// Successful set, remove and clone operations append one entry to a JSON
// Lines file in the user's nova config directory:
//
//	<UserConfigDir>/nova/audit.jsonl
//
// Each entry contains a UUID, a UTC timestamp with microseconds, the OS user
// and host, the operation, the project and the secret paths involved.
// Secret content never appears in the log.
//
// Audit logging is best-effort. If logging fails the operation still
// succeeds. ReadEntries skips malformed lines left by partial writes.
package audit
