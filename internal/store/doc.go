// Package store persists secret records and config snippets.
//
// Two capability interfaces are defined here: SecretStore for the vault and
// ConfigStore for plain-text config snippets. Backend combines both with a
// Close method and is what Open returns.
//
// # Backends
//
// The backend is selected from the database URL scheme:
//
//	postgres://, postgresql://   lib/pq
//	mysql://                     go-sql-driver/mysql
//	sqlite://<path>, <path>      modernc.org/sqlite
//	mongodb://, mongodb+srv://   mongo-driver
//
// SQL backends share one implementation (SQLStore) parameterised by a
// dialect that supplies placeholders, DDL and the upsert statement.
//
// # Schema
//
//	secrets(project, path, content)    PRIMARY KEY (project, path)
//	configs(filename, shorthand, content)  filename PRIMARY KEY, shorthand UNIQUE
//
// Content in the secrets table is always ciphertext.
//
// # Atomicity
//
// Upsert is one conditional statement on every backend (ON CONFLICT,
// ON DUPLICATE KEY, or an upserting UpdateOne against a unique index), so
// concurrent set commands on the same new key cannot create duplicates.
//
// Transport failures are wrapped with ErrStoreUnavailable and never retried.
package store
