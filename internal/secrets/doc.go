// Package secrets provides the cryptographic engine for Nova.
//
// A single global password protects every stored secret across every
// project. The Engine turns that password into an AES-256-GCM key and seals
// or opens secret content as it crosses the store boundary.
//
// # Schemes
//
// Two ciphertext formats are supported:
//
//   - legacy: the key is the password repeated end to end and truncated to
//     32 bytes, and every encryption uses the same configured 12 byte nonce.
//     Output is standard base64 of ciphertext||tag. This matches records
//     written by earlier versions of the tool.
//   - sealed: the key is derived with scrypt from the password and a random
//     16 byte salt, and every encryption draws a fresh random nonce. Output is
//     "nova1$" followed by base64 of header||salt||nonce||ciphertext||tag,
//     where the 3 byte header records the scrypt cost parameters.
//
// New encryptions use the configured scheme (sealed by default). Decrypt
// detects the format from the prefix, so a store can hold both.
//
// # Password Validation
//
// Validate decrypts a reference ciphertext (the password encrypted under
// itself, provisioned with `nova config init`) and checks the result equals
// the candidate password. This confirms the password without touching any
// stored secret.
//
// # Security Considerations
//
// The legacy scheme reuses one nonce under one key, which voids GCM's
// guarantees as soon as two different plaintexts are stored. Keep it for
// reading old records; write new ones sealed.
//
// Derived key buffers are wiped after use with Wipe.
package secrets
