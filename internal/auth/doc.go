// Package auth provides identity and credential handling for Feedgate.
//
// Both transports (HTTP and MQTT) authenticate the same way: a signed
// bearer token is verified into an Identity carrying the caller's user
// ID and admin flag. Everything downstream of the front-ends reasons
// about Identity only, never about raw tokens.
//
// The package covers:
//
//   - Token verification (Verifier) and issuance (GenerateToken)
//   - Account activation tokens, separate from session tokens
//   - Argon2id password hashing in PHC string format
//   - The user account repository backed by PostgreSQL
package auth
