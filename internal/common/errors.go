// Package common defines shared sentinel errors and small helpers used
// across vault components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrDuplicateName = errors.New("name already exists")
	ErrValidation    = errors.New("validation error")

	// Session state errors.
	ErrLocked = errors.New("vault is locked")
	ErrClosed = errors.New("vault is closed")

	// Crypto errors.
	ErrNotInitialized       = errors.New("encryption key not initialized")
	ErrWrongPassword        = errors.New("wrong master password")
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")

	// ErrCorruptPayload reports a stored secret that fails to decrypt under
	// the current key: either the database was written under a different
	// master password or the payload was tampered with. Distinct from
	// ErrWrongPassword so callers can tell "one record is unreadable" apart
	// from "login failed".
	ErrCorruptPayload = errors.New("cannot decrypt secret payload")
)
