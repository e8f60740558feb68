// Package models defines the persisted vault data types: secret records,
// categories and the master credential.
package models

import "time"

// Category is a named, optionally nested grouping label. ParentID is nil for
// root categories. The hierarchy lives entirely in the parent pointers; the
// nested tree is rebuilt on demand with BuildCategoryTree.
type Category struct {
	ID        string
	Name      string
	ParentID  *string
	CreatedAt time.Time
}

// CategoryNode is a category with its resolved children, as returned by
// BuildCategoryTree.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// Record is one stored credential entry. Secret always holds ciphertext;
// plaintext exists only in memory on the way through the session cipher.
type Record struct {
	ID         string
	Title      string
	Username   string
	Secret     []byte
	Website    string
	Notes      string
	CategoryID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlaintextRecord is a record whose secret has been decrypted for the
// caller. It is never persisted.
type PlaintextRecord struct {
	ID         string
	Title      string
	Username   string
	Secret     string
	Website    string
	Notes      string
	CategoryID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MasterCredential is the stored master-password verification tuple. The
// hash authenticates login attempts only; the encryption key is derived from
// a separate salt and never from this hash.
type MasterCredential struct {
	Salt       []byte
	Iterations int
	Hash       []byte
}
