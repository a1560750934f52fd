// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the sole entity in the system, representing one registered user.
// Email is the identity key: lookups, updates, deletes and logins all address
// an account by its normalized email.
type Account struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the account.
	Username     string    // The account's display name.
	Email        string    // Unique login identifier, stored trimmed and lower-cased.
	PasswordHash string    // bcrypt hash of the account's password. Never the plaintext.
	IsActive     bool      // Stored flag, defaults to true. No core operation transitions it.
	CreatedOn    time.Time // Timestamp of when this account was created. Immutable.
}

// AccountChanges describes the mutable fields an update may apply.
// Nil fields are left untouched. Email, PasswordHash and CreatedOn are
// deliberately absent: email is the identity key, password changes are a
// reset flow this service does not offer, and CreatedOn never changes.
type AccountChanges struct {
	Username *string
}
