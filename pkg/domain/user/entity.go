// Package user provides the User reference entity. Users are created and
// authenticated by an external AuthN service; this system stores only the
// external identifier so role assignments can reference it.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents a stored user reference.
type User struct {
	id      int64
	uuid    uuid.UUID
	created time.Time
}

// New records a reference to an externally assigned user identifier. The
// identifier is never generated here.
func New(uid uuid.UUID) *User {
	return &User{
		uuid:    uid,
		created: time.Now().UTC(),
	}
}

// Reconstruct creates a user from persistence data.
func Reconstruct(id int64, uid uuid.UUID, created time.Time) *User {
	return &User{
		id:      id,
		uuid:    uid,
		created: created,
	}
}

// ID returns the internal surrogate key.
func (u *User) ID() int64 { return u.id }

// UUID returns the externally assigned identifier.
func (u *User) UUID() uuid.UUID { return u.uuid }

// Created returns when the reference was stored (UTC).
func (u *User) Created() time.Time { return u.created }

// SetID records the surrogate key assigned by the storage layer.
func (u *User) SetID(id int64) { u.id = id }

// Domain errors.
var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user with this identifier already exists")
)
