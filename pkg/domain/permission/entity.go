// Package permission provides the Permission entity: an opaque named
// capability identifier consulted by external policy-enforcement logic. Its
// role memberships are visible only from the Role side.
package permission

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxNameLength is the schema limit for permission names.
const MaxNameLength = 512

// Permission represents a permission entity.
type Permission struct {
	id          int64
	uuid        uuid.UUID
	name        string
	summary     string
	description string
	created     time.Time
	updated     time.Time
}

// New creates a new permission with a freshly generated public identifier.
func New(name, summary, description string) *Permission {
	now := time.Now().UTC()
	return &Permission{
		uuid:        uuid.New(),
		name:        name,
		summary:     summary,
		description: description,
		created:     now,
		updated:     now,
	}
}

// Reconstruct creates a permission from persistence data.
func Reconstruct(id int64, uid uuid.UUID, name, summary, description string, created, updated time.Time) *Permission {
	return &Permission{
		id:          id,
		uuid:        uid,
		name:        name,
		summary:     summary,
		description: description,
		created:     created,
		updated:     updated,
	}
}

// ID returns the internal surrogate key.
func (p *Permission) ID() int64 { return p.id }

// UUID returns the public identifier.
func (p *Permission) UUID() uuid.UUID { return p.uuid }

// Name returns the unique permission name.
func (p *Permission) Name() string { return p.name }

// Summary returns the short description.
func (p *Permission) Summary() string { return p.summary }

// Description returns the long description.
func (p *Permission) Description() string { return p.description }

// Created returns when the permission was created (UTC).
func (p *Permission) Created() time.Time { return p.created }

// Updated returns when a mutable field was last written (UTC).
func (p *Permission) Updated() time.Time { return p.updated }

// SetID records the surrogate key assigned by the storage layer.
func (p *Permission) SetID(id int64) { p.id = id }

// Domain errors.
var (
	ErrNotFound   = errors.New("permission not found")
	ErrNameExists = errors.New("permission with this name already exists")
)
