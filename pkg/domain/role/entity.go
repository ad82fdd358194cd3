// Package role provides the Role aggregate of the authorization data model.
// A role is a named bundle of permissions assignable to users; external
// policy-evaluation services consult the assignments maintained here.
package role

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attribute length limits enforced by the schema.
const (
	MaxNameLength    = 128
	MaxSummaryLength = 1024
)

// Role represents a role entity. The surrogate key stays internal; only the
// UUID crosses the API boundary.
type Role struct {
	id          int64
	uuid        uuid.UUID
	name        string
	summary     string
	description string
	created     time.Time
	updated     time.Time
}

// New creates a new role with a freshly generated public identifier.
func New(name, summary, description string) *Role {
	now := time.Now().UTC()
	return &Role{
		uuid:        uuid.New(),
		name:        name,
		summary:     summary,
		description: description,
		created:     now,
		updated:     now,
	}
}

// Reconstruct creates a role from persistence data.
func Reconstruct(id int64, uid uuid.UUID, name, summary, description string, created, updated time.Time) *Role {
	return &Role{
		id:          id,
		uuid:        uid,
		name:        name,
		summary:     summary,
		description: description,
		created:     created,
		updated:     updated,
	}
}

// ID returns the internal surrogate key. It is never exposed over the API.
func (r *Role) ID() int64 { return r.id }

// UUID returns the public identifier.
func (r *Role) UUID() uuid.UUID { return r.uuid }

// Name returns the unique role name.
func (r *Role) Name() string { return r.name }

// Summary returns the short description.
func (r *Role) Summary() string { return r.summary }

// Description returns the long description.
func (r *Role) Description() string { return r.description }

// Created returns when the role was created (UTC).
func (r *Role) Created() time.Time { return r.created }

// Updated returns when a mutable field was last written (UTC).
func (r *Role) Updated() time.Time { return r.updated }

// SetID records the surrogate key assigned by the storage layer.
func (r *Role) SetID(id int64) { r.id = id }

// Update is a partial update of the mutable fields. A non-nil pointer means
// the key was present in the request body.
type Update struct {
	Summary     *string
	Description *string
}

// Apply writes the fields present in u. The updated timestamp advances
// whenever a recognized key is present, even if the supplied value equals
// the stored one. Returns true if anything was written.
func (r *Role) Apply(u Update) bool {
	touched := false
	if u.Summary != nil {
		r.summary = *u.Summary
		touched = true
	}
	if u.Description != nil {
		r.description = *u.Description
		touched = true
	}
	if touched {
		r.updated = time.Now().UTC()
	}
	return touched
}

// Domain errors.
var (
	ErrNotFound   = errors.New("role not found")
	ErrNameExists = errors.New("role with this name already exists")
)
