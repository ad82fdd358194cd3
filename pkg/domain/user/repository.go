package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/domain/role"
)

// Repository defines the interface for user persistence operations.
// User-role associations are explicit join rows managed from this side;
// role deletion clears them from the role side.
type Repository interface {
	// Create stores a reference to an externally assigned user identifier
	// and records the surrogate key on it. A duplicate identifier surfaces
	// as ErrExists.
	Create(ctx context.Context, u *User) error

	// GetByUUID retrieves a user by its external identifier.
	// Returns ErrNotFound if the identifier does not resolve.
	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)

	// AssignRole inserts a (user, role) association row.
	// Inserting an existing row is a no-op.
	AssignRole(ctx context.Context, userID, roleID int64) error

	// RemoveRole deletes a (user, role) association row.
	RemoveRole(ctx context.Context, userID, roleID int64) error

	// ListRoles returns the roles currently assigned to the user.
	ListRoles(ctx context.Context, userID int64) ([]*role.Role, error)
}
