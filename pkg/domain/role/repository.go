package role

import (
	"context"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/pagination"
)

// Sorter describes the orderable surface of the role collection. The
// allow-list mirrors the list endpoint contract; id doubles as the stable
// tie-breaker so equal primary sort values keep a deterministic order.
var Sorter = pagination.Sorter{
	Allowed:  []string{"id", "created", "name"},
	Default:  "id",
	TieBreak: "id",
}

// Repository defines the interface for role persistence operations.
//
// Associations are explicit join rows; no implicit bidirectional sync is
// assumed from the storage layer.
type Repository interface {
	// Create persists a new role and records the assigned surrogate key on
	// it. A duplicate name surfaces as ErrNameExists even when the
	// fast-path lookup missed a concurrent insert.
	Create(ctx context.Context, r *Role) error

	// GetByUUID retrieves a role by its public identifier.
	// Returns ErrNotFound if the identifier does not resolve.
	GetByUUID(ctx context.Context, id uuid.UUID) (*Role, error)

	// GetByName retrieves a role by its unique name.
	// Returns ErrNotFound if no role carries the name.
	GetByName(ctx context.Context, name string) (*Role, error)

	// Update persists the mutable fields and the updated timestamp.
	Update(ctx context.Context, r *Role) error

	// Delete removes the role row together with all of its permission and
	// user association rows, as a single transaction.
	Delete(ctx context.Context, r *Role) error

	// Count returns the total number of roles.
	Count(ctx context.Context) (int64, error)

	// List returns the roles inside the validated query window.
	List(ctx context.Context, window pagination.Window) ([]*Role, error)

	// === Role-Permission association rows ===

	// AddPermission inserts a (role, permission) association row.
	// Inserting an existing row is a no-op.
	AddPermission(ctx context.Context, roleID, permissionID int64) error

	// RemovePermission deletes a (role, permission) association row.
	RemovePermission(ctx context.Context, roleID, permissionID int64) error

	// ListPermissionIDs returns the permission surrogate keys associated
	// with the role.
	ListPermissionIDs(ctx context.Context, roleID int64) ([]int64, error)
}
