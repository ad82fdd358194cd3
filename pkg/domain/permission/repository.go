package permission

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for permission persistence operations.
// Permissions are never deleted through this API; their association rows go
// away only as a side effect of role deletion.
type Repository interface {
	// Create persists a new permission and records the assigned surrogate
	// key on it. A duplicate name surfaces as ErrNameExists.
	Create(ctx context.Context, p *Permission) error

	// GetByUUID retrieves a permission by its public identifier.
	// Returns ErrNotFound if the identifier does not resolve.
	GetByUUID(ctx context.Context, id uuid.UUID) (*Permission, error)

	// GetByName retrieves a permission by its unique name.
	// Returns ErrNotFound if no permission carries the name.
	GetByName(ctx context.Context, name string) (*Permission, error)
}
