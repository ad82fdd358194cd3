package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/domain/permission"
)

// PermissionRepository implements permission.Repository using PostgreSQL.
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new permission repository.
func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Create persists a new permission. A unique violation on name maps to
// permission.ErrNameExists.
func (r *PermissionRepository) Create(ctx context.Context, p *permission.Permission) error {
	query := `
		INSERT INTO permissions (uuid, name, summary, description, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.UUID(),
		p.Name(),
		nullString(p.Summary()),
		nullString(p.Description()),
		p.Created(),
		p.Updated(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return permission.ErrNameExists
		}
		return fmt.Errorf("insert permission: %w", err)
	}

	p.SetID(id)
	return nil
}

// GetByUUID retrieves a permission by its public identifier.
func (r *PermissionRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*permission.Permission, error) {
	query := `
		SELECT id, uuid, name, summary, description, created, updated
		FROM permissions
		WHERE uuid = $1
	`
	return r.scanPermission(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a permission by its unique name.
func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*permission.Permission, error) {
	query := `
		SELECT id, uuid, name, summary, description, created, updated
		FROM permissions
		WHERE name = $1
	`
	return r.scanPermission(r.db.QueryRowContext(ctx, query, name))
}

func (r *PermissionRepository) scanPermission(row *sql.Row) (*permission.Permission, error) {
	var (
		id                   int64
		uid                  uuid.UUID
		name                 string
		summary, description sql.NullString
		created, updated     sql.NullTime
	)

	err := row.Scan(&id, &uid, &name, &summary, &description, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, permission.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan permission: %w", err)
	}

	return permission.Reconstruct(id, uid, name,
		nullStringValue(summary), nullStringValue(description),
		created.Time.UTC(), updated.Time.UTC()), nil
}
