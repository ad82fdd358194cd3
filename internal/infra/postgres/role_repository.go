package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/pagination"
)

// RoleRepository implements role.Repository using PostgreSQL.
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create persists a new role. The unique index on name is the authoritative
// duplicate check; a violation maps to role.ErrNameExists regardless of any
// earlier lookup.
func (r *RoleRepository) Create(ctx context.Context, rl *role.Role) error {
	query := `
		INSERT INTO roles (uuid, name, summary, description, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rl.UUID(),
		rl.Name(),
		nullString(rl.Summary()),
		nullString(rl.Description()),
		rl.Created(),
		rl.Updated(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return role.ErrNameExists
		}
		return fmt.Errorf("insert role: %w", err)
	}

	rl.SetID(id)
	return nil
}

// GetByUUID retrieves a role by its public identifier.
func (r *RoleRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*role.Role, error) {
	query := `
		SELECT id, uuid, name, summary, description, created, updated
		FROM roles
		WHERE uuid = $1
	`
	return r.scanRole(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a role by its unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*role.Role, error) {
	query := `
		SELECT id, uuid, name, summary, description, created, updated
		FROM roles
		WHERE name = $1
	`
	return r.scanRole(r.db.QueryRowContext(ctx, query, name))
}

// Update persists the mutable fields and the updated timestamp.
func (r *RoleRepository) Update(ctx context.Context, rl *role.Role) error {
	query := `
		UPDATE roles
		SET summary = $1, description = $2, updated = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		nullString(rl.Summary()),
		nullString(rl.Description()),
		rl.Updated(),
		rl.ID(),
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if rows == 0 {
		return role.ErrNotFound
	}

	return nil
}

// Delete removes the role row together with its permission and user
// association rows. All three deletes run in one transaction so a concurrent
// reader never observes a dangling association.
func (r *RoleRepository) Delete(ctx context.Context, rl *role.Role) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM role_permissions WHERE role_id = $1`, rl.ID()); err != nil {
			return fmt.Errorf("delete role permissions: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_roles WHERE role_id = $1`, rl.ID()); err != nil {
			return fmt.Errorf("delete user roles: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, rl.ID())
		if err != nil {
			return fmt.Errorf("delete role: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		if rows == 0 {
			return role.ErrNotFound
		}

		return nil
	})
}

// Count returns the total number of roles.
func (r *RoleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return count, nil
}

// List returns the roles inside the validated query window. The ORDER BY
// clause comes from the pagination sorter, which only ever emits allow-listed
// column names.
func (r *RoleRepository) List(ctx context.Context, window pagination.Window) ([]*role.Role, error) {
	query := fmt.Sprintf(`
		SELECT id, uuid, name, summary, description, created, updated
		FROM roles
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, window.OrderBy)

	rows, err := r.db.QueryContext(ctx, query, window.Limit, window.Offset)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []*role.Role
	for rows.Next() {
		rl, err := r.scanRoleRows(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, rl)
	}
	return roles, rows.Err()
}

// AddPermission inserts a (role, permission) association row.
func (r *RoleRepository) AddPermission(ctx context.Context, roleID, permissionID int64) error {
	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("add role permission: %w", err)
	}
	return nil
}

// RemovePermission deletes a (role, permission) association row.
func (r *RoleRepository) RemovePermission(ctx context.Context, roleID, permissionID int64) error {
	query := `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`
	if _, err := r.db.ExecContext(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("remove role permission: %w", err)
	}
	return nil
}

// ListPermissionIDs returns the permission surrogate keys associated with
// the role.
func (r *RoleRepository) ListPermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	query := `SELECT permission_id FROM role_permissions WHERE role_id = $1 ORDER BY permission_id`

	rows, err := r.db.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RoleRepository) scanRole(row *sql.Row) (*role.Role, error) {
	var (
		id                   int64
		uid                  uuid.UUID
		name                 string
		summary, description sql.NullString
		created, updated     sql.NullTime
	)

	err := row.Scan(&id, &uid, &name, &summary, &description, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, role.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan role: %w", err)
	}

	return role.Reconstruct(id, uid, name,
		nullStringValue(summary), nullStringValue(description),
		created.Time.UTC(), updated.Time.UTC()), nil
}

func (r *RoleRepository) scanRoleRows(rows *sql.Rows) (*role.Role, error) {
	var (
		id                   int64
		uid                  uuid.UUID
		name                 string
		summary, description sql.NullString
		created, updated     sql.NullTime
	)

	if err := rows.Scan(&id, &uid, &name, &summary, &description, &created, &updated); err != nil {
		return nil, fmt.Errorf("scan role: %w", err)
	}

	return role.Reconstruct(id, uid, name,
		nullStringValue(summary), nullStringValue(description),
		created.Time.UTC(), updated.Time.UTC()), nil
}
