package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/domain/user"
)

// UserRepository implements user.Repository using PostgreSQL.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a reference to an externally assigned user identifier.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (uuid, created)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, u.UUID(), u.Created()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.SetID(id)
	return nil
}

// GetByUUID retrieves a user by its external identifier.
func (r *UserRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT id, uuid, created FROM users WHERE uuid = $1`

	var (
		uid     int64
		puid    uuid.UUID
		created sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&uid, &puid, &created)
	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return user.Reconstruct(uid, puid, created.Time.UTC()), nil
}

// AssignRole inserts a (user, role) association row.
func (r *UserRepository) AssignRole(ctx context.Context, userID, roleID int64) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RemoveRole deletes a (user, role) association row.
func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID int64) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

// ListRoles returns the roles currently assigned to the user.
func (r *UserRepository) ListRoles(ctx context.Context, userID int64) ([]*role.Role, error) {
	query := `
		SELECT r.id, r.uuid, r.name, r.summary, r.description, r.created, r.updated
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer rows.Close()

	var roles []*role.Role
	for rows.Next() {
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
		roles = append(roles, role.Reconstruct(id, uid, name,
			nullStringValue(summary), nullStringValue(description),
			created.Time.UTC(), updated.Time.UTC()))
	}
	return roles, rows.Err()
}
