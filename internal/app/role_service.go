// Package app contains the application services sitting between the HTTP
// handlers and the domain repositories.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openauthz/api/internal/metrics"
	"github.com/openauthz/api/pkg/domain/permission"
	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/logger"
	"github.com/openauthz/api/pkg/pagination"
)

// RoleSnapshot is the cacheable projection of a role.
type RoleSnapshot struct {
	ID          int64     `json:"id"`
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

func snapshotOf(r *role.Role) RoleSnapshot {
	return RoleSnapshot{
		ID:          r.ID(),
		UUID:        r.UUID(),
		Name:        r.Name(),
		Summary:     r.Summary(),
		Description: r.Description(),
		Created:     r.Created(),
		Updated:     r.Updated(),
	}
}

func (s RoleSnapshot) role() *role.Role {
	return role.Reconstruct(s.ID, s.UUID, s.Name, s.Summary, s.Description, s.Created, s.Updated)
}

// RoleCache caches role detail reads keyed by public identifier.
type RoleCache interface {
	Get(ctx context.Context, key string) (*RoleSnapshot, error)
	Set(ctx context.Context, key string, value RoleSnapshot) error
	Delete(ctx context.Context, key string) error
}

// RoleService handles role-related business operations.
type RoleService struct {
	roleRepo       role.Repository
	permissionRepo permission.Repository
	cache          RoleCache
	logger         *logger.Logger
}

// NewRoleService creates a new RoleService.
func NewRoleService(
	roleRepo role.Repository,
	permissionRepo permission.Repository,
	log *logger.Logger,
	opts ...RoleServiceOption,
) *RoleService {
	s := &RoleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		logger:         log.With("service", "role"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RoleServiceOption is a functional option for RoleService.
type RoleServiceOption func(*RoleService)

// WithRoleCache enables caching of role detail reads.
func WithRoleCache(cache RoleCache) RoleServiceOption {
	return func(s *RoleService) {
		s.cache = cache
	}
}

// ListRoles returns one validated page of the role collection plus the
// filter metadata describing it.
func (s *RoleService) ListRoles(ctx context.Context, req pagination.Request) ([]*role.Role, pagination.Filter, error) {
	window, filter, err := pagination.Paginate(ctx, req, role.Sorter, s.roleRepo.Count)
	if err != nil {
		return nil, pagination.Filter{}, err
	}

	roles, err := s.roleRepo.List(ctx, window)
	if err != nil {
		return nil, pagination.Filter{}, fmt.Errorf("list roles: %w", err)
	}

	metrics.RolesTotal.Set(float64(filter.Total))
	return roles, filter, nil
}

// CreateRoleInput represents the input for creating a role.
type CreateRoleInput struct {
	Name        string `json:"name" validate:"required,max=128,entity_name"`
	Summary     string `json:"summary" validate:"max=1024"`
	Description string `json:"description"`
}

// CreateRole creates a new role. The name lookup is a fast path; the unique
// index backs it up under concurrent creates.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*role.Role, error) {
	_, err := s.roleRepo.GetByName(ctx, input.Name)
	if err == nil {
		return nil, role.ErrNameExists
	}
	if !errors.Is(err, role.ErrNotFound) {
		return nil, fmt.Errorf("check role name: %w", err)
	}

	r := role.New(input.Name, input.Summary, input.Description)
	if err := s.roleRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("role created", "id", r.UUID().String(), "name", r.Name())
	return r, nil
}

// GetRole retrieves a role by its public identifier, consulting the cache
// when one is configured. Cache faults degrade to a repository read.
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID) (*role.Role, error) {
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, id.String())
		if err == nil {
			metrics.RoleCacheHitsTotal.Inc()
			return snap.role(), nil
		}
		metrics.RoleCacheMissesTotal.Inc()
	}

	r, err := s.roleRepo.GetByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id.String(), snapshotOf(r)); err != nil {
			s.logger.Warn("role cache set failed", "id", id.String(), "error", err)
		}
	}
	return r, nil
}

// UpdateRoleInput represents the partial update of a role. A non-nil field
// means the key was present in the request body.
type UpdateRoleInput struct {
	Summary     *string `json:"summary" validate:"omitempty,max=1024"`
	Description *string `json:"description"`
}

// UpdateRole applies the fields present in input. The updated timestamp
// advances whenever a recognized key is present, even when the value equals
// the stored one.
func (s *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*role.Role, error) {
	r, err := s.roleRepo.GetByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	touched := r.Apply(role.Update{
		Summary:     input.Summary,
		Description: input.Description,
	})
	if !touched {
		return r, nil
	}

	if err := s.roleRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("role updated", "id", id.String())
	return r, nil
}

// DeleteRole removes the role together with all of its permission and user
// association rows.
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	r, err := s.roleRepo.GetByUUID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.roleRepo.Delete(ctx, r); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("role deleted", "id", id.String(), "name", r.Name())
	return nil
}

// GrantPermission associates a permission with a role. Granting an already
// granted permission is a no-op.
func (s *RoleService) GrantPermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	r, err := s.roleRepo.GetByUUID(ctx, roleID)
	if err != nil {
		return err
	}

	p, err := s.permissionRepo.GetByUUID(ctx, permissionID)
	if err != nil {
		return err
	}

	if err := s.roleRepo.AddPermission(ctx, r.ID(), p.ID()); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}

	s.logger.Info("permission granted", "role", r.Name(), "permission", p.Name())
	return nil
}

// RevokePermission removes a permission from a role.
func (s *RoleService) RevokePermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	r, err := s.roleRepo.GetByUUID(ctx, roleID)
	if err != nil {
		return err
	}

	p, err := s.permissionRepo.GetByUUID(ctx, permissionID)
	if err != nil {
		return err
	}

	if err := s.roleRepo.RemovePermission(ctx, r.ID(), p.ID()); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}

	s.logger.Info("permission revoked", "role", r.Name(), "permission", p.Name())
	return nil
}

func (s *RoleService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id.String()); err != nil {
		s.logger.Warn("role cache invalidation failed", "id", id.String(), "error", err)
	}
}
