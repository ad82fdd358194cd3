package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/domain/permission"
	"github.com/openauthz/api/pkg/logger"
)

// PermissionService handles permission-related business operations.
// Permissions are created and read; they go away only when a role deletion
// drops their association rows.
type PermissionService struct {
	permissionRepo permission.Repository
	logger         *logger.Logger
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(permissionRepo permission.Repository, log *logger.Logger) *PermissionService {
	return &PermissionService{
		permissionRepo: permissionRepo,
		logger:         log.With("service", "permission"),
	}
}

// CreatePermissionInput represents the input for creating a permission.
type CreatePermissionInput struct {
	Name        string `json:"name" validate:"required,max=512,entity_name"`
	Summary     string `json:"summary" validate:"max=1024"`
	Description string `json:"description"`
}

// CreatePermission creates a new permission.
func (s *PermissionService) CreatePermission(ctx context.Context, input CreatePermissionInput) (*permission.Permission, error) {
	_, err := s.permissionRepo.GetByName(ctx, input.Name)
	if err == nil {
		return nil, permission.ErrNameExists
	}
	if !errors.Is(err, permission.ErrNotFound) {
		return nil, fmt.Errorf("check permission name: %w", err)
	}

	p := permission.New(input.Name, input.Summary, input.Description)
	if err := s.permissionRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("permission created", "id", p.UUID().String(), "name", p.Name())
	return p, nil
}

// GetPermission retrieves a permission by its public identifier.
func (s *PermissionService) GetPermission(ctx context.Context, id uuid.UUID) (*permission.Permission, error) {
	return s.permissionRepo.GetByUUID(ctx, id)
}
