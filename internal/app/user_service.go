package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/domain/user"
	"github.com/openauthz/api/pkg/logger"
)

// UserService handles user-role assignment operations. Users themselves are
// owned by an external AuthN service; only their identifiers are stored here.
type UserService struct {
	userRepo user.Repository
	roleRepo role.Repository
	logger   *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo user.Repository, roleRepo role.Repository, log *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   log.With("service", "user"),
	}
}

// RegisterUser stores a reference to an externally assigned user identifier.
// Registering an already known identifier returns the stored reference.
func (s *UserService) RegisterUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u := user.New(id)
	err := s.userRepo.Create(ctx, u)
	if errors.Is(err, user.ErrExists) {
		return s.userRepo.GetByUUID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "id", id.String())
	return u, nil
}

// AssignRole assigns a role to a user. Assigning an already held role is a
// no-op.
func (s *UserService) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	u, err := s.userRepo.GetByUUID(ctx, userID)
	if err != nil {
		return err
	}

	r, err := s.roleRepo.GetByUUID(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.userRepo.AssignRole(ctx, u.ID(), r.ID()); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	s.logger.Info("role assigned", "user", userID.String(), "role", r.Name())
	return nil
}

// RemoveRole removes a role from a user.
func (s *UserService) RemoveRole(ctx context.Context, userID, roleID uuid.UUID) error {
	u, err := s.userRepo.GetByUUID(ctx, userID)
	if err != nil {
		return err
	}

	r, err := s.roleRepo.GetByUUID(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.userRepo.RemoveRole(ctx, u.ID(), r.ID()); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}

	s.logger.Info("role removed", "user", userID.String(), "role", r.Name())
	return nil
}

// ListRoles returns the roles currently assigned to a user.
func (s *UserService) ListRoles(ctx context.Context, userID uuid.UUID) ([]*role.Role, error) {
	u, err := s.userRepo.GetByUUID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.ListRoles(ctx, u.ID())
}
