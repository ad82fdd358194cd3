package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/openauthz/api/internal/metrics"
	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/logger"
)

// Baseline role names every deployment carries. The administrator role name
// comes from configuration; the other two are fixed.
const (
	RoleAnonymous     = "anonymous"
	RoleAuthenticated = "authenticated"
)

// SeedService inserts the baseline roles. Seeding is an explicit deployment
// step, not a schema hook, and is safe to run any number of times.
type SeedService struct {
	roleRepo      role.Repository
	adminRoleName string
	logger        *logger.Logger
}

// NewSeedService creates a new SeedService.
func NewSeedService(roleRepo role.Repository, adminRoleName string, log *logger.Logger) *SeedService {
	return &SeedService{
		roleRepo:      roleRepo,
		adminRoleName: adminRoleName,
		logger:        log.With("service", "seed"),
	}
}

type seedRole struct {
	name    string
	summary string
}

// EnsureBaselineRoles creates the three baseline roles that are missing.
// Existing roles, whatever their current summary or description, are left
// untouched. Returns the number of roles created.
func (s *SeedService) EnsureBaselineRoles(ctx context.Context) (int, error) {
	seeds := []seedRole{
		{name: s.adminRoleName, summary: "Administrator role with full access"},
		{name: RoleAnonymous, summary: "Role applied to unauthenticated requests"},
		{name: RoleAuthenticated, summary: "Role applied to any authenticated user"},
	}

	created := 0
	for _, seed := range seeds {
		_, err := s.roleRepo.GetByName(ctx, seed.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, role.ErrNotFound) {
			return created, fmt.Errorf("check baseline role %q: %w", seed.name, err)
		}

		r := role.New(seed.name, seed.summary, "")
		err = s.roleRepo.Create(ctx, r)
		if errors.Is(err, role.ErrNameExists) {
			// Lost a race with a concurrent seed run. The role exists now,
			// which is all that matters.
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create baseline role %q: %w", seed.name, err)
		}

		created++
		metrics.SeedRolesCreatedTotal.Inc()
		s.logger.Info("baseline role created", "name", seed.name, "id", r.UUID().String())
	}

	return created, nil
}
