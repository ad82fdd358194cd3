package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openauthz/api/pkg/domain/permission"
	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/logger"
	"github.com/openauthz/api/pkg/pagination"
)

// ============================================================================
// Mock Repositories
// ============================================================================

// mockRoleRepository implements role.Repository in memory.
type mockRoleRepository struct {
	nextID    int64
	roles     []*role.Role
	rolePerms map[int64]map[int64]bool
	userRoles map[int64]map[int64]bool

	updateCalls    int
	getByUUIDCalls int
	createErr      error
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{
		rolePerms: make(map[int64]map[int64]bool),
		userRoles: make(map[int64]map[int64]bool),
	}
}

func (m *mockRoleRepository) Create(ctx context.Context, r *role.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.roles {
		if existing.Name() == r.Name() {
			return role.ErrNameExists
		}
	}
	m.nextID++
	r.SetID(m.nextID)
	m.roles = append(m.roles, r)
	return nil
}

func (m *mockRoleRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*role.Role, error) {
	m.getByUUIDCalls++
	for _, r := range m.roles {
		if r.UUID() == id {
			return r, nil
		}
	}
	return nil, role.ErrNotFound
}

func (m *mockRoleRepository) GetByName(ctx context.Context, name string) (*role.Role, error) {
	for _, r := range m.roles {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, role.ErrNotFound
}

func (m *mockRoleRepository) Update(ctx context.Context, r *role.Role) error {
	m.updateCalls++
	for _, existing := range m.roles {
		if existing.ID() == r.ID() {
			return nil
		}
	}
	return role.ErrNotFound
}

func (m *mockRoleRepository) Delete(ctx context.Context, r *role.Role) error {
	for i, existing := range m.roles {
		if existing.ID() == r.ID() {
			m.roles = append(m.roles[:i], m.roles[i+1:]...)
			delete(m.rolePerms, r.ID())
			delete(m.userRoles, r.ID())
			return nil
		}
	}
	return role.ErrNotFound
}

func (m *mockRoleRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.roles)), nil
}

func (m *mockRoleRepository) List(ctx context.Context, window pagination.Window) ([]*role.Role, error) {
	sorted := make([]*role.Role, len(m.roles))
	copy(sorted, m.roles)

	field := strings.SplitN(window.OrderBy, " ", 2)[0]
	sort.SliceStable(sorted, func(i, j int) bool {
		switch field {
		case "name":
			return sorted[i].Name() < sorted[j].Name()
		case "created":
			return sorted[i].Created().Before(sorted[j].Created())
		default:
			return sorted[i].ID() < sorted[j].ID()
		}
	})

	if window.Offset >= len(sorted) {
		return nil, nil
	}
	end := window.Offset + window.Limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[window.Offset:end], nil
}

func (m *mockRoleRepository) AddPermission(ctx context.Context, roleID, permissionID int64) error {
	if m.rolePerms[roleID] == nil {
		m.rolePerms[roleID] = make(map[int64]bool)
	}
	m.rolePerms[roleID][permissionID] = true
	return nil
}

func (m *mockRoleRepository) RemovePermission(ctx context.Context, roleID, permissionID int64) error {
	delete(m.rolePerms[roleID], permissionID)
	return nil
}

func (m *mockRoleRepository) ListPermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	for id := range m.rolePerms[roleID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// mockPermissionRepository implements permission.Repository in memory.
type mockPermissionRepository struct {
	nextID      int64
	permissions []*permission.Permission
}

func (m *mockPermissionRepository) Create(ctx context.Context, p *permission.Permission) error {
	for _, existing := range m.permissions {
		if existing.Name() == p.Name() {
			return permission.ErrNameExists
		}
	}
	m.nextID++
	p.SetID(m.nextID)
	m.permissions = append(m.permissions, p)
	return nil
}

func (m *mockPermissionRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*permission.Permission, error) {
	for _, p := range m.permissions {
		if p.UUID() == id {
			return p, nil
		}
	}
	return nil, permission.ErrNotFound
}

func (m *mockPermissionRepository) GetByName(ctx context.Context, name string) (*permission.Permission, error) {
	for _, p := range m.permissions {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, permission.ErrNotFound
}

// stubRoleCache implements RoleCache in memory.
type stubRoleCache struct {
	data    map[string]RoleSnapshot
	sets    int
	deletes int
}

func newStubRoleCache() *stubRoleCache {
	return &stubRoleCache{data: make(map[string]RoleSnapshot)}
}

func (c *stubRoleCache) Get(ctx context.Context, key string) (*RoleSnapshot, error) {
	snap, ok := c.data[key]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return &snap, nil
}

func (c *stubRoleCache) Set(ctx context.Context, key string, value RoleSnapshot) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *stubRoleCache) Delete(ctx context.Context, key string) error {
	c.deletes++
	delete(c.data, key)
	return nil
}

func newTestRoleService(roleRepo *mockRoleRepository, permRepo *mockPermissionRepository, opts ...RoleServiceOption) *RoleService {
	return NewRoleService(roleRepo, permRepo, logger.NewNop(), opts...)
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateRole(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{
		Name:        "operator",
		Summary:     "Operates things",
		Description: "Full operational access",
	})
	require.NoError(t, err)

	assert.Equal(t, "operator", created.Name())
	assert.Equal(t, "Operates things", created.Summary())
	assert.NotEqual(t, uuid.Nil, created.UUID())
	assert.NotZero(t, created.ID())
	assert.Len(t, repo.roles, 1)
}

func TestCreateRole_DuplicateName(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	_, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	require.NoError(t, err)

	_, err = svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	assert.ErrorIs(t, err, role.ErrNameExists)
	assert.Len(t, repo.roles, 1)
}

func TestCreateRole_LostRaceToUniqueIndex(t *testing.T) {
	// The name lookup misses but the insert hits the unique index, as happens
	// when a concurrent request creates the same name in between.
	repo := newMockRoleRepository()
	repo.createErr = role.ErrNameExists
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	_, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	assert.ErrorIs(t, err, role.ErrNameExists)
}

func seedRoles(t *testing.T, repo *mockRoleRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		r := role.New(fmt.Sprintf("role-%03d", i), "", "")
		require.NoError(t, repo.Create(context.Background(), r))
	}
}

func TestListRoles_Pagination(t *testing.T) {
	repo := newMockRoleRepository()
	seedRoles(t, repo, 28)
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	roles, filter, err := svc.ListRoles(context.Background(), pagination.Request{Page: 3, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, roles, 8)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 10, filter.PageSize)
	assert.Equal(t, int64(28), filter.Total)
	assert.Equal(t, "role-020", roles[0].Name())
}

func TestListRoles_NoSuchPage(t *testing.T) {
	repo := newMockRoleRepository()
	seedRoles(t, repo, 28)
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	tests := []struct {
		name string
		page int
	}{
		{name: "past the end", page: 4},
		{name: "zero", page: 0},
		{name: "negative", page: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.ListRoles(context.Background(), pagination.Request{Page: tt.page, PageSize: 10})

			var noPage *pagination.NoSuchPageError
			require.ErrorAs(t, err, &noPage)
			assert.Equal(t, tt.page, noPage.Page)
		})
	}
}

func TestListRoles_UnknownSortByCheckedFirst(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	// Both the sort field and the page are invalid; the sort field wins.
	_, _, err := svc.ListRoles(context.Background(), pagination.Request{Page: 999, PageSize: 10, SortBy: "bogus"})

	var unknownSort *pagination.UnknownSortByError
	require.ErrorAs(t, err, &unknownSort)
	assert.Equal(t, "bogus", unknownSort.Field)
}

func TestListRoles_EmptyCollection(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	roles, filter, err := svc.ListRoles(context.Background(), pagination.Request{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, roles)
	assert.Equal(t, int64(0), filter.Total)
}

func TestListRoles_SortByName(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	for _, name := range []string{"zebra", "alpha", "mango"} {
		_, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: name})
		require.NoError(t, err)
	}

	roles, _, err := svc.ListRoles(context.Background(), pagination.Request{Page: 1, PageSize: 10, SortBy: "name"})
	require.NoError(t, err)

	require.Len(t, roles, 3)
	assert.Equal(t, "alpha", roles[0].Name())
	assert.Equal(t, "mango", roles[1].Name())
	assert.Equal(t, "zebra", roles[2].Name())
}

func TestUpdateRole_PresentFieldsOnly(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{
		Name:        "operator",
		Summary:     "Old summary",
		Description: "Old description",
	})
	require.NoError(t, err)

	summary := "New summary"
	updated, err := svc.UpdateRole(context.Background(), created.UUID(), UpdateRoleInput{Summary: &summary})
	require.NoError(t, err)

	assert.Equal(t, "New summary", updated.Summary())
	assert.Equal(t, "Old description", updated.Description())
	assert.Equal(t, 1, repo.updateCalls)
}

func TestUpdateRole_SameValueStillWrites(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator", Summary: "Same"})
	require.NoError(t, err)
	before := created.Updated()

	summary := "Same"
	updated, err := svc.UpdateRole(context.Background(), created.UUID(), UpdateRoleInput{Summary: &summary})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updateCalls)
	assert.False(t, updated.Updated().Before(before))
}

func TestUpdateRole_EmptyInputIsNoOp(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator", Summary: "Kept"})
	require.NoError(t, err)

	updated, err := svc.UpdateRole(context.Background(), created.UUID(), UpdateRoleInput{})
	require.NoError(t, err)

	assert.Equal(t, "Kept", updated.Summary())
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateRole_NotFound(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	summary := "anything"
	_, err := svc.UpdateRole(context.Background(), uuid.New(), UpdateRoleInput{Summary: &summary})
	assert.ErrorIs(t, err, role.ErrNotFound)
}

func TestDeleteRole_RemovesAssociations(t *testing.T) {
	repo := newMockRoleRepository()
	permRepo := &mockPermissionRepository{}
	svc := newTestRoleService(repo, permRepo)

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	require.NoError(t, err)

	p := permission.New("asset:read", "", "")
	require.NoError(t, permRepo.Create(context.Background(), p))
	require.NoError(t, svc.GrantPermission(context.Background(), created.UUID(), p.UUID()))

	require.NoError(t, svc.DeleteRole(context.Background(), created.UUID()))

	assert.Empty(t, repo.roles)
	assert.Empty(t, repo.rolePerms[created.ID()])

	err = svc.DeleteRole(context.Background(), created.UUID())
	assert.ErrorIs(t, err, role.ErrNotFound)
}

func TestGetRole_CacheMissThenHit(t *testing.T) {
	repo := newMockRoleRepository()
	cache := newStubRoleCache()
	svc := newTestRoleService(repo, &mockPermissionRepository{}, WithRoleCache(cache))

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator", Summary: "Cached"})
	require.NoError(t, err)

	repo.getByUUIDCalls = 0

	first, err := svc.GetRole(context.Background(), created.UUID())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getByUUIDCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.GetRole(context.Background(), created.UUID())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getByUUIDCalls, "hit must not touch the repository")

	assert.Equal(t, first.UUID(), second.UUID())
	assert.Equal(t, "Cached", second.Summary())
}

func TestUpdateRole_InvalidatesCache(t *testing.T) {
	repo := newMockRoleRepository()
	cache := newStubRoleCache()
	svc := newTestRoleService(repo, &mockPermissionRepository{}, WithRoleCache(cache))

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	require.NoError(t, err)

	_, err = svc.GetRole(context.Background(), created.UUID())
	require.NoError(t, err)

	summary := "fresh"
	_, err = svc.UpdateRole(context.Background(), created.UUID(), UpdateRoleInput{Summary: &summary})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.deletes)
	assert.Empty(t, cache.data)
}

func TestGrantPermission(t *testing.T) {
	repo := newMockRoleRepository()
	permRepo := &mockPermissionRepository{}
	svc := newTestRoleService(repo, permRepo)

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	require.NoError(t, err)

	p := permission.New("asset:read", "", "")
	require.NoError(t, permRepo.Create(context.Background(), p))

	require.NoError(t, svc.GrantPermission(context.Background(), created.UUID(), p.UUID()))
	// Granting twice is a no-op.
	require.NoError(t, svc.GrantPermission(context.Background(), created.UUID(), p.UUID()))

	ids, err := repo.ListPermissionIDs(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID()}, ids)

	require.NoError(t, svc.RevokePermission(context.Background(), created.UUID(), p.UUID()))
	ids, err = repo.ListPermissionIDs(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGrantPermission_UnknownPermission(t *testing.T) {
	repo := newMockRoleRepository()
	svc := newTestRoleService(repo, &mockPermissionRepository{})

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "operator"})
	require.NoError(t, err)

	err = svc.GrantPermission(context.Background(), created.UUID(), uuid.New())
	assert.ErrorIs(t, err, permission.ErrNotFound)
}
