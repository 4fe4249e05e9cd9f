package bootstrap

import (
	"context"
	"errors"
	"testing"

	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMenuStore struct {
	items     []*domain.MenuItem
	createErr error
}

func (s *memoryMenuStore) FindByType(_ context.Context, menuType domain.MenuType) ([]*domain.MenuItem, error) {
	return lo.Filter(s.items, func(item *domain.MenuItem, _ int) bool {
		return item.MenuType == menuType
	}), nil
}

func (s *memoryMenuStore) Create(_ context.Context, item *domain.MenuItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.items = append(s.items, item)
	return nil
}

func registry(t *testing.T) *domain.RoleRegistry {
	t.Helper()
	reg, err := domain.NewRoleRegistry(domain.DefaultRoles()...)
	require.NoError(t, err)
	return reg
}

func TestDefaultMenuSeeds_Parse(t *testing.T) {
	set, err := DefaultMenuSeeds()
	require.NoError(t, err)
	for _, menuType := range domain.MenuTypes {
		assert.NotEmpty(t, set[menuType], string(menuType))
	}
}

func TestParseMenuSeeds_UnknownType(t *testing.T) {
	_, err := ParseMenuSeeds([]byte("sidebar:\n  - title: x\n    path: /x\n    role: view\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sidebar")
}

func TestMenuSeeder_CreatesTreeOnce(t *testing.T) {
	store := &memoryMenuStore{}
	seeder := NewMenuSeeder(store, registry(t), log.NewNopLogger())
	set, err := ParseMenuSeeds([]byte(`
admin_dashboard:
  - title: Users
    path: /admin/users
    role: admin
    children:
      - title: Roles
        path: /admin/roles
        role: superAdmin
  - title: Ads
    path: /admin/ads
    role: admin
`))
	require.NoError(t, err)

	n, err := seeder.Seed(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	byPath := lo.KeyBy(store.items, func(item *domain.MenuItem) string { return item.Path })
	users, roles, ads := byPath["/admin/users"], byPath["/admin/roles"], byPath["/admin/ads"]
	require.NotNil(t, users)
	require.NotNil(t, roles)
	require.NotNil(t, ads)
	assert.True(t, users.IsRoot())
	require.NotNil(t, roles.ParentID)
	assert.Equal(t, users.ID, *roles.ParentID)
	assert.Equal(t, domain.RoleIDSuperAdmin, roles.RoleID)
	assert.Equal(t, 0, users.OrderIndex)
	assert.Equal(t, 1, ads.OrderIndex)
	assert.True(t, ads.IsActive)

	n, err = seeder.Seed(context.Background(), set)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.items, 3)
}

func TestMenuSeeder_SkipsPopulatedType(t *testing.T) {
	store := &memoryMenuStore{items: []*domain.MenuItem{
		{ID: "existing", Path: "/custom", MenuType: domain.MenuTypeMain, RoleID: domain.RoleIDView},
	}}
	seeder := NewMenuSeeder(store, registry(t), log.NewNopLogger())
	set := MenuSeedSet{
		domain.MenuTypeMain:          {{Title: "Home", Path: "/", Role: "view"}},
		domain.MenuTypeUserDashboard: {{Title: "Account", Path: "/account", Role: "user"}},
	}

	n, err := seeder.Seed(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, store.items, 2)
}

func TestMenuSeeder_UnknownRole(t *testing.T) {
	seeder := NewMenuSeeder(&memoryMenuStore{}, registry(t), log.NewNopLogger())
	_, err := seeder.Seed(context.Background(), MenuSeedSet{
		domain.MenuTypeMain: {{Title: "Home", Path: "/", Role: "owner"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/")
}

func TestMenuSeeder_CreateFailure(t *testing.T) {
	store := &memoryMenuStore{createErr: errors.New("db down")}
	seeder := NewMenuSeeder(store, registry(t), log.NewNopLogger())
	_, err := seeder.Seed(context.Background(), MenuSeedSet{
		domain.MenuTypeMain: {{Title: "Home", Path: "/", Role: "view"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

type seedSettings struct{ email, password, name string }

func (s seedSettings) SuperAdminEmail() string    { return s.email }
func (s seedSettings) SuperAdminPassword() string { return s.password }
func (s seedSettings) SuperAdminName() string     { return s.name }

type ensurerFunc func(ctx context.Context, email, password, fullName string) (*domain.User, error)

func (f ensurerFunc) EnsureSuperAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	return f(ctx, email, password, fullName)
}

func TestSeedSuperAdmin(t *testing.T) {
	t.Run("skipped without email", func(t *testing.T) {
		called := false
		err := SeedSuperAdmin(context.Background(), ensurerFunc(func(context.Context, string, string, string) (*domain.User, error) {
			called = true
			return nil, nil
		}), seedSettings{}, log.NewNopLogger())
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("passes settings through", func(t *testing.T) {
		var got []string
		err := SeedSuperAdmin(context.Background(), ensurerFunc(func(_ context.Context, email, password, name string) (*domain.User, error) {
			got = []string{email, password, name}
			return &domain.User{SQLModel: domain.SQLModel{ID: "u1"}, RoleID: domain.RoleIDSuperAdmin}, nil
		}), seedSettings{"root@radio.test", "changeme123", "Root"}, log.NewNopLogger())
		require.NoError(t, err)
		assert.Equal(t, []string{"root@radio.test", "changeme123", "Root"}, got)
	})

	t.Run("wraps failure", func(t *testing.T) {
		err := SeedSuperAdmin(context.Background(), ensurerFunc(func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrStorage
		}), seedSettings{email: "root@radio.test"}, log.NewNopLogger())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrStorage))
	})
}
