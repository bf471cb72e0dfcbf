package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/service"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/token"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

type discardNotifier struct{}

func (discardNotifier) Send(entity.CreationNotice) {}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]*entity.User
	removed []string
	err     error
}

func (f *fakeIndex) Index(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]*entity.User{}
	}
	cp := *u
	f.docs[u.ID] = &cp
	return f.err
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, q string, _ int) ([]search.UserDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []search.UserDocument{{ID: "hit", Email: q}}, nil
}

type harness struct {
	auth   *AuthService
	users  *UserService
	access *AccessService
	roleID string
}

func newHarness(t *testing.T, index UserIndex) *harness {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.NewStore()
	jwtm := helpers.NewJWTManager("0123456789abcdef0123456789abcdef", "users-api", "users-api-clients", time.Hour)
	domain := service.NewUserDomainService(store, token.NewIssuer(jwtm), discardNotifier{}, helpers.PlainCredentials{}, logger)

	h := &harness{
		auth:   NewAuthService(domain, logger),
		users:  NewUserService(domain, store, index, logger),
		access: NewAccessService(store, logger),
	}

	role, err := h.access.CreateRole(context.Background(), "admin")
	require.NoError(t, err)
	h.roleID = role.ID
	return h
}

func (h *harness) createUser(t *testing.T, email string) *UserView {
	t.Helper()
	v, err := h.users.Create(context.Background(), CreateUserInput{
		Email: email, Password: "@Admin123", FirstName: "Ana", LastName: "Lima", RoleID: h.roleID,
	})
	require.NoError(t, err)
	return v
}

func TestLoginReturnsTokenAndIdentity(t *testing.T) {
	h := newHarness(t, nil)
	u := h.createUser(t, "admin@example.com")

	res, err := h.auth.Login(context.Background(), "admin@example.com", "@Admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, "admin", res.User.Role)
	assert.True(t, res.Expiration.After(res.User.SignedAt))
}

func TestLoginDenied(t *testing.T) {
	h := newHarness(t, nil)
	h.createUser(t, "admin@example.com")

	_, err := h.auth.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, domainerr.ErrAccessDenied)
}

func TestActivateUserIdentifierPrecedence(t *testing.T) {
	h := newHarness(t, nil)
	u := h.createUser(t, "a@example.com")
	ctx := context.Background()

	_, err := h.auth.ActivateUser(ctx, "", "")
	assert.ErrorIs(t, err, domainerr.ErrMissingIdentifier)

	// the path id wins over the body id
	_, err = h.auth.ActivateUser(ctx, "missing", u.ID)
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)

	v, err := h.auth.ActivateUser(ctx, "", u.ID)
	require.NoError(t, err)
	assert.True(t, v.Active)
	assert.True(t, v.EmailConfirmed)
}

func TestCreateUserDefaultsAndRoleName(t *testing.T) {
	h := newHarness(t, nil)
	v := h.createUser(t, "  new@example.com ")

	assert.Equal(t, "new@example.com", v.Email)
	assert.True(t, v.Active)
	assert.False(t, v.EmailConfirmed)
	assert.Equal(t, "admin", v.RoleName)
}

func TestCreateUserFaults(t *testing.T) {
	h := newHarness(t, nil)
	h.createUser(t, "dup@example.com")
	ctx := context.Background()

	_, err := h.users.Create(ctx, CreateUserInput{Email: "dup@example.com", Password: "x", RoleID: h.roleID})
	assert.ErrorIs(t, err, domainerr.ErrEmailAlreadyExists)

	_, err = h.users.Create(ctx, CreateUserInput{Email: "other@example.com", Password: "x", RoleID: "missing"})
	assert.ErrorIs(t, err, domainerr.ErrRoleNotFound)
}

func TestUpdateGetDeleteUser(t *testing.T) {
	idx := &fakeIndex{}
	h := newHarness(t, idx)
	u := h.createUser(t, "crud@example.com")
	ctx := context.Background()

	updated, err := h.users.Update(ctx, u.ID, UpdateUserInput{FirstName: "Bea", LastName: "Lima", RoleID: h.roleID})
	require.NoError(t, err)
	assert.Equal(t, "Bea", updated.FirstName)
	assert.True(t, updated.Active, "omitted active keeps the current state")

	inactive := false
	updated, err = h.users.Update(ctx, u.ID, UpdateUserInput{FirstName: "Bea", LastName: "Lima", RoleID: h.roleID, Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "Bea", idx.docs[u.ID].FirstName)

	got, err := h.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bea", got.FirstName)

	require.NoError(t, h.users.Delete(ctx, u.ID))
	assert.Equal(t, []string{u.ID}, idx.removed)

	_, err = h.users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)
	assert.ErrorIs(t, h.users.Delete(ctx, u.ID), domainerr.ErrUserNotFound)
}

func TestIndexFailureDoesNotFailWrite(t *testing.T) {
	h := newHarness(t, &fakeIndex{err: errors.New("es down")})
	v := h.createUser(t, "es@example.com")
	assert.NotEmpty(t, v.ID)
}

func TestListAndScanSearch(t *testing.T) {
	h := newHarness(t, nil)
	h.createUser(t, "ana@example.com")
	h.createUser(t, "bob@example.com")
	ctx := context.Background()

	all, err := h.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := h.users.Search(ctx, "BOB", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "bob@example.com", hits[0].Email)
}

func TestSearchUsesIndex(t *testing.T) {
	h := newHarness(t, &fakeIndex{})

	hits, err := h.users.Search(context.Background(), "q@example.com", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "hit", hits[0].ID)
}

func TestSearchIndexErrorIsInternal(t *testing.T) {
	h := newHarness(t, &fakeIndex{err: errors.New("es down")})
	_, err := h.users.Search(context.Background(), "x", 5)
	assert.ErrorIs(t, err, domainerr.ErrInternal)
}

func TestRoles(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.access.CreateRole(ctx, "admin")
	assert.ErrorIs(t, err, domainerr.ErrConflict)

	got, err := h.access.GetRole(ctx, h.roleID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Name)

	_, err = h.access.GetRole(ctx, "missing")
	assert.ErrorIs(t, err, domainerr.ErrRoleNotFound)

	roles, err := h.access.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestGrantCatalogAndPermissions(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	catalog := map[string][]string{"Security": {"Users", "Roles"}}

	require.NoError(t, h.access.GrantCatalog(ctx, h.roleID, catalog, Grant{Read: true, Create: true}))
	// granting again reuses modules and skips existing permissions
	require.NoError(t, h.access.GrantCatalog(ctx, h.roleID, catalog, Grant{Read: true}))

	perms, err := h.access.RolePermissions(ctx, h.roleID)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	for _, p := range perms {
		assert.Equal(t, "Security", p.ModuleName)
		assert.True(t, p.CanRead)
		assert.True(t, p.CanCreate)
		assert.False(t, p.CanDelete)
	}

	_, err = h.access.RolePermissions(ctx, "missing")
	assert.ErrorIs(t, err, domainerr.ErrRoleNotFound)
	assert.ErrorIs(t, h.access.GrantCatalog(ctx, "missing", catalog, Grant{}), domainerr.ErrRoleNotFound)
}

func TestLoggerIsUsed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	access := NewAccessService(memory.NewStore(), logger)

	_, err := access.CreateRole(context.Background(), "viewer")
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "role created", hook.LastEntry().Message)
}
