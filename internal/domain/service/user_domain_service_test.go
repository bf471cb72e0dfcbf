package service

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
	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/token"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []entity.CreationNotice
}

func (r *recordingNotifier) Send(n entity.CreationNotice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) sent() []entity.CreationNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.CreationNotice(nil), r.notices...)
}

type fixture struct {
	svc      *UserDomainService
	store    *memory.Store
	notifier *recordingNotifier
	jwt      *helpers.JWTManager
}

func newFixture(t *testing.T, creds CredentialPolicy) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Roles().Add(ctx, &entity.Role{ID: "role-admin", Name: "admin", CreatedAt: fixedNow}))
	require.NoError(t, uow.SaveChanges(ctx))
	require.NoError(t, uow.Close(ctx))

	logger, _ := test.NewNullLogger()
	jwtm := helpers.NewJWTManager("0123456789abcdef0123456789abcdef", "users-api", "users-api-clients", time.Hour).
		WithClock(func() time.Time { return fixedNow })
	n := &recordingNotifier{}
	svc := NewUserDomainService(store, token.NewIssuer(jwtm), n, creds, logger)
	svc.now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, store: store, notifier: n, jwt: jwtm}
}

func newUser(email string) *entity.User {
	return &entity.User{Email: email, Password: "@Secret123", FirstName: "Ana", LastName: "Lima", RoleID: "role-admin"}
}

func TestAddCreatesUserAndSendsNotice(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()

	u := newUser("ana@example.com")
	require.NoError(t, f.svc.Add(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, fixedNow, u.CreatedAt)

	got, found, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.False(t, got.Active)

	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].Email)
	assert.Equal(t, u.ID, sent[0].UserID)
	assert.Equal(t, "Congratulations, your user account was created successfully", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Hello Ana")
}

func TestAddDuplicateEmail(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()

	require.NoError(t, f.svc.Add(ctx, newUser("dup@example.com")))
	err := f.svc.Add(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, domainerr.ErrEmailAlreadyExists)

	all, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, f.notifier.sent(), 1)
}

func TestAddUnknownRole(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()

	u := newUser("nobody@example.com")
	u.RoleID = "missing"
	err := f.svc.Add(ctx, u)
	assert.ErrorIs(t, err, domainerr.ErrRoleNotFound)

	_, found, err := f.svc.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, f.notifier.sent())
}

func TestAddConcurrentSameEmail(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.Add(ctx, newUser("race@example.com"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domainerr.ErrEmailAlreadyExists)
	}
	assert.Equal(t, 1, ok)
	all, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAuthenticateIssuesToken(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	u := newUser("login@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	id, err := f.svc.Authenticate(ctx, "login@example.com", "@Secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)
	assert.Equal(t, "admin", id.Role)
	assert.NotEmpty(t, id.AccessToken)
	assert.True(t, id.Expiration.After(id.SignedAt))
	assert.Equal(t, time.Hour, id.Expiration.Sub(id.SignedAt))

	claims, err := f.jwt.ParseToken(id.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	decoded, err := token.Identity(claims)
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", decoded.Email)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	require.NoError(t, f.svc.Add(ctx, newUser("login@example.com")))

	_, wrongPassword := f.svc.Authenticate(ctx, "login@example.com", "nope")
	_, unknownEmail := f.svc.Authenticate(ctx, "ghost@example.com", "@Secret123")
	_, empty := f.svc.Authenticate(ctx, "", "")

	for _, err := range []error{wrongPassword, unknownEmail, empty} {
		assert.ErrorIs(t, err, domainerr.ErrAccessDenied)
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticateWithMisconfiguredIssuer(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	require.NoError(t, f.svc.Add(ctx, newUser("login@example.com")))
	f.svc.tokens = token.NewIssuer(helpers.NewJWTManager("", "users-api", "users-api-clients", time.Hour))

	_, err := f.svc.Authenticate(ctx, "login@example.com", "@Secret123")
	assert.ErrorIs(t, err, domainerr.ErrConfiguration)
}

func TestBcryptPolicyStoresHash(t *testing.T) {
	f := newFixture(t, helpers.BcryptCredentials{})
	ctx := context.Background()
	u := newUser("hash@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	got, _, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "@Secret123", got.Password)

	_, found, err := f.svc.GetByCredentials(ctx, "hash@example.com", "@Secret123")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGetIsIdempotent(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	u := newUser("same@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	first, _, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	second, _, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	missing, found, err := f.svc.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, missing)
}

func TestGetByRoleID(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	u := newUser("role@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	got, found, err := f.svc.GetByRoleID(ctx, "role-admin")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, u.ID, got.ID)
}

func TestActivate(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	u := newUser("act@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	activated, err := f.svc.Activate(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)
	assert.True(t, activated.EmailConfirmed)

	stored, _, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
	assert.True(t, stored.EmailConfirmed)

	_, err = f.svc.Activate(ctx, "missing")
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)
}

func TestUpdateRequiresRole(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	u := newUser("upd@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	changed := *u
	changed.FirstName = "Changed"
	changed.RoleID = "missing"
	err := f.svc.Update(ctx, &changed)
	assert.ErrorIs(t, err, domainerr.ErrRoleNotFound)

	stored, _, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.FirstName)

	changed.RoleID = "role-admin"
	require.NoError(t, f.svc.Update(ctx, &changed))
	stored, _, err = f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", stored.FirstName)
}

func TestUpdateUnknownUser(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	err := f.svc.Update(context.Background(), &entity.User{ID: "ghost", RoleID: "role-admin"})
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	u := newUser("del@example.com")
	require.NoError(t, f.svc.Add(ctx, u))

	require.NoError(t, f.svc.Delete(ctx, u))
	_, found, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, found)

	err = f.svc.Delete(ctx, u)
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)
}

func TestNilLoggerFallsBackToStandard(t *testing.T) {
	svc := NewUserDomainService(memory.NewStore(), nil, nil, helpers.PlainCredentials{}, nil)
	assert.Equal(t, logrus.StandardLogger(), svc.logger)
}

// faultyStore wraps a real store and injects faults into its units of work.
type faultyStore struct {
	repo.UnitOfWorkFactory
	roleLookup error
	commit     error
}

func (f *faultyStore) Begin(ctx context.Context) (repo.UnitOfWork, error) {
	uow, err := f.UnitOfWorkFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyUnit{UnitOfWork: uow, store: f}, nil
}

type faultyUnit struct {
	repo.UnitOfWork
	store *faultyStore
}

func (u *faultyUnit) Roles() repo.RoleRepository {
	if u.store.roleLookup == nil {
		return u.UnitOfWork.Roles()
	}
	return failingRoles{RoleRepository: u.UnitOfWork.Roles(), err: u.store.roleLookup}
}

func (u *faultyUnit) SaveChanges(ctx context.Context) error {
	if u.store.commit != nil {
		return u.store.commit
	}
	return u.UnitOfWork.SaveChanges(ctx)
}

type failingRoles struct {
	repo.RoleRepository
	err error
}

func (r failingRoles) GetByID(context.Context, string) (*entity.Role, error) { return nil, r.err }

func TestAuthenticateWithDanglingRoleIsDenied(t *testing.T) {
	f := newFixture(t, helpers.PlainCredentials{})
	ctx := context.Background()
	require.NoError(t, f.svc.Add(ctx, newUser("orphan@example.com")))

	_, wrongPassword := f.svc.Authenticate(ctx, "orphan@example.com", "nope")
	f.svc.uow = &faultyStore{UnitOfWorkFactory: f.store, roleLookup: repo.ErrNotFound}

	_, err := f.svc.Authenticate(ctx, "orphan@example.com", "@Secret123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrAccessDenied)
	assert.Equal(t, wrongPassword.Error(), err.Error())
}

func TestAddLeavesCallerUntouchedWhenCommitFails(t *testing.T) {
	f := newFixture(t, helpers.BcryptCredentials{})
	ctx := context.Background()
	f.svc.uow = &faultyStore{UnitOfWorkFactory: f.store, commit: errors.New("disk full")}

	u := newUser("retry@example.com")
	err := f.svc.Add(ctx, u)
	require.Error(t, err)
	assert.Equal(t, domainerr.KindInternal, domainerr.KindOf(err))
	assert.Empty(t, u.ID)
	assert.Equal(t, "@Secret123", u.Password)
	assert.True(t, u.CreatedAt.IsZero())
	assert.Empty(t, f.notifier.sent())

	f.svc.uow = f.store
	require.NoError(t, f.svc.Add(ctx, u))
	_, found, err := f.svc.GetByCredentials(ctx, "retry@example.com", "@Secret123")
	require.NoError(t, err)
	assert.True(t, found)
}
