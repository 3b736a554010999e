package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proudshop/auth"
	"proudshop/models"
	"proudshop/store"
)

type fakeAdminStore struct {
	admins map[int]models.Admin
	nextID int
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[int]models.Admin{}, nextID: 1}
}

func (f *fakeAdminStore) List(ctx context.Context) ([]models.Admin, error) {
	out := []models.Admin{}
	for _, a := range f.admins {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAdminStore) Get(ctx context.Context, id int) (*models.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAdminStore) Create(ctx context.Context, a *models.Admin) error {
	a.ID = f.nextID
	f.nextID++
	if a.Role == "" {
		a.Role = models.RoleAdmin
	}
	f.admins[a.ID] = *a
	return nil
}

func (f *fakeAdminStore) Update(ctx context.Context, a *models.Admin) error {
	if _, ok := f.admins[a.ID]; !ok {
		return store.ErrNotFound
	}
	f.admins[a.ID] = *a
	return nil
}

func (f *fakeAdminStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.admins[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.admins, id)
	return nil
}

type fakeRefreshStore struct {
	tokens map[int]models.RefreshToken
	nextID int
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[int]models.RefreshToken{}, nextID: 1}
}

func (f *fakeRefreshStore) GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == hash {
			found := t
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRefreshStore) Create(ctx context.Context, t *models.RefreshToken) error {
	t.ID = f.nextID
	f.nextID++
	f.tokens[t.ID] = *t
	return nil
}

func (f *fakeRefreshStore) Rotate(ctx context.Context, id int, newHash string, expiresAt time.Time) error {
	t, ok := f.tokens[id]
	if !ok {
		return store.ErrNotFound
	}
	t.TokenHash = newHash
	t.ExpiresAt = expiresAt
	f.tokens[id] = t
	return nil
}

func (f *fakeRefreshStore) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	for id, t := range f.tokens {
		if t.TokenHash == hash {
			delete(f.tokens, id)
			return true, nil
		}
	}
	return false, nil
}

func authFixture(t *testing.T) (*AuthService, *fakeAdminStore, *fakeRefreshStore) {
	t.Helper()
	admins := newFakeAdminStore()
	refresh := newFakeRefreshStore()
	tokens := auth.NewManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(admins, refresh, tokens)

	hash, err := auth.HashPassword("sekreti1")
	require.NoError(t, err)
	require.NoError(t, admins.Create(context.Background(), &models.Admin{
		Email:        "admin@proudshop.al",
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
	}))
	return svc, admins, refresh
}

func TestLogin(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin@proudshop.al", "sekreti1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	_, err = svc.Login(ctx, "admin@proudshop.al", "gabim")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "askush@proudshop.al", "sekreti1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	svc, admins, _ := authFixture(t)
	ctx := context.Background()

	t.Run("new account", func(t *testing.T) {
		pair, err := svc.Register(ctx, "staf@proudshop.al", nil, "fjalekalim")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)

		created, err := admins.GetByEmail(ctx, "staf@proudshop.al")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, created.Role)
	})

	t.Run("idempotent with matching password", func(t *testing.T) {
		pair, err := svc.Register(ctx, "admin@proudshop.al", nil, "sekreti1")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("rejected with different password", func(t *testing.T) {
		_, err := svc.Register(ctx, "admin@proudshop.al", nil, "tjeter")
		require.ErrorIs(t, err, ErrEmailInUse)
	})
}

func TestRefreshRotation(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin@proudshop.al", "sekreti1")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The presented token is dead after rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated one still works.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshExpired(t *testing.T) {
	svc, _, refresh := authFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin@proudshop.al", "sekreti1")
	require.NoError(t, err)

	for id, tok := range refresh.tokens {
		tok.ExpiresAt = time.Now().Add(-time.Minute)
		refresh.tokens[id] = tok
	}

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin@proudshop.al", "sekreti1")
	require.NoError(t, err)

	deleted, err := svc.Logout(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Logout(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestUpdateProfile(t *testing.T) {
	svc, admins, _ := authFixture(t)
	ctx := context.Background()

	admin := admins.admins[1]

	name := "  Arben  "
	updated, err := svc.UpdateProfile(ctx, admin, &name, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Arben", *updated.Name)

	require.NoError(t, admins.Create(ctx, &models.Admin{Email: "zene@proudshop.al", PasswordHash: "x"}))
	taken := "zene@proudshop.al"
	_, err = svc.UpdateProfile(ctx, admin, nil, &taken)
	require.ErrorIs(t, err, ErrProfileEmailTaken)
}

func TestChangePassword(t *testing.T) {
	svc, admins, _ := authFixture(t)
	ctx := context.Background()
	admin := admins.admins[1]

	require.ErrorIs(t, svc.ChangePassword(ctx, admin, "gabim", "irirekret"), ErrWrongPassword)
	require.ErrorIs(t, svc.ChangePassword(ctx, admin, "sekreti1", "abc"), ErrPasswordTooShort)
	require.ErrorIs(t, svc.ChangePassword(ctx, admin, "sekreti1", "sekreti1"), ErrPasswordSame)

	require.NoError(t, svc.ChangePassword(ctx, admin, "sekreti1", "irireveti2"))
	_, err := svc.Login(ctx, "admin@proudshop.al", "irireveti2")
	require.NoError(t, err)
}
