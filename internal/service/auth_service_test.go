package service_test

import (
	"context"
	"testing"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"
	"phoneshop/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (s *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (s *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Update(_ context.Context, u *model.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := s.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (s *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := s.users[id]; ok {
		u.Active = true
	}
	return nil
}

func (s *stubUserRepo) CountActiveAdmins(_ context.Context) (int64, error) {
	var n int64
	for _, u := range s.users {
		if u.Role == model.RoleAdmin && u.Active {
			n++
		}
	}
	return n, nil
}

func newAuthFixture() (service.AuthService, *stubUserRepo) {
	users := newStubUserRepo()
	return service.NewAuthService(users, "test-secret", 1, 24), users
}

func TestLogin_RoundTrip(t *testing.T) {
	auth, _ := newAuthFixture()
	_, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "cashier1", FullName: "Front Desk", Password: "s3cret-pass", Role: model.RoleCashier,
	})
	require.NoError(t, err)

	resp, err := auth.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cashier1", claims.Username)
	assert.Equal(t, model.RoleCashier, claims.Role)
	assert.False(t, claims.Refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, _ := newAuthFixture()
	_, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "cashier1", FullName: "Front Desk", Password: "s3cret-pass", Role: model.RoleCashier,
	})
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	// Unknown user fails with the same message shape.
	_, err = auth.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestRefresh_RequiresRefreshToken(t *testing.T) {
	auth, _ := newAuthFixture()
	_, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "mgr", FullName: "Floor Manager", Password: "s3cret-pass", Role: model.RoleManager,
	})
	require.NoError(t, err)

	login, err := auth.Login(context.Background(), dto.LoginRequest{Username: "mgr", Password: "s3cret-pass"})
	require.NoError(t, err)

	// An access token must not pass for a refresh token.
	_, err = auth.Refresh(context.Background(), login.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	rotated, err := auth.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
}

func TestRefresh_DeactivatedUserRejected(t *testing.T) {
	auth, users := newAuthFixture()
	_, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin", FullName: "Owner", Password: "s3cret-pass", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	created, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "temp", FullName: "Seasonal Hire", Password: "s3cret-pass", Role: model.RoleCashier,
	})
	require.NoError(t, err)

	login, err := auth.Login(context.Background(), dto.LoginRequest{Username: "temp", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, auth.DeactivateUser(context.Background(), uuid.MustParse(created.ID)))
	_ = users

	_, err = auth.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	auth, _ := newAuthFixture()
	req := dto.CreateUserRequest{
		Username: "cashier1", FullName: "Front Desk", Password: "s3cret-pass", Role: model.RoleCashier,
	}
	_, err := auth.CreateUser(context.Background(), req)
	require.NoError(t, err)

	_, err = auth.CreateUser(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestDeactivateUser_LastAdminGuard(t *testing.T) {
	auth, _ := newAuthFixture()
	admin, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin", FullName: "Owner", Password: "s3cret-pass", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	adminID := uuid.MustParse(admin.ID)

	err = auth.DeactivateUser(context.Background(), adminID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// With a second active admin the first one can go.
	_, err = auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin2", FullName: "Co-Owner", Password: "s3cret-pass", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	require.NoError(t, auth.DeactivateUser(context.Background(), adminID))
}

func TestUpdateUser_LastAdminDemoteGuard(t *testing.T) {
	auth, _ := newAuthFixture()
	admin, err := auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin", FullName: "Owner", Password: "s3cret-pass", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	adminID := uuid.MustParse(admin.ID)

	_, err = auth.UpdateUser(context.Background(), adminID, dto.UpdateUserRequest{Role: model.RoleManager})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// Non-role edits are still allowed on the last admin.
	updated, err := auth.UpdateUser(context.Background(), adminID, dto.UpdateUserRequest{FullName: "Shop Owner"})
	require.NoError(t, err)
	assert.Equal(t, "Shop Owner", updated.FullName)
}
