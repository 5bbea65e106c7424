package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finconnect-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/password"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/services/auth"
	"github.com/magabrotheeeer/finconnect-portal/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret-key", time.Hour)
}

func TestRegister_AssignsDeveloperRoleAndUID(t *testing.T) {
	repo := new(RepoMock)
	service := auth.New(repo, newMaker())

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
		return user.Role == models.RoleDeveloper &&
			user.UID != "" &&
			user.Username == "devuser" &&
			user.PasswordHash != "" &&
			user.PasswordHash != "secret1"
	})).Return(7, nil)

	user, token, err := service.Register(context.Background(), models.RegisterRequest{
		Username: "devuser",
		Email:    "dev@example.com",
		Name:     "Dev User",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.NotEmpty(t, token)

	claims, err := newMaker().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "devuser", claims.Username)
	assert.Equal(t, models.RoleDeveloper, claims.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(RepoMock)
	service := auth.New(repo, newMaker())

	repo.On("RegisterUser", mock.Anything, mock.Anything).Return(0, repository.ErrAlreadyExists)

	_, _, err := service.Register(context.Background(), models.RegisterRequest{
		Username: "devuser",
		Email:    "dev@example.com",
		Name:     "Dev User",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	repo := new(RepoMock)
	service := auth.New(repo, newMaker())

	hash, err := password.GetHash("secret1")
	require.NoError(t, err)
	repo.On("GetUserByUsername", mock.Anything, "devuser").Return(&models.User{
		ID:           7,
		Username:     "devuser",
		PasswordHash: hash,
		Role:         models.RoleDeveloper,
	}, nil)

	user, token, err := service.Login(context.Background(), "devuser", "secret1")

	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(RepoMock)
	service := auth.New(repo, newMaker())

	hash, err := password.GetHash("secret1")
	require.NoError(t, err)
	repo.On("GetUserByUsername", mock.Anything, "devuser").Return(&models.User{
		Username:     "devuser",
		PasswordHash: hash,
	}, nil)

	_, _, err = service.Login(context.Background(), "devuser", "wrongpw")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := new(RepoMock)
	service := auth.New(repo, newMaker())

	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, _, err := service.Login(context.Background(), "ghost", "secret1")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestIdentity(t *testing.T) {
	repo := new(RepoMock)
	service := auth.New(repo, newMaker())

	repo.On("GetUserByUsername", mock.Anything, "adminuser").Return(&models.User{
		ID:       1,
		Username: "adminuser",
		Name:     "Admin",
		Role:     models.RoleAdmin,
	}, nil)

	identity, err := service.Identity(context.Background(), "adminuser")

	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())
	assert.Equal(t, 1, identity.ID)
}
