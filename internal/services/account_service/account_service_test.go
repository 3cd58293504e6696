package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"datespark/internal/domain/models"
	"datespark/internal/repository"
	"datespark/internal/storage"
	"datespark/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastActive(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	args := m.Called(ctx, userID, roles)
	return args.Error(0)
}

func (m *MockUserRepository) UsersWithRoles(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Members(ctx context.Context, filter repository.MemberFilter) ([]models.User, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.User), args.Int(1), args.Error(2)
}

type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func registerInput() dto.RegisterInput {
	return dto.RegisterInput{
		Username:    "alice",
		KnownAs:     "Alice",
		Gender:      "female",
		DateOfBirth: time.Date(1995, 5, 10, 0, 0, 0, 0, time.UTC),
		City:        "Riga",
		Country:     "Latvia",
		Password:    "password123",
	}
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		newID := uuid.New()
		pair := &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

		repo.On("UsernameTaken", ctx, "alice").Return(false, nil)
		repo.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "alice" &&
				len(u.PasswordHash) > 0 &&
				len(u.Roles) == 1 && u.Roles[0] == models.RoleMember
		})).Return(newID, nil)
		tokens.On("GenerateTokens", ctx, mock.Anything).Return(pair, nil)

		user, gotPair, err := service.Register(ctx, registerInput())

		require.NoError(t, err)
		assert.Equal(t, newID, user.ID)
		assert.Equal(t, pair, gotPair)
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("password123")))
		repo.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("username is stored lowercase", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		pair := &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

		repo.On("UsernameTaken", ctx, "alice").Return(false, nil)
		repo.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "alice"
		})).Return(uuid.New(), nil)
		tokens.On("GenerateTokens", ctx, mock.Anything).Return(pair, nil)

		input := registerInput()
		input.Username = "AlIcE"

		user, _, err := service.Register(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		repo.AssertExpectations(t)
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		repo.On("UsernameTaken", ctx, "alice").Return(true, nil)

		_, _, err := service.Register(ctx, registerInput())

		assert.ErrorIs(t, err, ErrUserExists)
		repo.AssertExpectations(t)
	})

	t.Run("save race maps to exists", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		repo.On("UsernameTaken", ctx, "alice").Return(false, nil)
		repo.On("SaveUser", ctx, mock.Anything).Return(uuid.Nil, storage.ErrUserExists)

		_, _, err := service.Register(ctx, registerInput())

		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	password := "password123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	storedUser := models.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: hash,
		Roles:        []string{models.RoleMember},
	}

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		pair := &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

		repo.On("UserByUsername", ctx, "alice").Return(storedUser, nil)
		repo.On("UpdateLastActive", ctx, storedUser.ID).Return(nil)
		tokens.On("GenerateTokens", ctx, storedUser).Return(pair, nil)

		user, gotPair, err := service.Login(ctx, dto.LoginInput{Username: "alice", Password: password})

		require.NoError(t, err)
		assert.Equal(t, storedUser.ID, user.ID)
		assert.Equal(t, pair, gotPair)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		repo.On("UserByUsername", ctx, "alice").Return(storedUser, nil)

		_, _, err := service.Login(ctx, dto.LoginInput{Username: "alice", Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		repo.On("UserByUsername", ctx, "ghost").Return(models.User{}, storage.ErrUserNotFound)

		_, _, err := service.Login(ctx, dto.LoginInput{Username: "ghost", Password: password})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repo failure surfaces", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenProvider)
		service := NewAccountService(log, repo, tokens)

		dbErr := errors.New("connection refused")
		repo.On("UserByUsername", ctx, "alice").Return(models.User{}, dbErr)

		_, _, err := service.Login(ctx, dto.LoginInput{Username: "alice", Password: password})

		assert.ErrorIs(t, err, dbErr)
	})
}
