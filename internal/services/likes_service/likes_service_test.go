package services

import (
	"context"
	"log/slog"
	"testing"

	"datespark/internal/domain/models"
	"datespark/internal/lib/pagination"
	"datespark/internal/repository"
	"datespark/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type MockLikesRepository struct {
	mock.Mock
}

func (m *MockLikesRepository) LikeExists(ctx context.Context, sourceID, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sourceID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikesRepository) AddLike(ctx context.Context, like models.UserLike) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikesRepository) DeleteLike(ctx context.Context, like models.UserLike) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikesRepository) LikedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLikesRepository) UserLikes(ctx context.Context, filter repository.LikesFilter) ([]models.User, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.User), args.Int(1), args.Error(2)
}

var (
	testCtx = context.Background()
	alice   = models.User{ID: uuid.New(), Username: "alice"}
	bob     = models.User{ID: uuid.New(), Username: "bob"}
)

func newService() (*LikesService, *MockUserRepository, *MockLikesRepository) {
	users := new(MockUserRepository)
	likes := new(MockLikesRepository)
	return NewLikesService(slog.Default(), users, likes), users, likes
}

func TestLikesService_ToggleLike(t *testing.T) {
	pair := models.UserLike{SourceUserID: alice.ID, LikedUserID: bob.ID}

	t.Run("first toggle adds", func(t *testing.T) {
		service, users, likes := newService()
		users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
		users.On("UserByUsername", testCtx, "bob").Return(bob, nil)
		likes.On("LikeExists", testCtx, alice.ID, bob.ID).Return(false, nil)
		likes.On("AddLike", testCtx, pair).Return(nil)

		liked, err := service.ToggleLike(testCtx, "alice", "bob")

		require.NoError(t, err)
		assert.True(t, liked)
		likes.AssertExpectations(t)
	})

	t.Run("second toggle removes", func(t *testing.T) {
		service, users, likes := newService()
		users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
		users.On("UserByUsername", testCtx, "bob").Return(bob, nil)
		likes.On("LikeExists", testCtx, alice.ID, bob.ID).Return(true, nil)
		likes.On("DeleteLike", testCtx, pair).Return(nil)

		liked, err := service.ToggleLike(testCtx, "alice", "bob")

		require.NoError(t, err)
		assert.False(t, liked)
		likes.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything)
	})

	t.Run("self like rejected", func(t *testing.T) {
		service, users, _ := newService()

		_, err := service.ToggleLike(testCtx, "alice", "alice")

		assert.ErrorIs(t, err, ErrSelfLike)
		users.AssertNotCalled(t, "UserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("unknown target", func(t *testing.T) {
		service, users, _ := newService()
		users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
		users.On("UserByUsername", testCtx, "ghost").Return(models.User{}, storage.ErrUserNotFound)

		_, err := service.ToggleLike(testCtx, "alice", "ghost")

		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestLikesService_GetCurrentUserLikeIDs(t *testing.T) {
	service, users, likes := newService()

	ids := []uuid.UUID{bob.ID}
	users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
	likes.On("LikedIDs", testCtx, alice.ID).Return(ids, nil)

	got, err := service.GetCurrentUserLikeIDs(testCtx, "alice")

	require.NoError(t, err)
	assert.Equal(t, ids, got)
}

func TestLikesService_GetUserLikes(t *testing.T) {
	service, users, likes := newService()

	users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
	likes.On("UserLikes", testCtx, mock.MatchedBy(func(f repository.LikesFilter) bool {
		return f.UserID == alice.ID && f.Predicate == "liked" && f.Page == 1 && f.PageSize == 10
	})).Return([]models.User{bob}, 1, nil)

	got, header, err := service.GetUserLikes(testCtx, "alice", "liked", pagination.Params{})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, header.TotalItems)
}
