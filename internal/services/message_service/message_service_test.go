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

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) AddMessage(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) Message(ctx context.Context, id uuid.UUID) (models.Message, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Message), args.Error(1)
}

func (m *MockMessageRepository) MessagesForUser(ctx context.Context, filter repository.MessageFilter) ([]models.Message, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Message), args.Int(1), args.Error(2)
}

func (m *MockMessageRepository) MessageThread(ctx context.Context, currentUsername, otherUsername string) ([]models.Message, error) {
	args := m.Called(ctx, currentUsername, otherUsername)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkThreadRead(ctx context.Context, currentUsername, otherUsername string) error {
	args := m.Called(ctx, currentUsername, otherUsername)
	return args.Error(0)
}

func (m *MockMessageRepository) UpdateDeletedFlags(ctx context.Context, message models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	messages *MockMessageRepository
}

func (m *MockUnitOfWork) Users() repository.UserRepository       { return nil }
func (m *MockUnitOfWork) Photos() repository.PhotoRepository     { return nil }
func (m *MockUnitOfWork) Tags() repository.TagRepository         { return nil }
func (m *MockUnitOfWork) Likes() repository.LikesRepository      { return nil }
func (m *MockUnitOfWork) Messages() repository.MessageRepository { return m.messages }

func (m *MockUnitOfWork) Complete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) {
	m.Called(ctx)
}

type MockTxManager struct {
	mock.Mock
	uow *MockUnitOfWork
}

func (m *MockTxManager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	args := m.Called(ctx)
	return m.uow, args.Error(0)
}

var (
	testCtx = context.Background()
	alice   = models.User{ID: uuid.New(), Username: "alice"}
	bob     = models.User{ID: uuid.New(), Username: "bob"}
)

type testEnv struct {
	users    *MockUserRepository
	messages *MockMessageRepository
	uow      *MockUnitOfWork
	tx       *MockTxManager
	service  *MessageService
}

func newTestEnv() *testEnv {
	users := new(MockUserRepository)
	messages := new(MockMessageRepository)
	uow := &MockUnitOfWork{messages: messages}
	tx := &MockTxManager{uow: uow}

	return &testEnv{
		users:    users,
		messages: messages,
		uow:      uow,
		tx:       tx,
		service:  NewMessageService(slog.Default(), users, messages, tx),
	}
}

func TestMessageService_CreateMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
		env.users.On("UserByUsername", testCtx, "bob").Return(bob, nil)
		env.messages.On("AddMessage", testCtx, mock.MatchedBy(func(m *models.Message) bool {
			return m.SenderUsername == "alice" &&
				m.RecipientUsername == "bob" &&
				m.Content == "hello" &&
				m.DateRead == nil
		})).Return(nil)

		message, err := env.service.CreateMessage(testCtx, "alice", "bob", "hello")

		require.NoError(t, err)
		assert.Equal(t, alice.ID, message.SenderID)
		assert.Equal(t, bob.ID, message.RecipientID)
		env.messages.AssertExpectations(t)
	})

	t.Run("self message rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.CreateMessage(testCtx, "alice", "alice", "hi me")

		assert.ErrorIs(t, err, ErrSelfMessage)
		env.messages.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
		env.users.On("UserByUsername", testCtx, "ghost").Return(models.User{}, storage.ErrUserNotFound)

		_, err := env.service.CreateMessage(testCtx, "alice", "ghost", "hello")

		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestMessageService_GetMessagesForUser(t *testing.T) {
	env := newTestEnv()

	env.messages.On("MessagesForUser", testCtx, mock.MatchedBy(func(f repository.MessageFilter) bool {
		return f.Username == "bob" && f.Container == models.ContainerInbox && f.Page == 1 && f.PageSize == 10
	})).Return([]models.Message{{Content: "hello"}}, 1, nil)

	messages, header, err := env.service.GetMessagesForUser(testCtx, "bob", models.ContainerInbox, pagination.Params{})

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, 1, header.TotalItems)
}

func TestMessageService_GetMessageThread(t *testing.T) {
	env := newTestEnv()

	env.users.On("UserByUsername", testCtx, "alice").Return(alice, nil)
	env.messages.On("MarkThreadRead", testCtx, "bob", "alice").Return(nil)
	env.messages.On("MessageThread", testCtx, "bob", "alice").Return([]models.Message{{Content: "hello"}}, nil)

	thread, err := env.service.GetMessageThread(testCtx, "bob", "alice")

	require.NoError(t, err)
	require.Len(t, thread, 1)
	env.messages.AssertExpectations(t)
}

func TestMessageService_DeleteMessage(t *testing.T) {
	messageID := uuid.New()
	base := models.Message{
		ID:                messageID,
		SenderUsername:    "alice",
		RecipientUsername: "bob",
	}

	t.Run("sender delete sets flag", func(t *testing.T) {
		env := newTestEnv()
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.messages.On("Message", testCtx, messageID).Return(base, nil)
		env.messages.On("UpdateDeletedFlags", testCtx, mock.MatchedBy(func(m models.Message) bool {
			return m.SenderDeleted && !m.RecipientDeleted
		})).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		err := env.service.DeleteMessage(testCtx, "alice", messageID)

		require.NoError(t, err)
		env.messages.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
	})

	t.Run("second side removes the row", func(t *testing.T) {
		env := newTestEnv()
		already := base
		already.SenderDeleted = true

		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.messages.On("Message", testCtx, messageID).Return(already, nil)
		env.messages.On("DeleteMessage", testCtx, messageID).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		err := env.service.DeleteMessage(testCtx, "bob", messageID)

		require.NoError(t, err)
		env.messages.AssertNotCalled(t, "UpdateDeletedFlags", mock.Anything, mock.Anything)
	})

	t.Run("outsider rejected", func(t *testing.T) {
		env := newTestEnv()
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.messages.On("Message", testCtx, messageID).Return(base, nil)

		err := env.service.DeleteMessage(testCtx, "carol", messageID)

		assert.ErrorIs(t, err, ErrNotResolvable)
	})

	t.Run("missing message", func(t *testing.T) {
		env := newTestEnv()
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.messages.On("Message", testCtx, messageID).Return(models.Message{}, storage.ErrMessageNotFound)

		err := env.service.DeleteMessage(testCtx, "alice", messageID)

		assert.ErrorIs(t, err, storage.ErrMessageNotFound)
	})
}
