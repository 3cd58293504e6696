package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"testing"
	"time"

	"datespark/internal/domain/models"
	"datespark/internal/repository"
	"datespark/internal/storage/photostorage"

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

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepository) PhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) PhotoWithTagsByID(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) PhotosByUserID(ctx context.Context, userID uuid.UUID, approvedOnly bool) ([]models.Photo, error) {
	args := m.Called(ctx, userID, approvedOnly)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) UnapprovedPhotos(ctx context.Context) ([]models.Photo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) UserByPhotoID(ctx context.Context, photoID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, photoID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockPhotoRepository) SetApproved(ctx context.Context, photoID uuid.UUID) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func (m *MockPhotoRepository) SetMain(ctx context.Context, photoID uuid.UUID, isMain bool) error {
	args := m.Called(ctx, photoID, isMain)
	return args.Error(0)
}

func (m *MockPhotoRepository) ClearMain(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockPhotoRepository) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func (m *MockPhotoRepository) UsersWithoutMainPhoto(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPhotoRepository) ApprovalStatistics(ctx context.Context) ([]models.PhotoApprovalStat, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.PhotoApprovalStat), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) CreateTag(ctx context.Context, tag models.Tag) (uuid.UUID, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTagRepository) Tags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) TagsByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) DeleteTagByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockTagRepository) AddPhotoTag(ctx context.Context, photoID, tagID uuid.UUID) error {
	args := m.Called(ctx, photoID, tagID)
	return args.Error(0)
}

func (m *MockTagRepository) RemovePhotoTag(ctx context.Context, photoID, tagID uuid.UUID) error {
	args := m.Called(ctx, photoID, tagID)
	return args.Error(0)
}

func (m *MockTagRepository) TagsForPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Tag, error) {
	args := m.Called(ctx, photoID)
	return args.Get(0).([]models.Tag), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	users  *MockUserRepository
	photos *MockPhotoRepository
	tags   *MockTagRepository
}

func (m *MockUnitOfWork) Users() repository.UserRepository       { return m.users }
func (m *MockUnitOfWork) Photos() repository.PhotoRepository     { return m.photos }
func (m *MockUnitOfWork) Tags() repository.TagRepository         { return m.tags }
func (m *MockUnitOfWork) Likes() repository.LikesRepository      { return nil }
func (m *MockUnitOfWork) Messages() repository.MessageRepository { return nil }

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

type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) Upload(ctx context.Context, file *multipart.FileHeader) (photostorage.UploadResult, error) {
	args := m.Called(ctx, file)
	return args.Get(0).(photostorage.UploadResult), args.Error(1)
}

func (m *MockPhotoStorage) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

type testEnv struct {
	users   *MockUserRepository
	photos  *MockPhotoRepository
	tags    *MockTagRepository
	tx      *MockTxManager
	uow     *MockUnitOfWork
	store   *MockPhotoStorage
	service *UserService
}

func newTestEnv() *testEnv {
	users := new(MockUserRepository)
	photos := new(MockPhotoRepository)
	tags := new(MockTagRepository)
	uow := &MockUnitOfWork{users: users, photos: photos, tags: tags}
	tx := &MockTxManager{uow: uow}
	store := new(MockPhotoStorage)

	return &testEnv{
		users:   users,
		photos:  photos,
		tags:    tags,
		tx:      tx,
		uow:     uow,
		store:   store,
		service: NewUserService(slog.Default(), users, photos, tags, tx, store),
	}
}

var (
	testCtx  = context.Background()
	testUser = models.User{
		ID:       uuid.New(),
		Username: "alice",
		KnownAs:  "Alice",
		Roles:    []string{models.RoleMember},
	}
)

func TestUserService_GetMembers(t *testing.T) {
	env := newTestEnv()

	members := []models.User{{Username: "bob"}, {Username: "carol"}}
	env.users.On("Members", testCtx, mock.MatchedBy(func(f repository.MemberFilter) bool {
		// unset paging must be normalized before hitting the repo
		return f.Page == 1 && f.PageSize == 10
	})).Return(members, 12, nil)

	got, header, err := env.service.GetMembers(testCtx, repository.MemberFilter{CurrentUsername: "alice"})

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 12, header.TotalItems)
	assert.Equal(t, 2, header.TotalPages)
	env.users.AssertExpectations(t)
}

func TestUserService_GetMember(t *testing.T) {
	env := newTestEnv()

	env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
	env.photos.On("PhotosByUserID", testCtx, testUser.ID, false).Return([]models.Photo{{IsApproved: false}}, nil)

	got, err := env.service.GetMember(testCtx, "alice", true)

	require.NoError(t, err)
	assert.Len(t, got.Photos, 1)

	t.Run("others see approved only", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.photos.On("PhotosByUserID", testCtx, testUser.ID, true).Return([]models.Photo{}, nil)

		_, err := env.service.GetMember(testCtx, "alice", false)

		require.NoError(t, err)
		env.photos.AssertExpectations(t)
	})
}

func TestUserService_AddPhoto(t *testing.T) {
	file := &multipart.FileHeader{Filename: "selfie.jpg"}

	t.Run("new photo is unapproved and not main", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.store.On("Upload", testCtx, file).Return(photostorage.UploadResult{
			PublicID: "abc123",
			URL:      "https://images.test/abc123.jpg",
		}, nil)
		env.photos.On("CreatePhoto", testCtx, mock.MatchedBy(func(p *models.Photo) bool {
			return p.UserID == testUser.ID && !p.IsApproved && !p.IsMain
		})).Return(nil)

		photo, err := env.service.AddPhoto(testCtx, "alice", file, nil)

		require.NoError(t, err)
		assert.Equal(t, "https://images.test/abc123.jpg", photo.URL)
		require.NotNil(t, photo.PublicID)
		assert.Equal(t, "abc123", *photo.PublicID)
		env.photos.AssertExpectations(t)
	})

	t.Run("tags linked on upload", func(t *testing.T) {
		env := newTestEnv()
		sunset := models.Tag{ID: uuid.New(), Name: "sunset"}
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.store.On("Upload", testCtx, file).Return(photostorage.UploadResult{
			PublicID: "abc123",
			URL:      "https://images.test/abc123.jpg",
		}, nil)
		env.photos.On("CreatePhoto", testCtx, mock.Anything).Return(nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, mock.Anything).Return(models.Photo{UserID: testUser.ID}, nil)
		env.tags.On("TagsByNames", testCtx, []string{"sunset"}).Return([]models.Tag{sunset}, nil)
		env.tags.On("TagsForPhoto", testCtx, mock.Anything).Return([]models.Tag{}, nil)
		env.tags.On("AddPhotoTag", testCtx, mock.Anything, sunset.ID).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		photo, err := env.service.AddPhoto(testCtx, "alice", file, []string{" Sunset "})

		require.NoError(t, err)
		require.Len(t, photo.Tags, 1)
		assert.Equal(t, "sunset", photo.Tags[0].Name)
		env.tags.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		env := newTestEnv()
		uploadErr := errors.New("bucket unavailable")
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.store.On("Upload", testCtx, file).Return(photostorage.UploadResult{}, uploadErr)

		_, err := env.service.AddPhoto(testCtx, "alice", file, nil)

		assert.ErrorIs(t, err, uploadErr)
		env.photos.AssertNotCalled(t, "CreatePhoto", mock.Anything, mock.Anything)
	})

	t.Run("db failure cleans up uploaded file", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.store.On("Upload", testCtx, file).Return(photostorage.UploadResult{PublicID: "abc123", URL: "u"}, nil)
		env.photos.On("CreatePhoto", testCtx, mock.Anything).Return(errors.New("insert failed"))
		env.store.On("Delete", testCtx, "abc123").Return(nil)

		_, err := env.service.AddPhoto(testCtx, "alice", file, nil)

		assert.Error(t, err)
		env.store.AssertCalled(t, "Delete", testCtx, "abc123")
	})
}

func TestUserService_SetMainPhoto(t *testing.T) {
	photoID := uuid.New()

	t.Run("success", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID, IsApproved: true,
		}, nil)
		env.photos.On("ClearMain", testCtx, testUser.ID).Return(nil)
		env.photos.On("SetMain", testCtx, photoID, true).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		err := env.service.SetMainPhoto(testCtx, "alice", photoID)

		require.NoError(t, err)
		env.photos.AssertExpectations(t)
		env.uow.AssertExpectations(t)
	})

	t.Run("already main", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID, IsApproved: true, IsMain: true,
		}, nil)

		err := env.service.SetMainPhoto(testCtx, "alice", photoID)

		assert.ErrorIs(t, err, ErrAlreadyMainPhoto)
	})

	t.Run("unapproved photo allowed", func(t *testing.T) {
		// approval gates visibility on the read path, not promotion
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID,
		}, nil)
		env.photos.On("ClearMain", testCtx, testUser.ID).Return(nil)
		env.photos.On("SetMain", testCtx, photoID, true).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		err := env.service.SetMainPhoto(testCtx, "alice", photoID)

		require.NoError(t, err)
		env.photos.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: uuid.New(), IsApproved: true,
		}, nil)

		err := env.service.SetMainPhoto(testCtx, "alice", photoID)

		assert.ErrorIs(t, err, ErrNotPhotoOwner)
	})
}

func TestUserService_DeletePhoto(t *testing.T) {
	photoID := uuid.New()
	publicID := "abc123"

	t.Run("remote first, then row", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID, PublicID: &publicID,
		}, nil)
		env.store.On("Delete", testCtx, publicID).Return(nil)
		env.photos.On("DeletePhoto", testCtx, photoID).Return(nil)

		err := env.service.DeletePhoto(testCtx, "alice", photoID)

		require.NoError(t, err)
		env.store.AssertExpectations(t)
		env.photos.AssertExpectations(t)
	})

	t.Run("remote failure keeps the row", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID, PublicID: &publicID,
		}, nil)
		env.store.On("Delete", testCtx, publicID).Return(errors.New("remote unavailable"))

		err := env.service.DeletePhoto(testCtx, "alice", photoID)

		assert.Error(t, err)
		env.photos.AssertNotCalled(t, "DeletePhoto", mock.Anything, mock.Anything)
	})

	t.Run("local photo skips remote delete", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID,
		}, nil)
		env.photos.On("DeletePhoto", testCtx, photoID).Return(nil)

		err := env.service.DeletePhoto(testCtx, "alice", photoID)

		require.NoError(t, err)
		env.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("main photo rejected", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID, IsMain: true,
		}, nil)

		err := env.service.DeletePhoto(testCtx, "alice", photoID)

		assert.ErrorIs(t, err, ErrDeleteMainPhoto)
	})

	t.Run("someone else's photo rejected", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: uuid.New(),
		}, nil)

		err := env.service.DeletePhoto(testCtx, "alice", photoID)

		assert.ErrorIs(t, err, ErrNotPhotoOwner)
		env.photos.AssertNotCalled(t, "DeletePhoto", mock.Anything, mock.Anything)
	})
}

func TestUserService_AssignTags(t *testing.T) {
	photoID := uuid.New()
	sunset := models.Tag{ID: uuid.New(), Name: "sunset"}
	beach := models.Tag{ID: uuid.New(), Name: "beach"}
	city := models.Tag{ID: uuid.New(), Name: "city"}

	t.Run("diff applied", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID,
		}, nil)
		// desired: sunset + beach; current: sunset + city
		env.tags.On("TagsByNames", testCtx, []string{"sunset", "beach"}).Return([]models.Tag{sunset, beach}, nil)
		env.tags.On("TagsForPhoto", testCtx, photoID).Return([]models.Tag{sunset, city}, nil)
		env.tags.On("AddPhotoTag", testCtx, photoID, beach.ID).Return(nil)
		env.tags.On("RemovePhotoTag", testCtx, photoID, city.ID).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		got, err := env.service.AssignTags(testCtx, "alice", photoID, []string{"sunset", "beach"})

		require.NoError(t, err)
		assert.Len(t, got, 2)
		env.tags.AssertExpectations(t)
		env.tags.AssertNotCalled(t, "AddPhotoTag", testCtx, photoID, sunset.ID)
	})

	t.Run("missing tags created in the same transaction", func(t *testing.T) {
		env := newTestEnv()
		hikingID := uuid.New()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID,
		}, nil)
		env.tags.On("TagsByNames", testCtx, []string{"sunset", "hiking"}).Return([]models.Tag{sunset}, nil)
		env.tags.On("CreateTag", testCtx, models.Tag{Name: "hiking"}).Return(hikingID, nil)
		env.tags.On("TagsForPhoto", testCtx, photoID).Return([]models.Tag{sunset}, nil)
		env.tags.On("AddPhotoTag", testCtx, photoID, hikingID).Return(nil)
		env.uow.On("Complete", testCtx).Return(nil)

		got, err := env.service.AssignTags(testCtx, "alice", photoID, []string{"sunset", "hiking"})

		require.NoError(t, err)
		assert.Len(t, got, 2)
		env.tags.AssertExpectations(t)
	})

	t.Run("names normalized before resolving", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
		env.tx.On("Begin", testCtx).Return(nil)
		env.uow.On("Rollback", testCtx).Return()
		env.photos.On("PhotoByID", testCtx, photoID).Return(models.Photo{
			ID: photoID, UserID: testUser.ID,
		}, nil)
		env.tags.On("TagsByNames", testCtx, []string{"sunset"}).Return([]models.Tag{sunset}, nil)
		env.tags.On("TagsForPhoto", testCtx, photoID).Return([]models.Tag{sunset}, nil)
		env.uow.On("Complete", testCtx).Return(nil)

		got, err := env.service.AssignTags(testCtx, "alice", photoID, []string{" Sunset ", "SUNSET", "", "sunset"})

		require.NoError(t, err)
		assert.Len(t, got, 1)
		env.tags.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv()

	env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
	env.users.On("UpdateProfile", testCtx, mock.MatchedBy(func(u models.User) bool {
		return u.ID == testUser.ID && u.Introduction == "hi" && u.City == "Oslo"
	})).Return(nil)

	err := env.service.UpdateProfile(testCtx, "alice", "hi", "friends", "hiking", "Oslo", "Norway")

	require.NoError(t, err)
	env.users.AssertExpectations(t)
}

func TestUserService_GetUserPhotos(t *testing.T) {
	env := newTestEnv()

	photoID := uuid.New()
	env.users.On("UserByUsername", testCtx, "alice").Return(testUser, nil)
	env.photos.On("PhotosByUserID", testCtx, testUser.ID, false).Return([]models.Photo{
		{ID: photoID, CreatedAt: time.Now()},
	}, nil)
	env.tags.On("TagsForPhoto", testCtx, photoID).Return([]models.Tag{{Name: "sunset"}}, nil)

	photos, err := env.service.GetUserPhotos(testCtx, "alice", true)

	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Len(t, photos[0].Tags, 1)
	assert.Equal(t, "sunset", photos[0].Tags[0].Name)
}
