package repository

import (
	"context"
	"time"

	"datespark/internal/domain/models"
	"datespark/internal/lib/pagination"

	"github.com/google/uuid"
)

type MemberFilter struct {
	pagination.Params
	CurrentUsername string
	Gender          string
	MinAge          int
	MaxAge          int
	OrderBy         string // "created" or "last_active"
}

type LikesFilter struct {
	pagination.Params
	UserID    uuid.UUID
	Predicate string // "liked" or "likedBy"
}

type MessageFilter struct {
	pagination.Params
	Username  string
	Container models.MessageContainer
}

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, user models.User) error
	UpdateLastActive(ctx context.Context, userID uuid.UUID) error
	UpdateRoles(ctx context.Context, userID uuid.UUID, roles []string) error
	UsersWithRoles(ctx context.Context) ([]models.User, error)
	Members(ctx context.Context, filter MemberFilter) ([]models.User, int, error)
}

type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo *models.Photo) error
	PhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error)
	PhotoWithTagsByID(ctx context.Context, id uuid.UUID) (models.Photo, error)
	PhotosByUserID(ctx context.Context, userID uuid.UUID, approvedOnly bool) ([]models.Photo, error)
	UnapprovedPhotos(ctx context.Context) ([]models.Photo, error)
	UserByPhotoID(ctx context.Context, photoID uuid.UUID) (models.User, error)
	SetApproved(ctx context.Context, photoID uuid.UUID) error
	SetMain(ctx context.Context, photoID uuid.UUID, isMain bool) error
	ClearMain(ctx context.Context, userID uuid.UUID) error
	DeletePhoto(ctx context.Context, photoID uuid.UUID) error
	UsersWithoutMainPhoto(ctx context.Context) ([]string, error)
	ApprovalStatistics(ctx context.Context) ([]models.PhotoApprovalStat, error)
}

type TagRepository interface {
	CreateTag(ctx context.Context, tag models.Tag) (uuid.UUID, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	TagsByNames(ctx context.Context, names []string) ([]models.Tag, error)
	DeleteTagByName(ctx context.Context, name string) error
	AddPhotoTag(ctx context.Context, photoID, tagID uuid.UUID) error
	RemovePhotoTag(ctx context.Context, photoID, tagID uuid.UUID) error
	TagsForPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Tag, error)
}

type LikesRepository interface {
	LikeExists(ctx context.Context, sourceID, targetID uuid.UUID) (bool, error)
	AddLike(ctx context.Context, like models.UserLike) error
	DeleteLike(ctx context.Context, like models.UserLike) error
	LikedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	UserLikes(ctx context.Context, filter LikesFilter) ([]models.User, int, error)
}

type MessageRepository interface {
	AddMessage(ctx context.Context, message *models.Message) error
	Message(ctx context.Context, id uuid.UUID) (models.Message, error)
	MessagesForUser(ctx context.Context, filter MessageFilter) ([]models.Message, int, error)
	MessageThread(ctx context.Context, currentUsername, otherUsername string) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, currentUsername, otherUsername string) error
	UpdateDeletedFlags(ctx context.Context, message models.Message) error
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

// UnitOfWork bundles the per-entity repositories behind one transaction.
// Services begin one at the operation boundary and Complete exactly once;
// Rollback after Complete is a no-op.
type UnitOfWork interface {
	Users() UserRepository
	Photos() PhotoRepository
	Tags() TagRepository
	Likes() LikesRepository
	Messages() MessageRepository
	Complete(ctx context.Context) error
	Rollback(ctx context.Context)
}

type TxManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
