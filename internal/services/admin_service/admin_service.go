package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"datespark/internal/domain/models"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/metrics"
	"datespark/internal/repository"
	"datespark/internal/storage"
	"datespark/internal/storage/photostorage"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrInvalidRoles    = errors.New("invalid role list")
	ErrAlreadyApproved = errors.New("photo is already approved")
	ErrDuplicateTag    = errors.New("tag already exists")
	ErrBlankTagName    = errors.New("tag name is blank")
)

const tagCacheKey = "tags"

// Notifier pushes moderation outcomes to users who are currently online.
// Delivery is best effort.
type Notifier interface {
	NotifyPhotoApproved(username, photoURL string)
	NotifyPhotoRejected(username, photoURL string)
}

// EventPublisher emits moderation events to the message broker. A nil
// publisher disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, body interface{}) error
}

type PhotoModeratedEvent struct {
	PhotoID  uuid.UUID `json:"photo_id"`
	Username string    `json:"username"`
	Outcome  string    `json:"outcome"`
}

type AdminService struct {
	log       *slog.Logger
	users     repository.UserRepository
	photos    repository.PhotoRepository
	tags      repository.TagRepository
	tx        repository.TxManager
	fileStore photostorage.PhotoStorage
	notifier  Notifier
	publisher EventPublisher
	cache     *gocache.Cache
}

func NewAdminService(
	log *slog.Logger,
	users repository.UserRepository,
	photos repository.PhotoRepository,
	tags repository.TagRepository,
	tx repository.TxManager,
	fileStore photostorage.PhotoStorage,
	notifier Notifier,
	publisher EventPublisher,
	cache *gocache.Cache,
) *AdminService {
	return &AdminService{
		log:       log,
		users:     users,
		photos:    photos,
		tags:      tags,
		tx:        tx,
		fileStore: fileStore,
		notifier:  notifier,
		publisher: publisher,
		cache:     cache,
	}
}

func (s *AdminService) GetUsersWithRoles(ctx context.Context) ([]models.User, error) {
	const op = "admin_service.GetUsersWithRoles"

	users, err := s.users.UsersWithRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// EditRoles replaces a user's role set. The list is comma separated,
// must not be empty and may only contain known roles. Member is always
// kept so nobody ends up locked out of their own profile.
func (s *AdminService) EditRoles(ctx context.Context, username, roleList string) ([]string, error) {
	const op = "admin_service.EditRoles"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	roles := parseRoles(roleList)
	if len(roles) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRoles)
	}

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.UpdateRoles(ctx, user.ID, roles); err != nil {
		log.Error("failed to update roles", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("roles updated", slog.Any("roles", roles))

	return roles, nil
}

func parseRoles(roleList string) []string {
	known := map[string]string{
		strings.ToLower(models.RoleMember):    models.RoleMember,
		strings.ToLower(models.RoleModerator): models.RoleModerator,
		strings.ToLower(models.RoleAdmin):     models.RoleAdmin,
	}

	seen := map[string]bool{}
	var roles []string
	for _, raw := range strings.Split(roleList, ",") {
		name, ok := known[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return nil
		}
		if !seen[name] {
			seen[name] = true
			roles = append(roles, name)
		}
	}

	if len(roles) > 0 && !seen[models.RoleMember] {
		roles = append([]string{models.RoleMember}, roles...)
	}

	return roles
}

func (s *AdminService) GetPhotosForModeration(ctx context.Context) ([]models.Photo, map[uuid.UUID]string, error) {
	const op = "admin_service.GetPhotosForModeration"

	photos, err := s.photos.UnapprovedPhotos(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	owners := make(map[uuid.UUID]string, len(photos))
	for _, p := range photos {
		if _, ok := owners[p.UserID]; ok {
			continue
		}
		owner, err := s.users.UserByID(ctx, p.UserID)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		owners[p.UserID] = owner.Username
	}

	return photos, owners, nil
}

// ApprovePhoto marks the photo approved. The user's first approved photo
// becomes their main photo automatically.
func (s *AdminService) ApprovePhoto(ctx context.Context, photoID uuid.UUID) error {
	const op = "admin_service.ApprovePhoto"

	log := s.log.With(slog.String("op", op), slog.String("photo_id", photoID.String()))

	uow, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer uow.Rollback(ctx)

	photo, err := uow.Photos().PhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if photo.IsApproved {
		return fmt.Errorf("%s: %w", op, ErrAlreadyApproved)
	}

	if err := uow.Photos().SetApproved(ctx, photoID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	owner, err := uow.Photos().UserByPhotoID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if owner.MainPhoto() == nil {
		if err := uow.Photos().SetMain(ctx, photoID, true); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := uow.Complete(ctx); err != nil {
		log.Error("failed to commit", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.PhotosModerated.WithLabelValues("approved").Inc()
	s.notifier.NotifyPhotoApproved(owner.Username, photo.URL)
	s.publishEvent(ctx, PhotoModeratedEvent{PhotoID: photoID, Username: owner.Username, Outcome: "approved"})

	log.Info("photo approved", slog.String("username", owner.Username))

	return nil
}

// RejectPhoto removes the photo outright. The remote copy goes first so
// a failed remote delete leaves the row for a retry.
func (s *AdminService) RejectPhoto(ctx context.Context, photoID uuid.UUID) error {
	const op = "admin_service.RejectPhoto"

	log := s.log.With(slog.String("op", op), slog.String("photo_id", photoID.String()))

	photo, err := s.photos.PhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	owner, err := s.photos.UserByPhotoID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if photo.PublicID != nil {
		if err := s.fileStore.Delete(ctx, *photo.PublicID); err != nil {
			log.Error("failed to delete remote file", sl.Err(err))

			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.photos.DeletePhoto(ctx, photoID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.PhotosModerated.WithLabelValues("rejected").Inc()
	s.notifier.NotifyPhotoRejected(owner.Username, photo.URL)
	s.publishEvent(ctx, PhotoModeratedEvent{PhotoID: photoID, Username: owner.Username, Outcome: "rejected"})

	log.Info("photo rejected", slog.String("username", owner.Username))

	return nil
}

func (s *AdminService) publishEvent(ctx context.Context, event PhotoModeratedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish moderation event", sl.Err(err))
	}
}

func (s *AdminService) CreateTag(ctx context.Context, name string) (models.Tag, error) {
	const op = "admin_service.CreateTag"

	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return models.Tag{}, fmt.Errorf("%s: %w", op, ErrBlankTagName)
	}

	id, err := s.tags.CreateTag(ctx, models.Tag{Name: name})
	if err != nil {
		if errors.Is(err, storage.ErrTagExists) {
			return models.Tag{}, fmt.Errorf("%s: %w", op, ErrDuplicateTag)
		}

		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(tagCacheKey)

	return models.Tag{ID: id, Name: name}, nil
}

// GetTags serves the tag list from a short-lived cache: the list changes
// rarely and is read on every moderation screen.
func (s *AdminService) GetTags(ctx context.Context) ([]models.Tag, error) {
	const op = "admin_service.GetTags"

	if cached, ok := s.cache.Get(tagCacheKey); ok {
		return cached.([]models.Tag), nil
	}

	tags, err := s.tags.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Set(tagCacheKey, tags, gocache.DefaultExpiration)

	return tags, nil
}

func (s *AdminService) DeleteTag(ctx context.Context, name string) error {
	const op = "admin_service.DeleteTag"

	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return fmt.Errorf("%s: %w", op, ErrBlankTagName)
	}

	if err := s.tags.DeleteTagByName(ctx, name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(tagCacheKey)

	return nil
}

func (s *AdminService) GetUsersWithoutMainPhoto(ctx context.Context) ([]string, error) {
	const op = "admin_service.GetUsersWithoutMainPhoto"

	usernames, err := s.photos.UsersWithoutMainPhoto(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return usernames, nil
}

func (s *AdminService) GetPhotoApprovalStatistics(ctx context.Context) ([]models.PhotoApprovalStat, error) {
	const op = "admin_service.GetPhotoApprovalStatistics"

	stats, err := s.photos.ApprovalStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
