package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"datespark/internal/domain/models"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	"datespark/internal/repository"
	"datespark/internal/storage/photostorage"

	"github.com/google/uuid"
)

var (
	ErrNotPhotoOwner    = errors.New("photo does not belong to user")
	ErrAlreadyMainPhoto = errors.New("photo is already the main photo")
	ErrDeleteMainPhoto  = errors.New("main photo cannot be deleted")
)

type UserService struct {
	log       *slog.Logger
	users     repository.UserRepository
	photos    repository.PhotoRepository
	tags      repository.TagRepository
	tx        repository.TxManager
	fileStore photostorage.PhotoStorage
}

func NewUserService(
	log *slog.Logger,
	users repository.UserRepository,
	photos repository.PhotoRepository,
	tags repository.TagRepository,
	tx repository.TxManager,
	fileStore photostorage.PhotoStorage,
) *UserService {
	return &UserService{
		log:       log,
		users:     users,
		photos:    photos,
		tags:      tags,
		tx:        tx,
		fileStore: fileStore,
	}
}

// GetMembers returns one page of browsable profiles for the member grid.
func (s *UserService) GetMembers(ctx context.Context, filter repository.MemberFilter) ([]models.User, pagination.Header, error) {
	const op = "user_service.GetMembers"

	filter.Normalize()

	users, total, err := s.users.Members(ctx, filter)
	if err != nil {
		s.log.Error("failed to list members", slog.String("op", op), sl.Err(err))

		return nil, pagination.Header{}, fmt.Errorf("%s: %w", op, err)
	}

	paged := pagination.NewPagedList(users, total, filter.Params)

	return users, paged.Header(), nil
}

// GetMember returns one profile. The owner sees all their photos,
// everyone else only the approved ones.
func (s *UserService) GetMember(ctx context.Context, username string, isCurrentUser bool) (models.User, error) {
	const op = "user_service.GetMember"

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user.Photos, err = s.photos.PhotosByUserID(ctx, user.ID, !isCurrentUser)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, username string, introduction, lookingFor, interests, city, country string) error {
	const op = "user_service.UpdateProfile"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user.Introduction = introduction
	user.LookingFor = lookingFor
	user.Interests = interests
	user.City = city
	user.Country = country

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		log.Error("failed to update profile", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("profile updated")

	return nil
}

// AddPhoto stores the file and records the photo, linking any given tag
// names. New photos always enter the moderation queue unapproved and
// never become main here.
func (s *UserService) AddPhoto(ctx context.Context, username string, file *multipart.FileHeader, tagNames []string) (models.Photo, error) {
	const op = "user_service.AddPhoto"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.fileStore.Upload(ctx, file)
	if err != nil {
		log.Error("failed to upload file", sl.Err(err))

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	photo := models.NewPhoto(user.ID, result.URL, result.PublicID)

	if err := s.photos.CreatePhoto(ctx, photo); err != nil {
		log.Error("failed to save photo", sl.Err(err))

		if delErr := s.fileStore.Delete(ctx, result.PublicID); delErr != nil {
			log.Warn("failed to clean up uploaded file", sl.Err(delErr))
		}

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	if names := normalizeTagNames(tagNames); len(names) > 0 {
		tags, err := s.AssignTags(ctx, username, photo.ID, names)
		if err != nil {
			return models.Photo{}, fmt.Errorf("%s: %w", op, err)
		}
		photo.Tags = tags
	}

	log.Info("photo added", slog.String("photo_id", photo.ID.String()))

	return *photo, nil
}

// SetMainPhoto promotes one of the user's photos to main, demoting the
// current main in the same transaction. Approval is not required here;
// unapproved photos are hidden by the read-path filter instead.
func (s *UserService) SetMainPhoto(ctx context.Context, username string, photoID uuid.UUID) error {
	const op = "user_service.SetMainPhoto"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	uow, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer uow.Rollback(ctx)

	photo, err := uow.Photos().PhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if photo.UserID != user.ID {
		return fmt.Errorf("%s: %w", op, ErrNotPhotoOwner)
	}
	if photo.IsMain {
		return fmt.Errorf("%s: %w", op, ErrAlreadyMainPhoto)
	}

	if err := uow.Photos().ClearMain(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := uow.Photos().SetMain(ctx, photoID, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := uow.Complete(ctx); err != nil {
		log.Error("failed to commit", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("main photo set", slog.String("photo_id", photoID.String()))

	return nil
}

// DeletePhoto removes the user's own photo. The main photo is protected;
// the remote copy is removed before the row so a failed remote delete
// leaves the photo visible instead of orphaned.
func (s *UserService) DeletePhoto(ctx context.Context, username string, photoID uuid.UUID) error {
	const op = "user_service.DeletePhoto"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	photo, err := s.photos.PhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if photo.UserID != user.ID {
		return fmt.Errorf("%s: %w", op, ErrNotPhotoOwner)
	}
	if photo.IsMain {
		return fmt.Errorf("%s: %w", op, ErrDeleteMainPhoto)
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

	log.Info("photo deleted", slog.String("photo_id", photoID.String()))

	return nil
}

// AssignTags reconciles a photo's tags with the desired set: missing
// links are added, stale ones removed, matching ones left alone. Names
// without a catalog row get one in the same transaction.
func (s *UserService) AssignTags(ctx context.Context, username string, photoID uuid.UUID, tagNames []string) ([]models.Tag, error) {
	const op = "user_service.AssignTags"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := normalizeTagNames(tagNames)

	uow, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer uow.Rollback(ctx)

	photo, err := uow.Photos().PhotoByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if photo.UserID != user.ID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotPhotoOwner)
	}

	desired, err := uow.Tags().TagsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	known := make(map[string]bool, len(desired))
	for _, t := range desired {
		known[t.Name] = true
	}
	for _, name := range names {
		if known[name] {
			continue
		}
		id, err := uow.Tags().CreateTag(ctx, models.Tag{Name: name})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		desired = append(desired, models.Tag{ID: id, Name: name})
	}

	current, err := uow.Tags().TagsForPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	desiredIDs := make(map[uuid.UUID]bool, len(desired))
	for _, t := range desired {
		desiredIDs[t.ID] = true
	}
	currentIDs := make(map[uuid.UUID]bool, len(current))
	for _, t := range current {
		currentIDs[t.ID] = true
	}

	for _, t := range desired {
		if !currentIDs[t.ID] {
			if err := uow.Tags().AddPhotoTag(ctx, photoID, t.ID); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}
	for _, t := range current {
		if !desiredIDs[t.ID] {
			if err := uow.Tags().RemovePhotoTag(ctx, photoID, t.ID); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err := uow.Complete(ctx); err != nil {
		log.Error("failed to commit", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return desired, nil
}

func (s *UserService) GetUserPhotos(ctx context.Context, username string, isCurrentUser bool) ([]models.Photo, error) {
	const op = "user_service.GetUserPhotos"

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photos, err := s.photos.PhotosByUserID(ctx, user.ID, !isCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range photos {
		photos[i].Tags, err = s.tags.TagsForPhoto(ctx, photos[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return photos, nil
}

func (s *UserService) GetPhotoTags(ctx context.Context, photoID uuid.UUID) ([]models.Tag, error) {
	const op = "user_service.GetPhotoTags"

	if _, err := s.photos.PhotoByID(ctx, photoID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := s.tags.TagsForPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}

// normalizeTagNames trims, lowercases and dedupes tag names, dropping
// any that end up empty.
func normalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
