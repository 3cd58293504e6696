package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"datespark/internal/domain/models"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	"datespark/internal/repository"

	"github.com/google/uuid"
)

var ErrSelfLike = errors.New("users cannot like themselves")

type LikesService struct {
	log   *slog.Logger
	users repository.UserRepository
	likes repository.LikesRepository
}

func NewLikesService(log *slog.Logger, users repository.UserRepository, likes repository.LikesRepository) *LikesService {
	return &LikesService{
		log:   log,
		users: users,
		likes: likes,
	}
}

// ToggleLike flips the like from the current user to the target: absent
// becomes present, present becomes absent. Liked is the state after the
// call.
func (s *LikesService) ToggleLike(ctx context.Context, sourceUsername, targetUsername string) (liked bool, err error) {
	const op = "likes_service.ToggleLike"

	log := s.log.With(
		slog.String("op", op),
		slog.String("source", sourceUsername),
		slog.String("target", targetUsername),
	)

	if sourceUsername == targetUsername {
		return false, fmt.Errorf("%s: %w", op, ErrSelfLike)
	}

	source, err := s.users.UserByUsername(ctx, sourceUsername)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	target, err := s.users.UserByUsername(ctx, targetUsername)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	like := models.UserLike{SourceUserID: source.ID, LikedUserID: target.ID}

	exists, err := s.likes.LikeExists(ctx, source.ID, target.ID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		if err := s.likes.DeleteLike(ctx, like); err != nil {
			log.Error("failed to delete like", sl.Err(err))

			return false, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("like removed")

		return false, nil
	}

	if err := s.likes.AddLike(ctx, like); err != nil {
		log.Error("failed to add like", sl.Err(err))

		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("like added")

	return true, nil
}

func (s *LikesService) GetCurrentUserLikeIDs(ctx context.Context, username string) ([]uuid.UUID, error) {
	const op = "likes_service.GetCurrentUserLikeIDs"

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := s.likes.LikedIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}

func (s *LikesService) GetUserLikes(ctx context.Context, username, predicate string, params pagination.Params) ([]models.User, pagination.Header, error) {
	const op = "likes_service.GetUserLikes"

	params.Normalize()

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, pagination.Header{}, fmt.Errorf("%s: %w", op, err)
	}

	users, total, err := s.likes.UserLikes(ctx, repository.LikesFilter{
		Params:    params,
		UserID:    user.ID,
		Predicate: predicate,
	})
	if err != nil {
		return nil, pagination.Header{}, fmt.Errorf("%s: %w", op, err)
	}

	paged := pagination.NewPagedList(users, total, params)

	return users, paged.Header(), nil
}
