package repository

import (
	"context"
	"fmt"

	"datespark/internal/domain/models"
	"datespark/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type LikesRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewLikesRepository(db Querier) *LikesRepo {
	return &LikesRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *LikesRepo) LikeExists(ctx context.Context, sourceID, targetID uuid.UUID) (bool, error) {
	const op = "repository.likes_repository.LikeExists"

	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM user_likes WHERE source_user_id = $1 AND liked_user_id = $2)",
		sourceID, targetID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *LikesRepo) AddLike(ctx context.Context, like models.UserLike) error {
	const op = "repository.likes_repository.AddLike"

	query, args, err := r.sb.Insert("user_likes").
		Columns("source_user_id", "liked_user_id").
		Values(like.SourceUserID, like.LikedUserID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *LikesRepo) DeleteLike(ctx context.Context, like models.UserLike) error {
	const op = "repository.likes_repository.DeleteLike"

	query, args, err := r.sb.Delete("user_likes").
		Where(sq.Eq{"source_user_id": like.SourceUserID, "liked_user_id": like.LikedUserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrLikeNotFound)
	}

	return nil
}

func (r *LikesRepo) LikedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const op = "repository.likes_repository.LikedIDs"

	query, args, err := r.sb.Select("liked_user_id").
		From("user_likes").
		Where(sq.Eq{"source_user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return ids, nil
}

// UserLikes lists member cards for the given predicate: "liked" returns
// users the source user liked, anything else returns users who liked them.
func (r *LikesRepo) UserLikes(ctx context.Context, filter LikesFilter) ([]models.User, int, error) {
	const op = "repository.likes_repository.UserLikes"

	var join, where string
	if filter.Predicate == "liked" {
		join = "JOIN user_likes l ON l.liked_user_id = u.id"
		where = "l.source_user_id = $1"
	} else {
		join = "JOIN user_likes l ON l.source_user_id = u.id"
		where = "l.liked_user_id = $1"
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users u %s WHERE %s", join, where)
	if err := r.db.QueryRow(ctx, countQuery, filter.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.username, u.known_as, u.date_of_birth, u.city, u.last_active,
			(SELECT p.url FROM photos p WHERE p.user_id = u.id AND p.is_main AND p.is_approved LIMIT 1)
		FROM users u %s
		WHERE %s
		ORDER BY u.username
		LIMIT $2 OFFSET $3`, join, where)

	rows, err := r.db.Query(ctx, query, filter.UserID, filter.PageSize, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			u        models.User
			photoURL *string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.KnownAs, &u.DateOfBirth, &u.City, &u.LastActive, &photoURL); err != nil {
			return nil, 0, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		if photoURL != nil {
			u.Photos = []models.Photo{{UserID: u.ID, URL: *photoURL, IsMain: true, IsApproved: true}}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return users, total, nil
}
