package repository

import (
	"context"
	"errors"
	"fmt"

	"datespark/internal/domain/models"
	"datespark/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

var photoColumns = []string{
	"id",
	"user_id",
	"url",
	"public_id",
	"is_main",
	"is_approved",
	"created_at",
}

type PhotoRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewPhotoRepository(db Querier) *PhotoRepo {
	return &PhotoRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PhotoRepo) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	const op = "repository.photo_repository.CreatePhoto"

	query, args, err := r.sb.Insert("photos").
		Columns(photoColumns...).
		Values(
			photo.ID,
			photo.UserID,
			photo.URL,
			photo.PublicID,
			photo.IsMain,
			photo.IsApproved,
			photo.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PhotoRepo) PhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.photo_repository.PhotoByID"

	query, args, err := r.sb.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var p models.Photo
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.UserID,
		&p.URL,
		&p.PublicID,
		&p.IsMain,
		&p.IsApproved,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *PhotoRepo) PhotoWithTagsByID(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.photo_repository.PhotoWithTagsByID"

	photo, err := r.PhotoByID(ctx, id)
	if err != nil {
		return models.Photo{}, err
	}

	query, args, err := r.sb.Select("t.id", "t.name").
		From("tags t").
		Join("photo_tags pt ON pt.tag_id = t.id").
		Where(sq.Eq{"pt.photo_id": id}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return models.Photo{}, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		photo.Tags = append(photo.Tags, t)
	}
	if err := rows.Err(); err != nil {
		return models.Photo{}, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return photo, nil
}

func (r *PhotoRepo) PhotosByUserID(ctx context.Context, userID uuid.UUID, approvedOnly bool) ([]models.Photo, error) {
	const op = "repository.photo_repository.PhotosByUserID"

	builder := r.sb.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at")

	if approvedOnly {
		builder = builder.Where(sq.Eq{"is_approved": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanPhotos(ctx, op, query, args)
}

func (r *PhotoRepo) UnapprovedPhotos(ctx context.Context) ([]models.Photo, error) {
	const op = "repository.photo_repository.UnapprovedPhotos"

	query, args, err := r.sb.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"is_approved": false}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanPhotos(ctx, op, query, args)
}

func (r *PhotoRepo) scanPhotos(ctx context.Context, op, query string, args []interface{}) ([]models.Photo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var p models.Photo
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.URL,
			&p.PublicID,
			&p.IsMain,
			&p.IsApproved,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return photos, nil
}

func (r *PhotoRepo) UserByPhotoID(ctx context.Context, photoID uuid.UUID) (models.User, error) {
	const op = "repository.photo_repository.UserByPhotoID"

	query, args, err := r.sb.Select("u.id", "u.username", "u.known_as", "u.roles").
		From("users u").
		Join("photos p ON p.user_id = u.id").
		Where(sq.Eq{"p.id": photoID}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Username, &user.KnownAs, &user.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user.Photos, err = r.PhotosByUserID(ctx, user.ID, false)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *PhotoRepo) SetApproved(ctx context.Context, photoID uuid.UUID) error {
	const op = "repository.photo_repository.SetApproved"

	return r.setFlag(ctx, op, photoID, "is_approved", true)
}

func (r *PhotoRepo) SetMain(ctx context.Context, photoID uuid.UUID, isMain bool) error {
	const op = "repository.photo_repository.SetMain"

	return r.setFlag(ctx, op, photoID, "is_main", isMain)
}

func (r *PhotoRepo) setFlag(ctx context.Context, op string, photoID uuid.UUID, column string, value bool) error {
	query, args, err := r.sb.Update("photos").
		Set(column, value).
		Where(sq.Eq{"id": photoID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return nil
}

func (r *PhotoRepo) ClearMain(ctx context.Context, userID uuid.UUID) error {
	const op = "repository.photo_repository.ClearMain"

	query, args, err := r.sb.Update("photos").
		Set("is_main", false).
		Where(sq.Eq{"user_id": userID, "is_main": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PhotoRepo) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	const op = "repository.photo_repository.DeletePhoto"

	query, args, err := r.sb.Delete("photos").
		Where(sq.Eq{"id": photoID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return nil
}

func (r *PhotoRepo) UsersWithoutMainPhoto(ctx context.Context) ([]string, error) {
	const op = "repository.photo_repository.UsersWithoutMainPhoto"

	rows, err := r.db.Query(ctx, `
		SELECT u.username
		FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM photos p WHERE p.user_id = u.id AND p.is_main
		)
		ORDER BY u.username`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		usernames = append(usernames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return usernames, nil
}

func (r *PhotoRepo) ApprovalStatistics(ctx context.Context) ([]models.PhotoApprovalStat, error) {
	const op = "repository.photo_repository.ApprovalStatistics"

	rows, err := r.db.Query(ctx, `
		SELECT u.username,
			COUNT(p.id) FILTER (WHERE p.is_approved)     AS approved_photos,
			COUNT(p.id) FILTER (WHERE NOT p.is_approved) AS unapproved_photos
		FROM users u
		LEFT JOIN photos p ON p.user_id = u.id
		GROUP BY u.username
		ORDER BY u.username`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var stats []models.PhotoApprovalStat
	for rows.Next() {
		var s models.PhotoApprovalStat
		if err := rows.Scan(&s.Username, &s.ApprovedPhotos, &s.UnapprovedPhotos); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return stats, nil
}
