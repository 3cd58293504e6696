package repository

import (
	"context"
	"errors"
	"fmt"

	"datespark/internal/domain/models"
	"datespark/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
)

type TagRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewTagRepository(db Querier) *TagRepo {
	return &TagRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TagRepo) CreateTag(ctx context.Context, tag models.Tag) (uuid.UUID, error) {
	const op = "repository.tag_repository.CreateTag"

	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}

	query, args, err := r.sb.Insert("tags").
		Columns("id", "name").
		Values(tag.ID, tag.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrTagExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *TagRepo) Tags(ctx context.Context) ([]models.Tag, error) {
	const op = "repository.tag_repository.Tags"

	query, args, err := r.sb.Select("id", "name").
		From("tags").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanTags(ctx, op, query, args)
}

func (r *TagRepo) TagsByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	const op = "repository.tag_repository.TagsByNames"

	if len(names) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select("id", "name").
		From("tags").
		Where(sq.Eq{"name": names}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanTags(ctx, op, query, args)
}

func (r *TagRepo) scanTags(ctx context.Context, op, query string, args []interface{}) ([]models.Tag, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return tags, nil
}

func (r *TagRepo) DeleteTagByName(ctx context.Context, name string) error {
	const op = "repository.tag_repository.DeleteTagByName"

	query, args, err := r.sb.Delete("tags").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTagNotFound)
	}

	return nil
}

func (r *TagRepo) AddPhotoTag(ctx context.Context, photoID, tagID uuid.UUID) error {
	const op = "repository.tag_repository.AddPhotoTag"

	query, args, err := r.sb.Insert("photo_tags").
		Columns("photo_id", "tag_id").
		Values(photoID, tagID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TagRepo) RemovePhotoTag(ctx context.Context, photoID, tagID uuid.UUID) error {
	const op = "repository.tag_repository.RemovePhotoTag"

	query, args, err := r.sb.Delete("photo_tags").
		Where(sq.Eq{"photo_id": photoID, "tag_id": tagID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TagRepo) TagsForPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Tag, error) {
	const op = "repository.tag_repository.TagsForPhoto"

	query, args, err := r.sb.Select("t.id", "t.name").
		From("tags t").
		Join("photo_tags pt ON pt.tag_id = t.id").
		Where(sq.Eq{"pt.photo_id": photoID}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanTags(ctx, op, query, args)
}
