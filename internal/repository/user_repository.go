package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datespark/internal/domain/models"
	"datespark/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

var userColumns = []string{
	"id",
	"username",
	"known_as",
	"gender",
	"date_of_birth",
	"city",
	"country",
	"introduction",
	"interests",
	"looking_for",
	"password_hash",
	"roles",
	"created_at",
	"last_active",
}

type UserRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(
			"id",
			"username",
			"known_as",
			"gender",
			"date_of_birth",
			"city",
			"country",
			"password_hash",
			"roles",
			"created_at",
			"last_active",
		).
		Values(
			user.ID,
			user.Username,
			user.KnownAs,
			user.Gender,
			user.DateOfBirth,
			user.City,
			user.Country,
			user.PasswordHash,
			user.Roles,
			user.CreatedAt,
			user.LastActive,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *UserRepo) UserByUsername(ctx context.Context, username string) (models.User, error) {
	const op = "repository.user_repository.UserByUsername"

	return r.user(ctx, op, sq.Eq{"username": username})
}

func (r *UserRepo) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "repository.user_repository.UserByID"

	return r.user(ctx, op, sq.Eq{"id": id})
}

func (r *UserRepo) user(ctx context.Context, op string, where sq.Eq) (models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		Column("(SELECT p.url FROM photos p WHERE p.user_id = users.id AND p.is_main AND p.is_approved LIMIT 1)").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	var photoURL *string
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.KnownAs,
		&user.Gender,
		&user.DateOfBirth,
		&user.City,
		&user.Country,
		&user.Introduction,
		&user.Interests,
		&user.LookingFor,
		&user.PasswordHash,
		&user.Roles,
		&user.CreatedAt,
		&user.LastActive,
		&photoURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if photoURL != nil {
		user.Photos = []models.Photo{{UserID: user.ID, URL: *photoURL, IsMain: true, IsApproved: true}}
	}

	return user, nil
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	const op = "repository.user_repository.UsernameTaken"

	var taken bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))",
		username).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return taken, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user models.User) error {
	const op = "repository.user_repository.UpdateProfile"

	query, args, err := r.sb.Update("users").
		Set("known_as", user.KnownAs).
		Set("introduction", user.Introduction).
		Set("interests", user.Interests).
		Set("looking_for", user.LookingFor).
		Set("city", user.City).
		Set("country", user.Country).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (r *UserRepo) UpdateLastActive(ctx context.Context, userID uuid.UUID) error {
	const op = "repository.user_repository.UpdateLastActive"

	query, args, err := r.sb.Update("users").
		Set("last_active", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *UserRepo) UpdateRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	const op = "repository.user_repository.UpdateRoles"

	query, args, err := r.sb.Update("users").
		Set("roles", roles).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (r *UserRepo) UsersWithRoles(ctx context.Context) ([]models.User, error) {
	const op = "repository.user_repository.UsersWithRoles"

	query, args, err := r.sb.Select("id", "username", "roles").
		From("users").
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Roles); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return users, nil
}

// Members returns one page of browsable profiles. The caller is always
// excluded, only the approved main photo is surfaced, and the age window
// is translated into a date-of-birth range the way the read path filters
// everywhere else: in the query, not in Go.
func (r *UserRepo) Members(ctx context.Context, filter MemberFilter) ([]models.User, int, error) {
	const op = "repository.user_repository.Members"

	base := r.sb.Select().From("users u").
		Where(sq.NotEq{"u.username": filter.CurrentUsername})

	if filter.Gender != "" {
		base = base.Where(sq.Eq{"u.gender": filter.Gender})
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if filter.MaxAge > 0 {
		minDate := today.AddDate(-filter.MaxAge-1, 0, 0)
		base = base.Where(sq.GtOrEq{"u.date_of_birth": minDate})
	}
	if filter.MinAge > 0 {
		maxDate := today.AddDate(-filter.MinAge, 0, 0)
		base = base.Where(sq.LtOrEq{"u.date_of_birth": maxDate})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build count sql: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	orderBy := "u.last_active DESC"
	if filter.OrderBy == "created" {
		orderBy = "u.created_at DESC"
	}

	query, args, err := base.
		Columns(
			"u.id",
			"u.username",
			"u.known_as",
			"u.gender",
			"u.date_of_birth",
			"u.city",
			"u.country",
			"u.introduction",
			"u.interests",
			"u.looking_for",
			"u.created_at",
			"u.last_active",
			"(SELECT p.url FROM photos p WHERE p.user_id = u.id AND p.is_main AND p.is_approved LIMIT 1)",
		).
		OrderBy(orderBy).
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		var photoURL *string
		err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.KnownAs,
			&u.Gender,
			&u.DateOfBirth,
			&u.City,
			&u.Country,
			&u.Introduction,
			&u.Interests,
			&u.LookingFor,
			&u.CreatedAt,
			&u.LastActive,
			&photoURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		if photoURL != nil {
			u.Photos = []models.Photo{{UserID: u.ID, URL: *photoURL, IsMain: true, IsApproved: true}}
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return members, total, nil
}
