package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every
// repository runs unchanged inside or outside a unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Repository struct {
	db      *pgxpool.Pool
	User    UserRepository
	Photo   PhotoRepository
	Tag     TagRepository
	Likes   LikesRepository
	Message MessageRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:      db,
		User:    NewUserRepository(db),
		Photo:   NewPhotoRepository(db),
		Tag:     NewTagRepository(db),
		Likes:   NewLikesRepository(db),
		Message: NewMessageRepository(db),
	}
}

// Begin opens a unit of work whose repositories all share one pgx
// transaction. The caller must Complete or Rollback it.
func (r *Repository) Begin(ctx context.Context) (UnitOfWork, error) {
	const op = "repository.Begin"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &txUnitOfWork{
		tx:       tx,
		users:    NewUserRepository(tx),
		photos:   NewPhotoRepository(tx),
		tags:     NewTagRepository(tx),
		likes:    NewLikesRepository(tx),
		messages: NewMessageRepository(tx),
	}, nil
}

func (r *Repository) Close() {
	r.db.Close()
}

type txUnitOfWork struct {
	tx       pgx.Tx
	done     bool
	users    UserRepository
	photos   PhotoRepository
	tags     TagRepository
	likes    LikesRepository
	messages MessageRepository
}

func (u *txUnitOfWork) Users() UserRepository       { return u.users }
func (u *txUnitOfWork) Photos() PhotoRepository     { return u.photos }
func (u *txUnitOfWork) Tags() TagRepository         { return u.tags }
func (u *txUnitOfWork) Likes() LikesRepository      { return u.likes }
func (u *txUnitOfWork) Messages() MessageRepository { return u.messages }

func (u *txUnitOfWork) Complete(ctx context.Context) error {
	const op = "repository.UnitOfWork.Complete"

	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u.done = true

	return nil
}

func (u *txUnitOfWork) Rollback(ctx context.Context) {
	if u.done {
		return
	}
	_ = u.tx.Rollback(ctx)
}
