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
	"github.com/jackc/pgx/v4"
)

var messageColumns = []string{
	"id",
	"sender_id",
	"sender_username",
	"recipient_id",
	"recipient_username",
	"content",
	"date_read",
	"message_sent",
	"sender_deleted",
	"recipient_deleted",
}

type MessageRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewMessageRepository(db Querier) *MessageRepo {
	return &MessageRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MessageRepo) AddMessage(ctx context.Context, message *models.Message) error {
	const op = "repository.message_repository.AddMessage"

	query, args, err := r.sb.Insert("messages").
		Columns(messageColumns...).
		Values(
			message.ID,
			message.SenderID,
			message.SenderUsername,
			message.RecipientID,
			message.RecipientUsername,
			message.Content,
			message.DateRead,
			message.MessageSent,
			message.SenderDeleted,
			message.RecipientDeleted,
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

func (r *MessageRepo) Message(ctx context.Context, id uuid.UUID) (models.Message, error) {
	const op = "repository.message_repository.Message"

	query, args, err := r.sb.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Message{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var m models.Message
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.SenderID,
		&m.SenderUsername,
		&m.RecipientID,
		&m.RecipientUsername,
		&m.Content,
		&m.DateRead,
		&m.MessageSent,
		&m.SenderDeleted,
		&m.RecipientDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Message{}, fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
		}
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func (r *MessageRepo) MessagesForUser(ctx context.Context, filter MessageFilter) ([]models.Message, int, error) {
	const op = "repository.message_repository.MessagesForUser"

	var where sq.Sqlizer
	switch filter.Container {
	case models.ContainerOutbox:
		where = sq.Eq{"sender_username": filter.Username, "sender_deleted": false}
	case models.ContainerUnread:
		where = sq.And{
			sq.Eq{"recipient_username": filter.Username, "recipient_deleted": false},
			sq.Expr("date_read IS NULL"),
		}
	default: // inbox
		where = sq.Eq{"recipient_username": filter.Username, "recipient_deleted": false}
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").
		From("messages").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select(messageColumns...).
		From("messages").
		Where(where).
		OrderBy("message_sent DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	messages, err := r.scanMessages(ctx, op, query, args)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MessageThread returns the full conversation between two users, oldest
// first, excluding messages the current user soft-deleted on their side.
func (r *MessageRepo) MessageThread(ctx context.Context, currentUsername, otherUsername string) ([]models.Message, error) {
	const op = "repository.message_repository.MessageThread"

	query, args, err := r.sb.Select(messageColumns...).
		From("messages").
		Where(sq.Or{
			sq.Eq{
				"recipient_username": currentUsername,
				"sender_username":    otherUsername,
				"recipient_deleted":  false,
			},
			sq.Eq{
				"sender_username":    currentUsername,
				"recipient_username": otherUsername,
				"sender_deleted":     false,
			},
		}).
		OrderBy("message_sent").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanMessages(ctx, op, query, args)
}

func (r *MessageRepo) MarkThreadRead(ctx context.Context, currentUsername, otherUsername string) error {
	const op = "repository.message_repository.MarkThreadRead"

	query, args, err := r.sb.Update("messages").
		Set("date_read", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{
				"recipient_username": currentUsername,
				"sender_username":    otherUsername,
			},
			sq.Expr("date_read IS NULL"),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *MessageRepo) UpdateDeletedFlags(ctx context.Context, message models.Message) error {
	const op = "repository.message_repository.UpdateDeletedFlags"

	query, args, err := r.sb.Update("messages").
		Set("sender_deleted", message.SenderDeleted).
		Set("recipient_deleted", message.RecipientDeleted).
		Where(sq.Eq{"id": message.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
	}

	return nil
}

func (r *MessageRepo) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	const op = "repository.message_repository.DeleteMessage"

	query, args, err := r.sb.Delete("messages").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
	}

	return nil
}

func (r *MessageRepo) scanMessages(ctx context.Context, op, query string, args []interface{}) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.SenderUsername,
			&m.RecipientID,
			&m.RecipientUsername,
			&m.Content,
			&m.DateRead,
			&m.MessageSent,
			&m.SenderDeleted,
			&m.RecipientDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return messages, nil
}
