package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"datespark/internal/domain/models"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	"datespark/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSelfMessage   = errors.New("users cannot message themselves")
	ErrNotResolvable = errors.New("user is not part of this message")
)

type MessageService struct {
	log      *slog.Logger
	users    repository.UserRepository
	messages repository.MessageRepository
	tx       repository.TxManager
}

func NewMessageService(log *slog.Logger, users repository.UserRepository, messages repository.MessageRepository, tx repository.TxManager) *MessageService {
	return &MessageService{
		log:      log,
		users:    users,
		messages: messages,
		tx:       tx,
	}
}

func (s *MessageService) CreateMessage(ctx context.Context, senderUsername, recipientUsername, content string) (models.Message, error) {
	const op = "message_service.CreateMessage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("sender", senderUsername),
		slog.String("recipient", recipientUsername),
	)

	if senderUsername == recipientUsername {
		return models.Message{}, fmt.Errorf("%s: %w", op, ErrSelfMessage)
	}

	sender, err := s.users.UserByUsername(ctx, senderUsername)
	if err != nil {
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	recipient, err := s.users.UserByUsername(ctx, recipientUsername)
	if err != nil {
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	message := models.Message{
		ID:                uuid.New(),
		SenderID:          sender.ID,
		SenderUsername:    sender.Username,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Content:           content,
		MessageSent:       time.Now().UTC(),
	}

	if err := s.messages.AddMessage(ctx, &message); err != nil {
		log.Error("failed to save message", sl.Err(err))

		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("message sent", slog.String("message_id", message.ID.String()))

	return message, nil
}

func (s *MessageService) GetMessagesForUser(ctx context.Context, username string, container models.MessageContainer, params pagination.Params) ([]models.Message, pagination.Header, error) {
	const op = "message_service.GetMessagesForUser"

	params.Normalize()

	messages, total, err := s.messages.MessagesForUser(ctx, repository.MessageFilter{
		Params:    params,
		Username:  username,
		Container: container,
	})
	if err != nil {
		return nil, pagination.Header{}, fmt.Errorf("%s: %w", op, err)
	}

	paged := pagination.NewPagedList(messages, total, params)

	return messages, paged.Header(), nil
}

// GetMessageThread returns the conversation with the other user and
// marks everything they sent as read.
func (s *MessageService) GetMessageThread(ctx context.Context, currentUsername, otherUsername string) ([]models.Message, error) {
	const op = "message_service.GetMessageThread"

	if _, err := s.users.UserByUsername(ctx, otherUsername); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.messages.MarkThreadRead(ctx, currentUsername, otherUsername); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	thread, err := s.messages.MessageThread(ctx, currentUsername, otherUsername)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return thread, nil
}

// DeleteMessage hides the message for the calling side. Once both sides
// have deleted it the row is removed for good.
func (s *MessageService) DeleteMessage(ctx context.Context, username string, messageID uuid.UUID) error {
	const op = "message_service.DeleteMessage"

	log := s.log.With(slog.String("op", op), slog.String("username", username))

	uow, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer uow.Rollback(ctx)

	message, err := uow.Messages().Message(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch username {
	case message.SenderUsername:
		message.SenderDeleted = true
	case message.RecipientUsername:
		message.RecipientDeleted = true
	default:
		return fmt.Errorf("%s: %w", op, ErrNotResolvable)
	}

	if message.SenderDeleted && message.RecipientDeleted {
		if err := uow.Messages().DeleteMessage(ctx, messageID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if err := uow.Messages().UpdateDeletedFlags(ctx, message); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := uow.Complete(ctx); err != nil {
		log.Error("failed to commit", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("message deleted", slog.String("message_id", messageID.String()))

	return nil
}
