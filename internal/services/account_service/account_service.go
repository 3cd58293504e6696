package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"datespark/internal/domain/models"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/repository"
	"datespark/internal/storage"
	"datespark/internal/transport/http/dto"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

type TokenProvider interface {
	GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error)
}

type AccountService struct {
	log    *slog.Logger
	repo   repository.UserRepository
	tokens TokenProvider
}

func NewAccountService(log *slog.Logger, repo repository.UserRepository, tokens TokenProvider) *AccountService {
	return &AccountService{
		log:    log,
		repo:   repo,
		tokens: tokens,
	}
}

func (s *AccountService) Register(ctx context.Context, input dto.RegisterInput) (models.User, *models.TokenPair, error) {
	const op = "account_service.Register"

	// usernames are stored lowercase so lookups stay case-insensitive
	input.Username = strings.ToLower(input.Username)

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", input.Username),
	)

	log.Info("registering user")

	taken, err := s.repo.UsernameTaken(ctx, input.Username)
	if err != nil {
		log.Error("failed to check username", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		log.Warn("username already taken")

		return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	user := input.ToDomain(passHash)

	id, err := s.repo.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", sl.Err(err))

			return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	pair, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered")

	return user, pair, nil
}

func (s *AccountService) Login(ctx context.Context, input dto.LoginInput) (models.User, *models.TokenPair, error) {
	const op = "account_service.Login"

	input.Username = strings.ToLower(input.Username)

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", input.Username),
	)

	log.Info("attempting to login user")

	user, err := s.repo.UserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(input.Password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.repo.UpdateLastActive(ctx, user.ID); err != nil {
		log.Error("failed to update last active", sl.Err(err))
	}

	pair, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return user, pair, nil
}
