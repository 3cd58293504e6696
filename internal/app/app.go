package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "datespark/internal/app/http"
	"datespark/internal/config"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/rabbitmq"
	"datespark/internal/repository"
	accountservice "datespark/internal/services/account_service"
	adminservice "datespark/internal/services/admin_service"
	likesservice "datespark/internal/services/likes_service"
	messageservice "datespark/internal/services/message_service"
	tokenservice "datespark/internal/services/token_service"
	userservice "datespark/internal/services/user_service"
	"datespark/internal/storage/photostorage"
	"datespark/internal/storage/postgresql"
	redisapp "datespark/internal/storage/redis"
	httprouters "datespark/internal/transport/http"
	"datespark/internal/transport/ws"

	gocache "github.com/patrickmn/go-cache"
)

type App struct {
	HTTPServer *httpapp.Server
	Hub        *ws.Hub

	storage *postgresql.Storage
	repos   *repository.Repository
	amqp    *rabbitmq.Client
	log     *slog.Logger
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("%s: redis: %w", op, err)
	}

	fileStore, err := newPhotoStorage(ctx, cfg.PhotoStorage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repos := repository.NewRepository(storage.DB)
	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	hub := ws.NewHub(log)
	notifier := ws.NewHubNotifier(hub, log)

	var publisher adminservice.EventPublisher
	var amqpClient *rabbitmq.Client
	if cfg.AMQP.URL != "" {
		amqpClient, err = rabbitmq.NewClient(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = amqpClient
	} else {
		log.Warn("amqp url is empty, moderation events will not be published")
	}

	tokenService := tokenservice.NewTokenService(tokenRepo, cfg.TokenSecret)
	accountService := accountservice.NewAccountService(log, repos.User, tokenService)
	userService := userservice.NewUserService(log, repos.User, repos.Photo, repos.Tag, repos, fileStore)
	adminService := adminservice.NewAdminService(
		log,
		repos.User,
		repos.Photo,
		repos.Tag,
		repos,
		fileStore,
		notifier,
		publisher,
		gocache.New(5*time.Minute, 10*time.Minute),
	)
	likesService := likesservice.NewLikesService(log, repos.User, repos.Likes)
	messageService := messageservice.NewMessageService(log, repos.User, repos.Message, repos)

	routers := httprouters.NewRouter(
		log,
		accountService,
		tokenService,
		userService,
		likesService,
		messageService,
		adminService,
		hub,
	)

	server := httpapp.New(log, cfg.TokenSecret, cfg.SessionKey, cfg.HTTP.Host, cfg.HTTP.Port, routers, hub)

	return &App{
		HTTPServer: server,
		Hub:        hub,
		storage:    storage,
		repos:      repos,
		amqp:       amqpClient,
		log:        log,
	}, nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}
	if a.amqp != nil {
		a.amqp.Close()
	}
	a.storage.Stop()
}

func newPhotoStorage(ctx context.Context, cfg config.PhotoStorageConfig) (photostorage.PhotoStorage, error) {
	switch cfg.Driver {
	case "s3":
		return photostorage.NewS3Storage(ctx, photostorage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
	default:
		return photostorage.NewLocalStorage(cfg.BaseDir, cfg.BaseURL, cfg.MaxSize)
	}
}
