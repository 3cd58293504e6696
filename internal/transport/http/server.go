package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"datespark/internal/domain/models"
	libjwt "datespark/internal/lib/jwt"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	"datespark/internal/repository"
	accountservice "datespark/internal/services/account_service"
	tokenservice "datespark/internal/services/token_service"
	"datespark/internal/transport/http/dto"
	"datespark/internal/transport/http/dto/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "datespark/docs"
)

type AccountService interface {
	Register(ctx context.Context, input dto.RegisterInput) (models.User, *models.TokenPair, error)
	Login(ctx context.Context, input dto.LoginInput) (models.User, *models.TokenPair, error)
}

type TokenService interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type UserService interface {
	GetMembers(ctx context.Context, filter repository.MemberFilter) ([]models.User, pagination.Header, error)
	GetMember(ctx context.Context, username string, isCurrentUser bool) (models.User, error)
	UpdateProfile(ctx context.Context, username string, introduction, lookingFor, interests, city, country string) error
	AddPhoto(ctx context.Context, username string, file *multipart.FileHeader, tagNames []string) (models.Photo, error)
	SetMainPhoto(ctx context.Context, username string, photoID uuid.UUID) error
	DeletePhoto(ctx context.Context, username string, photoID uuid.UUID) error
	AssignTags(ctx context.Context, username string, photoID uuid.UUID, tagNames []string) ([]models.Tag, error)
	GetPhotoTags(ctx context.Context, photoID uuid.UUID) ([]models.Tag, error)
	GetUserPhotos(ctx context.Context, username string, isCurrentUser bool) ([]models.Photo, error)
}

type LikesService interface {
	ToggleLike(ctx context.Context, sourceUsername, targetUsername string) (bool, error)
	GetCurrentUserLikeIDs(ctx context.Context, username string) ([]uuid.UUID, error)
	GetUserLikes(ctx context.Context, username, predicate string, params pagination.Params) ([]models.User, pagination.Header, error)
}

type MessageService interface {
	CreateMessage(ctx context.Context, senderUsername, recipientUsername, content string) (models.Message, error)
	GetMessagesForUser(ctx context.Context, username string, container models.MessageContainer, params pagination.Params) ([]models.Message, pagination.Header, error)
	GetMessageThread(ctx context.Context, currentUsername, otherUsername string) ([]models.Message, error)
	DeleteMessage(ctx context.Context, username string, messageID uuid.UUID) error
}

type AdminService interface {
	GetUsersWithRoles(ctx context.Context) ([]models.User, error)
	EditRoles(ctx context.Context, username, roleList string) ([]string, error)
	GetPhotosForModeration(ctx context.Context) ([]models.Photo, map[uuid.UUID]string, error)
	ApprovePhoto(ctx context.Context, photoID uuid.UUID) error
	RejectPhoto(ctx context.Context, photoID uuid.UUID) error
	CreateTag(ctx context.Context, name string) (models.Tag, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, name string) error
	GetUsersWithoutMainPhoto(ctx context.Context) ([]string, error)
	GetPhotoApprovalStatistics(ctx context.Context) ([]models.PhotoApprovalStat, error)
}

// PresenceTracker reports who currently holds an open WebSocket connection.
type PresenceTracker interface {
	OnlineUsers() []string
}

type Routers struct {
	log            *slog.Logger
	AccountService AccountService
	TokenService   TokenService
	UserService    UserService
	LikesService   LikesService
	MessageService MessageService
	AdminService   AdminService
	Presence       PresenceTracker
}

func NewRouter(
	log *slog.Logger,
	accountService AccountService,
	tokenService TokenService,
	userService UserService,
	likesService LikesService,
	messageService MessageService,
	adminService AdminService,
	presence PresenceTracker,
) *Routers {
	return &Routers{
		log:            log,
		AccountService: accountService,
		TokenService:   tokenService,
		UserService:    userService,
		LikesService:   likesService,
		MessageService: messageService,
		AdminService:   adminService,
		Presence:       presence,
	}
}

// currentClaims reads the claims echo-jwt stored on the context.
func currentClaims(c echo.Context) (libjwt.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return libjwt.Claims{}, libjwt.ErrInvalidToken
	}
	return libjwt.ParseClaims(token)
}

// writePaginationHeader serializes paging counters into the X-Pagination
// response header, which clients read instead of a wrapper body.
func writePaginationHeader(c echo.Context, header pagination.Header) {
	data, err := json.Marshal(header)
	if err != nil {
		return
	}
	c.Response().Header().Set("X-Pagination", string(data))
	c.Response().Header().Set("Access-Control-Expose-Headers", "X-Pagination")
}

// Register godoc
// @Summary Register a new member
// @Description Creates an account and returns the account with a token pair.
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.RegisterInput true "Registration data"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 409 {object} response.ErrorResponse "Username already taken"
// @Router /api/account/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RegisterInput

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRegisterRequest)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRegisterRequest
		resp.Details = err.Error()
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, resp)
	}

	user, pair, err := r.AccountService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, accountservice.ErrUserExists) {
			log.Warn("username already taken", slog.String("username", req.Username))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status:  "error",
			Error:   "internal_error",
			Details: "Internal server error",
		})
	}

	log.Info("user registered", slog.String("username", user.Username))

	return c.JSON(http.StatusCreated, dto.NewAccountResponse(user, *pair))
}

// Login godoc
// @Summary Authenticate a member
// @Description Verifies username and password and returns a token pair.
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.LoginInput true "Credentials"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Authentication failed"
// @Router /api/account/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.LoginInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("username", req.Username))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	user, pair, err := r.AccountService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, accountservice.ErrInvalidCredentials) {
			log.Warn("authentication failed", slog.String("username", req.Username))
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrAuthenticationFailed)
	}

	sess, _ := session.Get("session", c)
	if sess != nil {
		sess.Values["username"] = user.Username
		sess.Save(c.Request(), c.Response())
	}

	return c.JSON(http.StatusOK, dto.NewAccountResponse(user, *pair))
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Description Validates the refresh token and returns a fresh token pair.
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.RefreshInput true "Refresh token"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} response.ErrorResponse "Invalid refresh token"
// @Router /api/account/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RefreshInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.TokenService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, tokenservice.ErrInvalidToken) || errors.Is(err, tokenservice.ErrTokenNotInStorage) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		log.Error("failed to refresh tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, pair)
}

// Logout godoc
// @Summary Revoke all refresh tokens
// @Description Invalidates every refresh token issued to the current user.
// @Tags account
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/account/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.TokenService.RevokeAll(c.Request().Context(), claims.UserID); err != nil {
		log.Error("failed to revoke tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	log.Info("tokens revoked", slog.String("username", claims.Username))

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}
