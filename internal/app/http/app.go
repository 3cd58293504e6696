package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	libjwt "datespark/internal/lib/jwt"
	appmiddleware "datespark/internal/middleware"
	httprouters "datespark/internal/transport/http"
	"datespark/internal/transport/ws"

	"github.com/go-playground/validator/v10"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"datespark/internal/domain/models"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	hub     *ws.Hub
	host    string
	port    string
	secret  string
}

func New(log *slog.Logger, secret, sessionKey, host, port string, routers *httprouters.Routers, hub *ws.Hub) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionKey))))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		ExposeHeaders: []string{"X-Pagination"},
	}))
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		hub:     hub,
		host:    host,
		port:    port,
		secret:  secret,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("addr", s.host+":"+s.port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// requireRoles lets the request through only when the access token carries
// at least one of the wanted roles.
func requireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}

			claims, err := libjwt.ParseClaims(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}

			if !models.HasRole(claims.Roles, roles...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}

			return next(c)
		}
	}
}

func (s *Server) BuildRouters() {
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.secret),
	})

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api")
	{
		account := api.Group("/account")
		{
			account.POST("/register", s.routers.Register)
			account.POST("/login", s.routers.Login)
			account.POST("/refresh", s.routers.Refresh)
			account.POST("/logout", s.routers.Logout, jwtMiddleware)
		}

		api.GET("/ws", ws.ServeWS(s.hub, s.secret, s.log))

		users := api.Group("/users", jwtMiddleware)
		{
			users.GET("", s.routers.GetMembers)
			users.PUT("", s.routers.UpdateMember)
			users.GET("/photos", s.routers.GetOwnPhotos)
			users.POST("/photos", s.routers.AddPhoto)
			users.PUT("/photos/:id/set-main", s.routers.SetMainPhoto)
			users.PUT("/photos/:id/tags", s.routers.AssignPhotoTags)
			users.GET("/photos/:id/tags", s.routers.GetPhotoTags)
			users.DELETE("/photos/:id", s.routers.DeletePhoto)
			users.GET("/:username", s.routers.GetMember)
		}

		api.GET("/tags", s.routers.GetTags, jwtMiddleware)

		likes := api.Group("/likes", jwtMiddleware)
		{
			likes.GET("", s.routers.GetLikes)
			likes.GET("/ids", s.routers.GetLikeIDs)
			likes.POST("/:username", s.routers.ToggleLike)
		}

		messages := api.Group("/messages", jwtMiddleware)
		{
			messages.GET("", s.routers.GetMessages)
			messages.POST("", s.routers.CreateMessage)
			messages.GET("/thread/:username", s.routers.GetMessageThread)
			messages.DELETE("/:id", s.routers.DeleteMessage)
		}

		admin := api.Group("/admin", jwtMiddleware)
		{
			adminOnly := admin.Group("", requireRoles(models.RoleAdmin))
			{
				adminOnly.GET("/users-with-roles", s.routers.GetUsersWithRoles)
				adminOnly.POST("/edit-roles/:username", s.routers.EditRoles)
				adminOnly.POST("/tags", s.routers.CreateTag)
				adminOnly.DELETE("/tags/:name", s.routers.DeleteTag)
			}

			moderation := admin.Group("", requireRoles(models.RoleAdmin, models.RoleModerator))
			{
				moderation.GET("/photos-to-moderate", s.routers.GetPhotosForModeration)
				moderation.POST("/photos/:id/approve", s.routers.ApprovePhoto)
				moderation.POST("/photos/:id/reject", s.routers.RejectPhoto)
				moderation.GET("/users-without-main-photo", s.routers.GetUsersWithoutMainPhoto)
				moderation.GET("/photo-approval-stats", s.routers.GetPhotoApprovalStatistics)
				moderation.GET("/online", s.routers.GetOnlineUsers)
			}
		}
	}
}
