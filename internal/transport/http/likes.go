package http

import (
	"errors"
	"log/slog"
	"net/http"

	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	likesservice "datespark/internal/services/likes_service"
	"datespark/internal/storage"
	"datespark/internal/transport/http/dto"
	"datespark/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ToggleLike godoc
// @Summary Toggle a like
// @Description Likes the target user, or removes the like if it already exists. Returns the resulting state.
// @Tags likes
// @Produce json
// @Param username path string true "Target username"
// @Success 200 {object} response.Response{data=object{liked=bool}}
// @Failure 400 {object} response.ErrorResponse "Users cannot like themselves"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/likes/{username} [post]
func (r *Routers) ToggleLike(c echo.Context) error {
	const op = "http.routers.ToggleLike"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	targetUsername := c.Param("username")

	liked, err := r.LikesService.ToggleLike(c.Request().Context(), claims.Username, targetUsername)
	if err != nil {
		switch {
		case errors.Is(err, likesservice.ErrSelfLike):
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "self_like",
			})
		case errors.Is(err, storage.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to toggle like", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   map[string]bool{"liked": liked},
	})
}

// GetLikes godoc
// @Summary List likes
// @Description Returns the users the current user liked (predicate=liked) or the users who liked them (predicate=likedBy). Paging counters go into the X-Pagination header.
// @Tags likes
// @Produce json
// @Param predicate query string false "liked or likedBy" default(liked)
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 50)" default(10)
// @Success 200 {array} dto.MemberResponse
// @Security ApiKeyAuth
// @Router /api/likes [get]
func (r *Routers) GetLikes(c echo.Context) error {
	const op = "http.routers.GetLikes"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var params dto.LikesParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	users, header, err := r.LikesService.GetUserLikes(
		c.Request().Context(),
		claims.Username,
		params.Predicate,
		pagination.Params{Page: params.Page, PageSize: params.PageSize},
	)
	if err != nil {
		log.Error("failed to list likes", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	writePaginationHeader(c, header)

	return c.JSON(http.StatusOK, dto.NewMemberResponses(users))
}

// GetLikeIDs godoc
// @Summary List liked user ids
// @Description Returns the ids of every user the current user has liked. Clients use it to mark cards in the browse grid.
// @Tags likes
// @Produce json
// @Success 200 {array} string
// @Security ApiKeyAuth
// @Router /api/likes/ids [get]
func (r *Routers) GetLikeIDs(c echo.Context) error {
	const op = "http.routers.GetLikeIDs"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	ids, err := r.LikesService.GetCurrentUserLikeIDs(c.Request().Context(), claims.Username)
	if err != nil {
		log.Error("failed to list like ids", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, ids)
}
