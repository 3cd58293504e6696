package http

import (
	"errors"
	"log/slog"
	"net/http"

	"datespark/internal/lib/logger/sl"
	adminservice "datespark/internal/services/admin_service"
	"datespark/internal/storage"
	"datespark/internal/transport/http/dto"
	"datespark/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GetUsersWithRoles godoc
// @Summary List users with their roles
// @Tags admin
// @Produce json
// @Success 200 {array} dto.UserWithRolesResponse
// @Security ApiKeyAuth
// @Router /api/admin/users-with-roles [get]
func (r *Routers) GetUsersWithRoles(c echo.Context) error {
	const op = "http.routers.GetUsersWithRoles"

	log := r.log.With(
		slog.String("op", op),
	)

	users, err := r.AdminService.GetUsersWithRoles(c.Request().Context())
	if err != nil {
		log.Error("failed to list users with roles", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewUserWithRolesResponses(users))
}

// EditRoles godoc
// @Summary Replace a user's roles
// @Description Replaces the role set with a comma-separated list. The Member role is always kept.
// @Tags admin
// @Produce json
// @Param username path string true "Username"
// @Param roles query string true "Comma-separated roles (Member, Moderator, Admin)"
// @Success 200 {array} string
// @Failure 400 {object} response.ErrorResponse "Unknown role in the list"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/admin/edit-roles/{username} [post]
func (r *Routers) EditRoles(c echo.Context) error {
	const op = "http.routers.EditRoles"

	log := r.log.With(
		slog.String("op", op),
	)

	username := c.Param("username")
	roleList := c.QueryParam("roles")

	roles, err := r.AdminService.EditRoles(c.Request().Context(), username, roleList)
	if err != nil {
		switch {
		case errors.Is(err, adminservice.ErrInvalidRoles):
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "invalid_roles",
			})
		case errors.Is(err, storage.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to edit roles", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	log.Info("roles updated",
		slog.String("username", username),
		slog.Any("roles", roles),
	)

	return c.JSON(http.StatusOK, roles)
}

// GetPhotosForModeration godoc
// @Summary List unapproved photos
// @Description Returns the moderation queue: every photo waiting for approval with its owner's username.
// @Tags moderation
// @Produce json
// @Success 200 {array} dto.PhotoForModerationResponse
// @Security ApiKeyAuth
// @Router /api/admin/photos-to-moderate [get]
func (r *Routers) GetPhotosForModeration(c echo.Context) error {
	const op = "http.routers.GetPhotosForModeration"

	log := r.log.With(
		slog.String("op", op),
	)

	photos, owners, err := r.AdminService.GetPhotosForModeration(c.Request().Context())
	if err != nil {
		log.Error("failed to list moderation queue", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	resp := make([]dto.PhotoForModerationResponse, 0, len(photos))
	for _, p := range photos {
		resp = append(resp, dto.PhotoForModerationResponse{
			ID:       p.ID,
			URL:      p.URL,
			Username: owners[p.ID],
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// ApprovePhoto godoc
// @Summary Approve a photo
// @Description Makes the photo publicly visible. The first approved photo of a user becomes their main photo.
// @Tags moderation
// @Param id path string true "Photo UUID" format(uuid)
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Photo is already approved"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/admin/photos/{id}/approve [post]
func (r *Routers) ApprovePhoto(c echo.Context) error {
	const op = "http.routers.ApprovePhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "invalid_photo_id",
		})
	}

	err = r.AdminService.ApprovePhoto(c.Request().Context(), photoID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPhotoNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, adminservice.ErrAlreadyApproved):
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "already_approved",
			})
		}

		log.Error("failed to approve photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// RejectPhoto godoc
// @Summary Reject a photo
// @Description Removes the photo from the image host and the database.
// @Tags moderation
// @Param id path string true "Photo UUID" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/admin/photos/{id}/reject [post]
func (r *Routers) RejectPhoto(c echo.Context) error {
	const op = "http.routers.RejectPhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "invalid_photo_id",
		})
	}

	err = r.AdminService.RejectPhoto(c.Request().Context(), photoID)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to reject photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// CreateTag godoc
// @Summary Add a tag to the catalog
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateTagInput true "Tag name"
// @Success 201 {object} dto.TagResponse
// @Failure 400 {object} response.ErrorResponse "Blank tag name"
// @Failure 409 {object} response.ErrorResponse "Tag already exists"
// @Security ApiKeyAuth
// @Router /api/admin/tags [post]
func (r *Routers) CreateTag(c echo.Context) error {
	const op = "http.routers.CreateTag"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateTagInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}

	tag, err := r.AdminService.CreateTag(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, adminservice.ErrDuplicateTag) {
			return c.JSON(http.StatusConflict, response.ErrorResponse{
				Status: "error",
				Error:  "tag_already_exists",
			})
		}
		if errors.Is(err, adminservice.ErrBlankTagName) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "blank_tag_name",
			})
		}

		log.Error("failed to create tag", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusCreated, dto.TagResponse{ID: tag.ID, Name: tag.Name})
}

// DeleteTag godoc
// @Summary Remove a tag from the catalog
// @Description Deletes the tag and detaches it from every photo.
// @Tags admin
// @Param name path string true "Tag name"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Blank tag name"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/admin/tags/{name} [delete]
func (r *Routers) DeleteTag(c echo.Context) error {
	const op = "http.routers.DeleteTag"

	log := r.log.With(
		slog.String("op", op),
	)

	name := c.Param("name")

	if err := r.AdminService.DeleteTag(c.Request().Context(), name); err != nil {
		if errors.Is(err, storage.ErrTagNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		if errors.Is(err, adminservice.ErrBlankTagName) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "blank_tag_name",
			})
		}

		log.Error("failed to delete tag", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUsersWithoutMainPhoto godoc
// @Summary List members without a main photo
// @Tags admin
// @Produce json
// @Success 200 {array} string
// @Security ApiKeyAuth
// @Router /api/admin/users-without-main-photo [get]
func (r *Routers) GetUsersWithoutMainPhoto(c echo.Context) error {
	const op = "http.routers.GetUsersWithoutMainPhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	usernames, err := r.AdminService.GetUsersWithoutMainPhoto(c.Request().Context())
	if err != nil {
		log.Error("failed to list users without main photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, usernames)
}

// GetPhotoApprovalStatistics godoc
// @Summary Per-member photo approval counts
// @Tags admin
// @Produce json
// @Success 200 {array} dto.PhotoApprovalStatResponse
// @Security ApiKeyAuth
// @Router /api/admin/photo-approval-stats [get]
func (r *Routers) GetPhotoApprovalStatistics(c echo.Context) error {
	const op = "http.routers.GetPhotoApprovalStatistics"

	log := r.log.With(
		slog.String("op", op),
	)

	stats, err := r.AdminService.GetPhotoApprovalStatistics(c.Request().Context())
	if err != nil {
		log.Error("failed to load approval statistics", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewPhotoApprovalStatResponses(stats))
}

// GetOnlineUsers godoc
// @Summary List online members
// @Description Returns the usernames currently connected over WebSocket.
// @Tags admin
// @Produce json
// @Success 200 {array} string
// @Security ApiKeyAuth
// @Router /api/admin/online [get]
func (r *Routers) GetOnlineUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, r.Presence.OnlineUsers())
}
