package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	"datespark/internal/repository"
	userservice "datespark/internal/services/user_service"
	"datespark/internal/storage"
	"datespark/internal/storage/photostorage"
	"datespark/internal/transport/http/dto"
	"datespark/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GetMembers godoc
// @Summary Browse members
// @Description Returns a page of member profiles. Paging counters go into the X-Pagination header. Gender defaults to the opposite of the current user.
// @Tags members
// @Produce json
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 50)" default(10)
// @Param gender query string false "Filter by gender (male, female)"
// @Param minAge query int false "Minimum age"
// @Param maxAge query int false "Maximum age"
// @Param orderBy query string false "Sort order (created, lastActive)"
// @Success 200 {array} dto.MemberResponse
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users [get]
func (r *Routers) GetMembers(c echo.Context) error {
	const op = "http.routers.GetMembers"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var params dto.MemberParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	filter := repository.MemberFilter{
		Params:          pagination.Params{Page: params.Page, PageSize: params.PageSize},
		CurrentUsername: claims.Username,
		Gender:          params.Gender,
		MinAge:          params.MinAge,
		MaxAge:          params.MaxAge,
		OrderBy:         params.OrderBy,
	}

	users, header, err := r.UserService.GetMembers(c.Request().Context(), filter)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	writePaginationHeader(c, header)

	return c.JSON(http.StatusOK, dto.NewMemberResponses(users))
}

// GetMember godoc
// @Summary Get a member profile
// @Description Returns one profile by username. The owner also sees their unapproved photos.
// @Tags members
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/{username} [get]
func (r *Routers) GetMember(c echo.Context) error {
	const op = "http.routers.GetMember"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	username := c.Param("username")

	user, err := r.UserService.GetMember(c.Request().Context(), username, username == claims.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get member", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewMemberResponse(user))
}

// UpdateMember godoc
// @Summary Update own profile
// @Description Updates the editable profile fields of the current user.
// @Tags members
// @Accept json
// @Produce json
// @Param request body dto.MemberUpdateInput true "Profile fields"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users [put]
func (r *Routers) UpdateMember(c echo.Context) error {
	const op = "http.routers.UpdateMember"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var req dto.MemberUpdateInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}

	err = r.UserService.UpdateProfile(
		c.Request().Context(),
		claims.Username,
		req.Introduction,
		req.LookingFor,
		req.Interests,
		req.City,
		req.Country,
	)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// AddPhoto godoc
// @Summary Upload a photo
// @Description Uploads a photo for the current user. The photo stays hidden until a moderator approves it.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param tags formData string false "Comma-separated tag names"
// @Success 201 {object} dto.PhotoResponse
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/photos [post]
func (r *Routers) AddPhoto(c echo.Context) error {
	const op = "http.routers.AddPhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("missing file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "file_required",
		})
	}

	var tagNames []string
	if raw := c.FormValue("tags"); raw != "" {
		tagNames = strings.Split(raw, ",")
	}

	photo, err := r.UserService.AddPhoto(c.Request().Context(), claims.Username, file, tagNames)
	if err != nil {
		var uploadErr *photostorage.UploadError
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponse{
				Status: "error",
				Error:  "file_too_large",
			})
		case errors.Is(err, storage.ErrInvalidFileType):
			return c.JSON(http.StatusUnsupportedMediaType, response.ErrorResponse{
				Status: "error",
				Error:  "invalid_file_type",
			})
		case errors.As(err, &uploadErr):
			// the image host's own message goes back to the client
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status:  "error",
				Error:   "upload_failed",
				Details: uploadErr.Message,
			})
		}

		log.Error("failed to add photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	log.Info("photo uploaded",
		slog.String("username", claims.Username),
		slog.String("photo_id", photo.ID.String()),
	)

	return c.JSON(http.StatusCreated, dto.NewPhotoResponse(photo))
}

// GetOwnPhotos godoc
// @Summary List own photos
// @Description Returns all photos of the current user, approved or not, with their tags.
// @Tags photos
// @Produce json
// @Success 200 {array} dto.PhotoResponse
// @Security ApiKeyAuth
// @Router /api/users/photos [get]
func (r *Routers) GetOwnPhotos(c echo.Context) error {
	const op = "http.routers.GetOwnPhotos"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	photos, err := r.UserService.GetUserPhotos(c.Request().Context(), claims.Username, true)
	if err != nil {
		log.Error("failed to list photos", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewPhotoResponses(photos))
}

// SetMainPhoto godoc
// @Summary Set the main photo
// @Description Makes one of the current user's photos the profile picture.
// @Tags photos
// @Param id path string true "Photo UUID" format(uuid)
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Photo is already main"
// @Failure 403 {object} response.ErrorResponse "Photo belongs to another user"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/photos/{id}/set-main [put]
func (r *Routers) SetMainPhoto(c echo.Context) error {
	const op = "http.routers.SetMainPhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "invalid_photo_id",
		})
	}

	err = r.UserService.SetMainPhoto(c.Request().Context(), claims.Username, photoID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPhotoNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, userservice.ErrNotPhotoOwner):
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, userservice.ErrAlreadyMainPhoto):
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "already_main_photo",
			})
		}

		log.Error("failed to set main photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// DeletePhoto godoc
// @Summary Delete a photo
// @Description Removes a photo of the current user. The main photo cannot be deleted.
// @Tags photos
// @Param id path string true "Photo UUID" format(uuid)
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Photo is the main photo"
// @Failure 403 {object} response.ErrorResponse "Photo belongs to another user"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/photos/{id} [delete]
func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "invalid_photo_id",
		})
	}

	err = r.UserService.DeletePhoto(c.Request().Context(), claims.Username, photoID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPhotoNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, userservice.ErrNotPhotoOwner):
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, userservice.ErrDeleteMainPhoto):
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "cannot_delete_main_photo",
			})
		}

		log.Error("failed to delete photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// AssignPhotoTags godoc
// @Summary Replace photo tags
// @Description Replaces the tag set of a photo with the given list. Names missing from the catalog are created on the fly.
// @Tags photos
// @Accept json
// @Produce json
// @Param id path string true "Photo UUID" format(uuid)
// @Param request body dto.AssignTagsInput true "Tag names"
// @Success 200 {array} dto.TagResponse
// @Failure 400 {object} response.ErrorResponse "Invalid photo id or request body"
// @Failure 403 {object} response.ErrorResponse "Photo belongs to another user"
// @Security ApiKeyAuth
// @Router /api/users/photos/{id}/tags [put]
func (r *Routers) AssignPhotoTags(c echo.Context) error {
	const op = "http.routers.AssignPhotoTags"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "invalid_photo_id",
		})
	}

	var req dto.AssignTagsInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}

	tags, err := r.UserService.AssignTags(c.Request().Context(), claims.Username, photoID, req.Tags)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPhotoNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, userservice.ErrNotPhotoOwner):
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		}

		log.Error("failed to assign tags", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewTagResponses(tags))
}

// GetTags godoc
// @Summary List the tag catalog
// @Description Returns every tag members can assign to their photos.
// @Tags photos
// @Produce json
// @Success 200 {array} dto.TagResponse
// @Security ApiKeyAuth
// @Router /api/tags [get]
func (r *Routers) GetTags(c echo.Context) error {
	const op = "http.routers.GetTags"

	log := r.log.With(
		slog.String("op", op),
	)

	tags, err := r.AdminService.GetTags(c.Request().Context())
	if err != nil {
		log.Error("failed to list tags", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewTagResponses(tags))
}

// GetPhotoTags godoc
// @Summary List photo tags
// @Description Returns the tags currently attached to a photo.
// @Tags photos
// @Produce json
// @Param id path string true "Photo UUID" format(uuid)
// @Success 200 {array} dto.TagResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/photos/{id}/tags [get]
func (r *Routers) GetPhotoTags(c echo.Context) error {
	const op = "http.routers.GetPhotoTags"

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

	tags, err := r.UserService.GetPhotoTags(c.Request().Context(), photoID)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get photo tags", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewTagResponses(tags))
}
