package http

import (
	"errors"
	"log/slog"
	"net/http"

	"datespark/internal/domain/models"
	"datespark/internal/lib/logger/sl"
	"datespark/internal/lib/pagination"
	messageservice "datespark/internal/services/message_service"
	"datespark/internal/storage"
	"datespark/internal/transport/http/dto"
	"datespark/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CreateMessage godoc
// @Summary Send a message
// @Description Sends a direct message to another member.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.CreateMessageInput true "Message"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Users cannot message themselves"
// @Failure 404 {object} response.ErrorResponse "Recipient not found"
// @Security ApiKeyAuth
// @Router /api/messages [post]
func (r *Routers) CreateMessage(c echo.Context) error {
	const op = "http.routers.CreateMessage"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var req dto.CreateMessageInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}

	message, err := r.MessageService.CreateMessage(
		c.Request().Context(),
		claims.Username,
		req.RecipientUsername,
		req.Content,
	)
	if err != nil {
		switch {
		case errors.Is(err, messageservice.ErrSelfMessage):
			return c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Status: "error",
				Error:  "self_message",
			})
		case errors.Is(err, storage.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to create message", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusCreated, dto.NewMessageResponse(message))
}

// GetMessages godoc
// @Summary List messages
// @Description Returns one container of the current user's messages: inbox (default), outbox or unread. Paging counters go into the X-Pagination header.
// @Tags messages
// @Produce json
// @Param container query string false "inbox, outbox or unread" default(inbox)
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 50)" default(10)
// @Success 200 {array} dto.MessageResponse
// @Security ApiKeyAuth
// @Router /api/messages [get]
func (r *Routers) GetMessages(c echo.Context) error {
	const op = "http.routers.GetMessages"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var params dto.MessageParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	messages, header, err := r.MessageService.GetMessagesForUser(
		c.Request().Context(),
		claims.Username,
		models.MessageContainer(params.Container),
		pagination.Params{Page: params.Page, PageSize: params.PageSize},
	)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	writePaginationHeader(c, header)

	return c.JSON(http.StatusOK, dto.NewMessageResponses(messages))
}

// GetMessageThread godoc
// @Summary Get a conversation
// @Description Returns the full conversation with another member, oldest first, and marks their messages as read.
// @Tags messages
// @Produce json
// @Param username path string true "Other member's username"
// @Success 200 {array} dto.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/messages/thread/{username} [get]
func (r *Routers) GetMessageThread(c echo.Context) error {
	const op = "http.routers.GetMessageThread"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	otherUsername := c.Param("username")

	messages, err := r.MessageService.GetMessageThread(c.Request().Context(), claims.Username, otherUsername)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get thread", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.NewMessageResponses(messages))
}

// DeleteMessage godoc
// @Summary Delete a message
// @Description Hides the message for the current side of the conversation. The row disappears once both sides delete it.
// @Tags messages
// @Param id path string true "Message UUID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Message belongs to another conversation"
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/messages/{id} [delete]
func (r *Routers) DeleteMessage(c echo.Context) error {
	const op = "http.routers.DeleteMessage"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status: "error",
			Error:  "invalid_message_id",
		})
	}

	err = r.MessageService.DeleteMessage(c.Request().Context(), claims.Username, messageID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMessageNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, messageservice.ErrNotResolvable):
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		}

		log.Error("failed to delete message", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
