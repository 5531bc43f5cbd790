package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/api/metrics"
	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// MessageHandler exposes the client side of the support thread.
type MessageHandler struct {
	messaging ports.MessagingService
}

func NewMessageHandler(messaging ports.MessagingService) *MessageHandler {
	return &MessageHandler{messaging: messaging}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// List returns the authenticated client's thread.
func (h *MessageHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	msgs, err := h.messaging.Messages(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// Send appends a client message to their own thread.
func (h *MessageHandler) Send(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.messaging.Send(c.Request().Context(), userID, "", req.Text)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.WithLabelValues(domain.RoleClient).Inc()
	return c.JSON(http.StatusCreated, msg)
}

// MarkRead marks all support messages in the client's thread as read, the
// portal equivalent of opening the chat tab.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.messaging.MarkAllRead(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
