package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/api/metrics"
	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// SupportHandler exposes the staff side of client messaging and the
// support-side contract detail edit.
type SupportHandler struct {
	messaging ports.MessagingService
	contracts ports.ContractService
}

func NewSupportHandler(messaging ports.MessagingService, contracts ports.ContractService) *SupportHandler {
	return &SupportHandler{messaging: messaging, contracts: contracts}
}

type updateContractDetailsRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	EquipmentID string `json:"equipment_id"`
}

// Tickets lists the clients with at least one message in their thread.
func (h *SupportHandler) Tickets(c echo.Context) error {
	tickets, err := h.messaging.ListTickets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(tickets))
}

// ClientMessages returns the addressed client's thread.
func (h *SupportHandler) ClientMessages(c echo.Context) error {
	msgs, err := h.messaging.Messages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// SendToClient appends a staff message to the addressed client's thread.
func (h *SupportHandler) SendToClient(c echo.Context) error {
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

	msg, err := h.messaging.Send(c.Request().Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.WithLabelValues(domain.RoleSupport).Inc()
	return c.JSON(http.StatusCreated, msg)
}

// CloseTicket clears the client's thread.
func (h *SupportHandler) CloseTicket(c echo.Context) error {
	if err := h.messaging.CloseThread(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateContract edits the denormalized contract fields on behalf of the
// client. Empty fields are left untouched.
func (h *SupportHandler) UpdateContract(c echo.Context) error {
	var req updateContractDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	contract, err := h.contracts.UpdateDetails(c.Request().Context(), ports.UpdateContractDetailsInput{
		ClientID:    c.Param("id"),
		FullName:    req.FullName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		EquipmentID: req.EquipmentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract)
}
