package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// AdminHandler exposes the admin-exclusive operations: client and staff
// management, connection approval and the equipment board.
type AdminHandler struct {
	directory ports.DirectoryService
	contracts ports.ContractService
}

func NewAdminHandler(directory ports.DirectoryService, contracts ports.ContractService) *AdminHandler {
	return &AdminHandler{directory: directory, contracts: contracts}
}

type createStaffRequest struct {
	Email       string `json:"email" validate:"required,portal_email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

type setEquipmentRequest struct {
	Status string `json:"status" validate:"required,oneof=online offline"`
}

// ListClients returns every client account.
func (h *AdminHandler) ListClients(c echo.Context) error {
	clients, err := h.directory.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(clients))
}

// DeleteClient removes a client account with its contract and history.
func (h *AdminHandler) DeleteClient(c echo.Context) error {
	if err := h.directory.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStaff returns the support staff accounts.
func (h *AdminHandler) ListStaff(c echo.Context) error {
	staff, err := h.directory.ListStaff(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(staff))
}

// CreateStaff adds a support account. Password strength is checked by the
// directory, not the request schema, so the weak-password failure is the
// same one the recovery flow returns.
func (h *AdminHandler) CreateStaff(c echo.Context) error {
	var req createStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	staff, err := h.directory.CreateSupport(c.Request().Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(staff))
}

// DeleteStaff removes a support account.
func (h *AdminHandler) DeleteStaff(c echo.Context) error {
	if err := h.directory.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Equipment lists the contracted clients for the equipment board.
func (h *AdminHandler) Equipment(c echo.Context) error {
	clients, err := h.directory.ListClients(c.Request().Context())
	if err != nil {
		return err
	}

	var contracted []*userResponse
	for _, u := range clients {
		if u.Client != nil && u.Client.Contract != nil {
			contracted = append(contracted, toUserResponse(u))
		}
	}
	if contracted == nil {
		contracted = []*userResponse{}
	}
	return c.JSON(http.StatusOK, contracted)
}

// Approve grants the connection approval that gates billing and activation.
func (h *AdminHandler) Approve(c echo.Context) error {
	if err := h.contracts.ApproveConnection(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetEquipment switches a client's equipment online or offline.
func (h *AdminHandler) SetEquipment(c echo.Context) error {
	var req setEquipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.contracts.SetEquipmentStatus(c.Request().Context(), c.Param("id"), domain.EquipmentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
