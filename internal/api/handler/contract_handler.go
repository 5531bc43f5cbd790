package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// ContractHandler exposes the client-side contract lifecycle. Staff-side
// contract operations live on the support and admin handlers.
type ContractHandler struct {
	contracts ports.ContractService
}

func NewContractHandler(contracts ports.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type createContractRequest struct {
	ServiceType string `json:"service_type" validate:"required,oneof=internet internet_tv"`
	Address     string `json:"address" validate:"required,ua_address"`
}

type updateAddressRequest struct {
	Address string `json:"address" validate:"required,ua_address"`
}

// Create subscribes the authenticated client to a service.
func (h *ContractHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createContractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contract, err := h.contracts.Create(c.Request().Context(), ports.CreateContractInput{
		ClientID:    userID,
		ServiceType: domain.ServiceType(req.ServiceType),
		Address:     req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contract)
}

// UpdateAddress changes the connection address on the client's contract.
func (h *ContractHandler) UpdateAddress(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contract, err := h.contracts.UpdateAddress(c.Request().Context(), userID, req.Address)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract)
}

// Delete terminates the client's contract. The account survives with a zero
// balance and no connection.
func (h *ContractHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.contracts.Delete(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
