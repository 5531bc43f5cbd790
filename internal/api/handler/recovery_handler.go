package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/core/ports"
)

// RecoveryHandler drives the forgot-password flow: issue a short-lived code,
// verify it, reset the password. Code delivery is mocked; the issue response
// returns the code directly, as the original portal displayed it.
type RecoveryHandler struct {
	directory ports.DirectoryService
}

func NewRecoveryHandler(directory ports.DirectoryService) *RecoveryHandler {
	return &RecoveryHandler{directory: directory}
}

type recoveryIssueRequest struct {
	Email string `json:"email" validate:"required"`
}

type recoveryVerifyRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type recoveryResetRequest struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (h *RecoveryHandler) Issue(c echo.Context) error {
	var req recoveryIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	code, err := h.directory.IssueRecoveryCode(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"code": code})
}

func (h *RecoveryHandler) Verify(c echo.Context) error {
	var req recoveryVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.directory.VerifyRecoveryCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

func (h *RecoveryHandler) Reset(c echo.Context) error {
	var req recoveryResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.directory.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
