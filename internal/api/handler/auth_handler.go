package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/api/metrics"
	"github.com/superinternet/portal-api/internal/core/ports"
)

type AuthHandler struct {
	directory ports.DirectoryService
}

func NewAuthHandler(directory ports.DirectoryService) *AuthHandler {
	return &AuthHandler{directory: directory}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,portal_email"`
	Password string `json:"password" validate:"required,portal_password"`
	Phone    string `json:"phone" validate:"required,ua_phone"`
	FullName string `json:"full_name" validate:"required,ua_fullname"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

// Register creates a new client account. The five acceptance rules gate the
// request here; the directory itself only rejects duplicate emails.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.directory.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{User: toUserResponse(user)})
}

// Login authenticates a user and returns a signed token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.directory.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

// Logout clears the in-memory session user. Tokens stay valid until expiry;
// the session reference is what the original portal cleared.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.directory.Logout()
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.directory.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteMe removes the authenticated client's account along with its
// contract and history.
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.directory.DeleteUser(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
