package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/superinternet/portal-api/internal/api/metrics"
	"github.com/superinternet/portal-api/internal/core/ports"
)

type BillingHandler struct {
	billing ports.BillingService
}

func NewBillingHandler(billing ports.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

type paymentRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Recurring bool    `json:"recurring"`
}

type paymentResponse struct {
	Balance   float64 `json:"balance"`
	Recurring bool    `json:"recurring"`
}

// Pay applies a payment to the authenticated client's balance. The positive
// amount gate lives here: the engine itself accepts any sign.
func (h *BillingHandler) Pay(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.billing.MakePayment(c.Request().Context(), userID, req.Amount, req.Recurring)
	if err != nil {
		return err
	}

	metrics.PaymentsTotal.WithLabelValues(strconv.FormatBool(req.Recurring)).Inc()
	return c.JSON(http.StatusOK, paymentResponse{
		Balance:   user.Client.Balance,
		Recurring: user.Client.IsRecurring,
	})
}

// ToggleRecurring flips the monthly auto-charge flag.
func (h *BillingHandler) ToggleRecurring(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	recurring, err := h.billing.ToggleRecurring(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"recurring": recurring})
}
