package handler

import (
	"time"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// userResponse is the public view of an account. Credentials and recovery
// fields never leave the service.
type userResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	DisplayName string          `json:"display_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Client      *clientResponse `json:"client,omitempty"`
}

type clientResponse struct {
	Phone              string           `json:"phone"`
	FullName           string           `json:"full_name"`
	Contract           *domain.Contract `json:"contract,omitempty"`
	Balance            float64          `json:"balance"`
	LastPaymentDate    time.Time        `json:"last_payment_date"`
	ConnectionApproved bool             `json:"connection_approved"`
	IsRecurring        bool             `json:"is_recurring"`
	EquipmentStatus    string           `json:"equipment_status,omitempty"`
	UnreadMessages     int              `json:"unread_messages"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	resp := &userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
	if u.Client != nil {
		resp.Client = &clientResponse{
			Phone:              u.Client.Phone,
			FullName:           u.Client.FullName,
			Contract:           u.Client.Contract,
			Balance:            u.Client.Balance,
			LastPaymentDate:    u.Client.LastPaymentDate,
			ConnectionApproved: u.Client.ConnectionApproved,
			IsRecurring:        u.Client.IsRecurring,
			EquipmentStatus:    string(u.Client.EquipmentStatus),
			UnreadMessages:     u.Client.UnreadMessages,
		}
	}
	return resp
}

func toUserResponses(users []*domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
