package ports

import (
	"context"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// MessagingService appends and reads per-client support threads.
type MessagingService interface {
	// Send appends a message. A client sender writes into their own thread
	// (toClientID ignored); a staff sender writes into the addressed
	// client's thread.
	Send(ctx context.Context, fromUserID, toClientID, text string) (*domain.Message, error)
	// Messages returns the user's thread, empty if none.
	Messages(ctx context.Context, userID string) ([]domain.Message, error)
	// MarkAllRead marks every support message in the client's thread read.
	MarkAllRead(ctx context.Context, clientID string) error
	// CloseThread clears the client's thread (support "close ticket").
	CloseThread(ctx context.Context, clientID string) error
	// ListTickets returns the clients with at least one message.
	ListTickets(ctx context.Context) ([]*domain.User, error)
}
