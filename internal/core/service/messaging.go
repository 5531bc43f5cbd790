package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// autoReplyText is the canned acknowledgement appended after every client
// message, pre-marked read so it never counts as unread.
const autoReplyText = "Дякуємо за звернення! Наші спеціалісти опрацюють ваш запит найближчим часом."

// Messaging appends and reads per-client support threads. Threads live on
// the client record; staff messages are written into the addressed client's
// log. Appends happen inside one locked directory mutation each.
type Messaging struct {
	directory ports.DirectoryService
	logger    zerolog.Logger
}

func NewMessaging(directory ports.DirectoryService, logger zerolog.Logger) *Messaging {
	return &Messaging{directory: directory, logger: logger}
}

// Send appends a message with the current timestamp, unread. A client sender
// writes into their own thread and receives the canned support auto-reply; a
// staff sender writes into the addressed client's thread.
func (s *Messaging) Send(ctx context.Context, fromUserID, toClientID, text string) (*domain.Message, error) {
	sender, err := s.directory.GetUserByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if sender.IsClient() {
		msg := domain.Message{
			From:      sender.Email,
			To:        domain.SupportSender,
			Text:      text,
			Timestamp: now,
			Read:      false,
		}
		_, err := s.directory.Mutate(ctx, fromUserID, func(u *domain.User) error {
			if !u.IsClient() {
				return domain.ErrNotAClient
			}
			u.Client.Messages = append(u.Client.Messages,
				msg,
				domain.Message{
					From:      domain.SupportSender,
					To:        u.Email,
					Text:      autoReplyText,
					Timestamp: now,
					Read:      true,
				},
			)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &msg, nil
	}

	var msg domain.Message
	updated, err := s.directory.Mutate(ctx, toClientID, func(u *domain.User) error {
		if !u.IsClient() {
			return domain.ErrNotAClient
		}
		msg = domain.Message{
			From:      domain.SupportSender,
			To:        u.Email,
			Text:      text,
			Timestamp: now,
			Read:      false,
		}
		u.Client.Messages = append(u.Client.Messages, msg)
		u.Client.CountUnread()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("to", updated.Email).Msg("support message sent")
	return &msg, nil
}

// Messages returns the user's thread, empty if none. Staff accounts have no
// thread of their own.
func (s *Messaging) Messages(ctx context.Context, userID string) ([]domain.Message, error) {
	user, err := s.directory.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Client == nil {
		return nil, nil
	}
	return user.Client.Messages, nil
}

// MarkAllRead marks every support message in the client's thread as read and
// zeroes the unread counter.
func (s *Messaging) MarkAllRead(ctx context.Context, clientID string) error {
	_, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		if !u.IsClient() {
			return domain.ErrNotAClient
		}
		for i := range u.Client.Messages {
			if u.Client.Messages[i].From == domain.SupportSender {
				u.Client.Messages[i].Read = true
			}
		}
		u.Client.UnreadMessages = 0
		return nil
	})
	return err
}

// CloseThread clears the client's message log (support closes the ticket).
func (s *Messaging) CloseThread(ctx context.Context, clientID string) error {
	_, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		if !u.IsClient() {
			return domain.ErrNotAClient
		}
		u.Client.Messages = nil
		u.Client.UnreadMessages = 0
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("client_id", clientID).Msg("support thread closed")
	return nil
}

// ListTickets returns the clients with at least one message, for the support
// board.
func (s *Messaging) ListTickets(ctx context.Context) ([]*domain.User, error) {
	clients, err := s.directory.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	var tickets []*domain.User
	for _, c := range clients {
		if c.Client != nil && len(c.Client.Messages) > 0 {
			tickets = append(tickets, c)
		}
	}
	return tickets, nil
}
