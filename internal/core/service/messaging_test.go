package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/superinternet/portal-api/internal/core/domain"
)

func TestMessaging_ClientSendGetsAutoReply(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	messaging := NewMessaging(d, zerolog.Nop())
	client := registerClient(t, d, "client@gmail.com")

	msg, err := messaging.Send(context.Background(), client.ID, "", "Немає інтернету другий день")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.From != client.Email || msg.To != domain.SupportSender {
		t.Fatalf("unexpected envelope: %+v", msg)
	}

	thread, _ := messaging.Messages(context.Background(), client.ID)
	if len(thread) != 2 {
		t.Fatalf("thread length = %d, want message plus auto-reply", len(thread))
	}

	reply := thread[1]
	if reply.From != domain.SupportSender {
		t.Fatalf("auto-reply sender = %q", reply.From)
	}
	if !reply.Read {
		t.Fatalf("auto-reply must be pre-marked read")
	}

	u, _ := d.GetUserByID(context.Background(), client.ID)
	if got := u.Client.CountUnread(); got != 0 {
		t.Fatalf("unread = %d, auto-reply must not count", got)
	}
}

func TestMessaging_SupportSendIsUnread(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	messaging := NewMessaging(d, zerolog.Nop())
	client := registerClient(t, d, "client@gmail.com")
	staff, _ := d.CreateSupport(context.Background(), "agent@super.net", "agent123", "Оператор")

	msg, err := messaging.Send(context.Background(), staff.ID, client.ID, "Майстер приїде завтра")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.From != domain.SupportSender || msg.To != client.Email {
		t.Fatalf("unexpected envelope: %+v", msg)
	}
	if msg.Read {
		t.Fatalf("staff message must arrive unread")
	}

	u, _ := d.GetUserByID(context.Background(), client.ID)
	if u.Client.UnreadMessages != 1 {
		t.Fatalf("unread counter = %d, want 1", u.Client.UnreadMessages)
	}

	// Staff sending to a non-client target is rejected.
	if _, err := messaging.Send(context.Background(), staff.ID, staff.ID, "x"); !errors.Is(err, domain.ErrNotAClient) {
		t.Fatalf("expected ErrNotAClient, got %v", err)
	}
	if _, err := messaging.Send(context.Background(), staff.ID, "ghost", "x"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMessaging_Messages(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	messaging := NewMessaging(d, zerolog.Nop())
	client := registerClient(t, d, "client@gmail.com")
	staff, _ := d.CreateSupport(context.Background(), "agent@super.net", "agent123", "Оператор")

	thread, err := messaging.Messages(context.Background(), client.ID)
	if err != nil || len(thread) != 0 {
		t.Fatalf("fresh client thread = (%v, %v), want empty", thread, err)
	}

	// Staff accounts carry no thread of their own.
	thread, err = messaging.Messages(context.Background(), staff.ID)
	if err != nil || thread != nil {
		t.Fatalf("staff thread = (%v, %v), want nil", thread, err)
	}
}

func TestMessaging_MarkAllRead(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	messaging := NewMessaging(d, zerolog.Nop())
	client := registerClient(t, d, "client@gmail.com")
	staff, _ := d.CreateSupport(context.Background(), "agent@super.net", "agent123", "Оператор")

	_, _ = messaging.Send(context.Background(), client.ID, "", "Питання по тарифу")
	_, _ = messaging.Send(context.Background(), staff.ID, client.ID, "Відповідь один")
	_, _ = messaging.Send(context.Background(), staff.ID, client.ID, "Відповідь два")

	if err := messaging.MarkAllRead(context.Background(), client.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	u, _ := d.GetUserByID(context.Background(), client.ID)
	if u.Client.UnreadMessages != 0 {
		t.Fatalf("unread counter = %d, want 0", u.Client.UnreadMessages)
	}
	for _, m := range u.Client.Messages {
		if m.From == domain.SupportSender && !m.Read {
			t.Fatalf("support message left unread: %+v", m)
		}
	}
	// The client's own outgoing message keeps its flag untouched.
	if u.Client.Messages[0].Read {
		t.Fatalf("client's own message flipped to read")
	}
}

func TestMessaging_CloseThread(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	messaging := NewMessaging(d, zerolog.Nop())
	client := registerClient(t, d, "client@gmail.com")

	_, _ = messaging.Send(context.Background(), client.ID, "", "Питання")
	if err := messaging.CloseThread(context.Background(), client.ID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	u, _ := d.GetUserByID(context.Background(), client.ID)
	if len(u.Client.Messages) != 0 || u.Client.UnreadMessages != 0 {
		t.Fatalf("thread not cleared: %d messages, %d unread", len(u.Client.Messages), u.Client.UnreadMessages)
	}
}

func TestMessaging_ListTickets(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	messaging := NewMessaging(d, zerolog.Nop())

	quiet := registerClient(t, d, "quiet@gmail.com")
	loud := registerClient(t, d, "loud@gmail.com")
	_, _ = messaging.Send(context.Background(), loud.ID, "", "Допоможіть")

	tickets, err := messaging.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != loud.ID {
		t.Fatalf("tickets = %v, want only the client with messages", tickets)
	}
	_ = quiet
}
