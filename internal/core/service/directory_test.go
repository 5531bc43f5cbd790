package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub snapshot store
// ---------------------------------------------------------------------------

type stubStore struct {
	loaded  []*domain.User
	loadErr error
	saveErr error
	saves   int
	last    []*domain.User
}

func (s *stubStore) Load(_ context.Context) ([]*domain.User, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.loaded, nil
}

func (s *stubStore) Save(_ context.Context, users []*domain.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.last = append([]*domain.User(nil), users...)
	return nil
}

func newTestDirectory(t *testing.T, store *stubStore) *Directory {
	t.Helper()
	d := NewDirectory(store, "secret", time.Hour, zerolog.Nop())
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return d
}

func registerClient(t *testing.T, d *Directory, email string) *domain.User {
	t.Helper()
	client, err := d.Register(context.Background(), ports.RegisterInput{
		Email:    email,
		Password: "pass123",
		Phone:    "+380501234567",
		FullName: "Шевченко Тарас Григорович",
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return client
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func TestDirectory_Init_Bootstrap(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)

	if _, _, err := d.Login(context.Background(), "admin@super.net", "admin123"); err != nil {
		t.Fatalf("bootstrap admin login failed: %v", err)
	}
	_, support, err := d.Login(context.Background(), "support@super.net", "support123")
	if err != nil {
		t.Fatalf("bootstrap support login failed: %v", err)
	}
	if support.Role != domain.RoleSupport || support.DisplayName == "" {
		t.Fatalf("unexpected support account: %+v", support)
	}
	if len(store.last) != 2 {
		t.Fatalf("expected 2 bootstrap accounts persisted, got %d", len(store.last))
	}
}

func TestDirectory_Init_Idempotent(t *testing.T) {
	store := &stubStore{}
	newTestDirectory(t, store)

	// Simulate a restart against the previously persisted snapshot.
	store.loaded = store.last
	d := NewDirectory(store, "secret", time.Hour, zerolog.Nop())
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if len(store.last) != 2 {
		t.Fatalf("bootstrap duplicated on restart: %d users", len(store.last))
	}
}

func TestDirectory_Init_LoadFailureDegradesToEmpty(t *testing.T) {
	store := &stubStore{loadErr: errors.New("backend down")}
	d := newTestDirectory(t, store)

	// Only the bootstrap pair exists; startup did not halt.
	clients, _ := d.ListClients(context.Background())
	if len(clients) != 0 {
		t.Fatalf("expected empty client set, got %d", len(clients))
	}
}

// ---------------------------------------------------------------------------
// Registration and login
// ---------------------------------------------------------------------------

func TestDirectory_Register(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)

	client := registerClient(t, d, "client@gmail.com")
	if client.Role != domain.RoleClient {
		t.Fatalf("role = %s, want client", client.Role)
	}
	if client.Client == nil {
		t.Fatalf("client profile missing")
	}
	if client.Client.Balance != 0 {
		t.Fatalf("balance = %v, want 0", client.Client.Balance)
	}
	if client.Client.Contract != nil {
		t.Fatalf("new client must have no contract")
	}
	if client.Client.LastPaymentDate.IsZero() {
		t.Fatalf("lastPaymentDate not set")
	}
	if client.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestDirectory_Register_DuplicateEmail(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	registerClient(t, d, "client@gmail.com")
	savesBefore := store.saves

	_, err := d.Register(context.Background(), ports.RegisterInput{Email: "client@gmail.com", Password: "other99"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if store.saves != savesBefore {
		t.Fatalf("failed registration must not persist")
	}
	if len(store.last) != 3 { // admin + support + one client
		t.Fatalf("directory changed by failed registration: %d users", len(store.last))
	}
}

func TestDirectory_Login(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	registerClient(t, d, "client@gmail.com")

	token, user, err := d.Login(context.Background(), "client@gmail.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "client@gmail.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if d.Current() == nil || d.Current().ID != user.ID {
		t.Fatalf("session user not recorded")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleClient {
		t.Fatalf("token role = %v, want client", claims["role"])
	}
}

func TestDirectory_Login_InvalidCredentials(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	registerClient(t, d, "client@gmail.com")

	if _, _, err := d.Login(context.Background(), "client@gmail.com", "wrong99"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := d.Login(context.Background(), "nobody@gmail.com", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if d.Current() != nil {
		t.Fatalf("failed login must not set session user")
	}
}

func TestDirectory_Logout(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	registerClient(t, d, "client@gmail.com")
	_, _, _ = d.Login(context.Background(), "client@gmail.com", "pass123")

	d.Logout()
	if d.Current() != nil {
		t.Fatalf("session user not cleared")
	}
}

// ---------------------------------------------------------------------------
// Lookup, update, delete
// ---------------------------------------------------------------------------

func TestDirectory_UpdateUser_UnknownIDIsSilentNoop(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	savesBefore := store.saves

	err := d.UpdateUser(context.Background(), &domain.User{ID: "ghost"})
	if err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if store.saves != savesBefore {
		t.Fatalf("no-op update must not persist")
	}
}

func TestDirectory_DeleteUser(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	client := registerClient(t, d, "client@gmail.com")

	// Deletion proceeds regardless of contract or balance.
	client.Client.Contract = &domain.Contract{ID: "CNT-00000001", ClientID: client.ID}
	client.Client.Balance = -900
	_ = d.UpdateUser(context.Background(), client)

	if err := d.DeleteUser(context.Background(), client.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := d.GetUserByID(context.Background(), client.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if len(store.last) != 2 {
		t.Fatalf("expected 2 users after delete, got %d", len(store.last))
	}
}

func TestDirectory_LookupsReturnDetachedCopies(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	client := registerClient(t, d, "client@gmail.com")

	looked, _ := d.GetUserByID(context.Background(), client.ID)
	looked.Client.Balance = 9999
	looked.Client.Messages = append(looked.Client.Messages, domain.Message{Text: "stray"})

	fresh, _ := d.GetUserByID(context.Background(), client.ID)
	if fresh.Client.Balance != 0 || len(fresh.Client.Messages) != 0 {
		t.Fatalf("mutating a looked-up record leaked into the directory: %+v", fresh.Client)
	}

	listed, _ := d.ListClients(context.Background())
	listed[0].Client.Balance = -1
	fresh, _ = d.GetUserByID(context.Background(), client.ID)
	if fresh.Client.Balance != 0 {
		t.Fatalf("mutating a listed record leaked into the directory")
	}
}

func TestDirectory_Mutate(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	client := registerClient(t, d, "client@gmail.com")

	updated, err := d.Mutate(context.Background(), client.ID, func(u *domain.User) error {
		u.Client.Balance = 120
		return nil
	})
	if err != nil {
		t.Fatalf("mutate failed: %v", err)
	}
	if updated.Client.Balance != 120 {
		t.Fatalf("returned balance = %v, want 120", updated.Client.Balance)
	}

	fresh, _ := d.GetUserByID(context.Background(), client.ID)
	if fresh.Client.Balance != 120 {
		t.Fatalf("mutation not committed: balance = %v", fresh.Client.Balance)
	}

	if _, err := d.Mutate(context.Background(), "ghost", func(*domain.User) error { return nil }); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDirectory_Mutate_FnErrorLeavesRecordUntouched(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	client := registerClient(t, d, "client@gmail.com")
	savesBefore := store.saves

	boom := errors.New("boom")
	_, err := d.Mutate(context.Background(), client.ID, func(u *domain.User) error {
		u.Client.Balance = 777
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if store.saves != savesBefore {
		t.Fatalf("failed mutation must not persist")
	}

	fresh, _ := d.GetUserByID(context.Background(), client.ID)
	if fresh.Client.Balance != 0 {
		t.Fatalf("failed mutation dirtied the record: balance = %v", fresh.Client.Balance)
	}
}

func TestDirectory_Mutate_SaveFailureRollsBack(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	client := registerClient(t, d, "client@gmail.com")

	store.saveErr = errors.New("backend down")
	if _, err := d.Mutate(context.Background(), client.ID, func(u *domain.User) error {
		u.Client.Balance = 500
		return nil
	}); err == nil {
		t.Fatalf("expected save failure")
	}
	store.saveErr = nil

	fresh, _ := d.GetUserByID(context.Background(), client.ID)
	if fresh.Client.Balance != 0 {
		t.Fatalf("failed save dirtied the record: balance = %v", fresh.Client.Balance)
	}
}

// ---------------------------------------------------------------------------
// Recovery codes
// ---------------------------------------------------------------------------

func TestDirectory_IssueRecoveryCode(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	registerClient(t, d, "client@gmail.com")

	code, err := d.IssueRecoveryCode(context.Background(), "client@gmail.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q is not 6 digits", code)
	}
	if err := d.VerifyRecoveryCode(context.Background(), "client@gmail.com", code); err != nil {
		t.Fatalf("fresh code rejected: %v", err)
	}
}

func TestDirectory_IssueRecoveryCode_UnknownEmail(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})

	if _, err := d.IssueRecoveryCode(context.Background(), "x@gmail.com"); !errors.Is(err, domain.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestDirectory_IssueRecoveryCode_SaveFailureLeavesNoCode(t *testing.T) {
	store := &stubStore{}
	d := newTestDirectory(t, store)
	client := registerClient(t, d, "client@gmail.com")

	store.saveErr = errors.New("backend down")
	if _, err := d.IssueRecoveryCode(context.Background(), "client@gmail.com"); err == nil {
		t.Fatalf("expected save failure")
	}
	store.saveErr = nil

	user, _ := d.GetUserByID(context.Background(), client.ID)
	if user.RecoveryCode != "" || !user.RecoveryExpiry.IsZero() {
		t.Fatalf("failed issue left a code behind: %+v", user)
	}
}

func TestDirectory_VerifyRecoveryCode_Mismatch(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	registerClient(t, d, "client@gmail.com")
	_, _ = d.IssueRecoveryCode(context.Background(), "client@gmail.com")

	if err := d.VerifyRecoveryCode(context.Background(), "client@gmail.com", "000000"); !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode, got %v", err)
	}
}

func TestDirectory_VerifyRecoveryCode_SupersededCodeFails(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	registerClient(t, d, "client@gmail.com")

	first, _ := d.IssueRecoveryCode(context.Background(), "client@gmail.com")
	second, _ := d.IssueRecoveryCode(context.Background(), "client@gmail.com")
	if first == second {
		t.Skip("codes collided, cannot distinguish supersession")
	}

	if err := d.VerifyRecoveryCode(context.Background(), "client@gmail.com", first); !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("superseded code must fail, got %v", err)
	}
	if err := d.VerifyRecoveryCode(context.Background(), "client@gmail.com", second); err != nil {
		t.Fatalf("current code rejected: %v", err)
	}
}

func TestDirectory_VerifyRecoveryCode_Expired(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	client := registerClient(t, d, "client@gmail.com")

	code, _ := d.IssueRecoveryCode(context.Background(), "client@gmail.com")

	// Force the expiry into the past.
	user, _ := d.GetUserByID(context.Background(), client.ID)
	user.RecoveryExpiry = time.Now().Add(-time.Second)
	_ = d.UpdateUser(context.Background(), user)

	if err := d.VerifyRecoveryCode(context.Background(), "client@gmail.com", code); !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("expired code must fail, got %v", err)
	}
}

func TestDirectory_ResetPassword(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})
	client := registerClient(t, d, "client@gmail.com")
	_, _ = d.IssueRecoveryCode(context.Background(), "client@gmail.com")

	if err := d.ResetPassword(context.Background(), "x@gmail.com", "newpass1"); !errors.Is(err, domain.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
	if err := d.ResetPassword(context.Background(), "client@gmail.com", "short"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := d.ResetPassword(context.Background(), "client@gmail.com", "newpass1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, _, err := d.Login(context.Background(), "client@gmail.com", "newpass1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	// Recovery fields are cleared on success.
	user, _ := d.GetUserByID(context.Background(), client.ID)
	if user.RecoveryCode != "" || !user.RecoveryExpiry.IsZero() {
		t.Fatalf("recovery fields not cleared: %+v", user)
	}
}

// ---------------------------------------------------------------------------
// Staff management
// ---------------------------------------------------------------------------

func TestDirectory_CreateSupport(t *testing.T) {
	d := newTestDirectory(t, &stubStore{})

	staff, err := d.CreateSupport(context.Background(), "agent@super.net", "agent123", "Оператор Один")
	if err != nil {
		t.Fatalf("CreateSupport failed: %v", err)
	}
	if staff.Role != domain.RoleSupport {
		t.Fatalf("role = %s, want support", staff.Role)
	}

	if _, err := d.CreateSupport(context.Background(), "agent@super.net", "agent123", "x"); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := d.CreateSupport(context.Background(), "agent2@super.net", "weak", "x"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	listed, _ := d.ListStaff(context.Background())
	if len(listed) != 2 { // bootstrap support + new agent
		t.Fatalf("ListStaff = %d users, want 2", len(listed))
	}
}
