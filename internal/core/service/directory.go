package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
	"github.com/superinternet/portal-api/internal/core/validation"
)

const recoveryCodeTTL = 5 * time.Minute

// Bootstrap staff accounts, inserted idempotently at startup.
const (
	bootstrapAdminEmail      = "admin@super.net"
	bootstrapAdminPassword   = "admin123"
	bootstrapSupportEmail    = "support@super.net"
	bootstrapSupportPassword = "support123"
	bootstrapSupportName     = "Техпідтримка"
)

// Directory owns the in-memory user collection backed by a snapshot store.
// Every mutating operation is one locked read-modify-persist step: the whole
// snapshot is saved on each change, and a failed save leaves the in-memory
// state as it was. Lookups return deep copies so no caller can write to a
// live record outside the lock.
type Directory struct {
	mu        sync.Mutex
	users     []*domain.User
	current   *domain.User
	store     ports.SnapshotStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewDirectory(store ports.SnapshotStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *Directory {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Directory{
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Init loads the persisted snapshot and ensures the two bootstrap accounts
// exist. A load failure degrades to an empty directory rather than halting
// startup.
func (d *Directory) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("snapshot load failed, starting with empty directory")
		users = nil
	}
	d.users = users

	if d.findByEmail(bootstrapAdminEmail) == nil {
		admin, err := newStaffUser(bootstrapAdminEmail, bootstrapAdminPassword, domain.RoleAdmin, "")
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		d.users = append(d.users, admin)
	}
	if d.findByEmail(bootstrapSupportEmail) == nil {
		support, err := newStaffUser(bootstrapSupportEmail, bootstrapSupportPassword, domain.RoleSupport, bootstrapSupportName)
		if err != nil {
			return fmt.Errorf("bootstrap support: %w", err)
		}
		d.users = append(d.users, support)
	}

	if err := d.store.Save(ctx, d.users); err != nil {
		return fmt.Errorf("persist bootstrap accounts: %w", err)
	}

	d.logger.Info().Int("users", len(d.users)).Msg("directory initialised")
	return nil
}

func newStaffUser(email, password, role, displayName string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Register creates a new client account. The email uniqueness check is a
// case-sensitive exact match across all roles.
func (d *Directory) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findByEmail(in.Email) != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	client := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		CreatedAt:    now,
		Client: &domain.ClientProfile{
			Phone:           in.Phone,
			FullName:        in.FullName,
			LastPaymentDate: now,
		},
	}

	d.users = append(d.users, client)
	if err := d.store.Save(ctx, d.users); err != nil {
		d.users = d.users[:len(d.users)-1]
		return nil, fmt.Errorf("persist registration: %w", err)
	}

	d.logger.Info().Str("user_id", client.ID).Str("email", client.Email).Msg("client registered")
	return client.Clone(), nil
}

// Login authenticates by email and password, records the session user and
// returns a signed token.
func (d *Directory) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user := d.findByEmail(email)
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := d.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	d.current = user
	return token, user.Clone(), nil
}

// Logout clears the session user. No error conditions.
func (d *Directory) Logout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = nil
}

// Current returns the session user, nil when nobody is logged in. The session
// is in-memory only and lost on restart.
func (d *Directory) Current() *domain.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.Clone()
}

func (d *Directory) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Mutate applies fn to a copy of the stored record and commits it in one
// locked step. The record is untouched when fn fails, and restored when the
// save fails.
func (d *Directory) Mutate(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, u := range d.users {
		if u.ID != id {
			continue
		}

		next := u.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}

		d.users[i] = next
		if err := d.store.Save(ctx, d.users); err != nil {
			d.users[i] = u
			return nil, fmt.Errorf("persist mutation: %w", err)
		}
		if d.current != nil && d.current.ID == id {
			d.current = next
		}
		return next.Clone(), nil
	}
	return nil, domain.ErrUserNotFound
}

// UpdateUser replaces the stored record matching the user's ID and persists.
// An unknown ID is a silent no-op, not an error.
func (d *Directory) UpdateUser(ctx context.Context, user *domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, u := range d.users {
		if u.ID == user.ID {
			d.users[i] = user.Clone()
			if err := d.store.Save(ctx, d.users); err != nil {
				d.users[i] = u
				return fmt.Errorf("persist update: %w", err)
			}
			return nil
		}
	}
	return nil
}

// DeleteUser removes the user regardless of role or referential state:
// deleting a client discards their contract and balance history.
func (d *Directory) DeleteUser(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.users[:0]
	for _, u := range d.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	d.users = kept
	if d.current != nil && d.current.ID == id {
		d.current = nil
	}
	return d.store.Save(ctx, d.users)
}

// CreateSupport adds a support staff account. Admin-only, enforced at the API
// boundary.
func (d *Directory) CreateSupport(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	if !validation.Password(password) {
		return nil, domain.ErrWeakPassword
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findByEmail(email) != nil {
		return nil, domain.ErrDuplicateEmail
	}

	support, err := newStaffUser(email, password, domain.RoleSupport, displayName)
	if err != nil {
		return nil, fmt.Errorf("create support: %w", err)
	}

	d.users = append(d.users, support)
	if err := d.store.Save(ctx, d.users); err != nil {
		d.users = d.users[:len(d.users)-1]
		return nil, fmt.Errorf("persist support account: %w", err)
	}

	d.logger.Info().Str("email", email).Msg("support account created")
	return support.Clone(), nil
}

func (d *Directory) ListClients(_ context.Context) ([]*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var clients []*domain.User
	for _, u := range d.users {
		if u.Role == domain.RoleClient {
			clients = append(clients, u.Clone())
		}
	}
	return clients, nil
}

func (d *Directory) ListStaff(_ context.Context) ([]*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var staff []*domain.User
	for _, u := range d.users {
		if u.Role == domain.RoleSupport {
			staff = append(staff, u.Clone())
		}
	}
	return staff, nil
}

// IssueRecoveryCode generates a 6-digit code valid for five minutes and
// stores it on the user record. Delivery is out of scope; the code is only
// logged, mirroring the original mock.
func (d *Directory) IssueRecoveryCode(ctx context.Context, email string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user := d.findByEmail(email)
	if user == nil {
		return "", domain.ErrUnknownEmail
	}

	prevCode, prevExpiry := user.RecoveryCode, user.RecoveryExpiry
	code := generateRecoveryCode()
	user.RecoveryCode = code
	user.RecoveryExpiry = time.Now().Add(recoveryCodeTTL)
	if err := d.store.Save(ctx, d.users); err != nil {
		user.RecoveryCode, user.RecoveryExpiry = prevCode, prevExpiry
		return "", fmt.Errorf("persist recovery code: %w", err)
	}

	d.logger.Info().Str("email", email).Str("code", code).Msg("recovery code issued (mock delivery)")
	return code, nil
}

// VerifyRecoveryCode succeeds only when the stored code matches exactly and
// the current time is strictly before expiry. A superseded prior code fails.
func (d *Directory) VerifyRecoveryCode(_ context.Context, email, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user := d.findByEmail(email)
	if user == nil || user.RecoveryCode == "" || user.RecoveryCode != code || !time.Now().Before(user.RecoveryExpiry) {
		return domain.ErrInvalidOrExpiredCode
	}
	return nil
}

// ResetPassword overwrites the password and clears the recovery code fields.
func (d *Directory) ResetPassword(ctx context.Context, email, newPassword string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user := d.findByEmail(email)
	if user == nil {
		return domain.ErrUnknownEmail
	}
	if !validation.Password(newPassword) {
		return domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	prevHash, prevCode, prevExpiry := user.PasswordHash, user.RecoveryCode, user.RecoveryExpiry
	user.PasswordHash = string(hash)
	user.RecoveryCode = ""
	user.RecoveryExpiry = time.Time{}
	if err := d.store.Save(ctx, d.users); err != nil {
		user.PasswordHash, user.RecoveryCode, user.RecoveryExpiry = prevHash, prevCode, prevExpiry
		return fmt.Errorf("persist password reset: %w", err)
	}

	d.logger.Info().Str("email", email).Msg("password reset")
	return nil
}

// findByEmail is a case-sensitive exact match. Callers hold d.mu.
func (d *Directory) findByEmail(email string) *domain.User {
	for _, u := range d.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (d *Directory) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(d.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(d.jwtSecret))
}

// generateRecoveryCode returns a random 6-digit numeric code.
func generateRecoveryCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// fallback: derive from the clock
		return fmt.Sprintf("%06d", time.Now().UnixNano()%900000+100000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
