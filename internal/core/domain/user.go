package domain

import "time"

const (
	RoleClient  = "client"
	RoleSupport = "support"
	RoleAdmin   = "admin"
)

// EquipmentStatus is the state of a client's installed equipment.
type EquipmentStatus string

const (
	EquipmentPending EquipmentStatus = "pending"
	EquipmentOnline  EquipmentStatus = "online"
	EquipmentOffline EquipmentStatus = "offline"
)

// User models an authenticated actor in the portal. The role string is the
// discriminant: client accounts carry a ClientProfile, support accounts a
// display name, admin accounts neither.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"password_hash"`
	Role           string         `json:"role"`
	DisplayName    string         `json:"display_name,omitempty"`
	RecoveryCode   string         `json:"recovery_code,omitempty"`
	RecoveryExpiry time.Time      `json:"recovery_expiry,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Client         *ClientProfile `json:"client,omitempty"`
}

// ClientProfile holds the client-only state: contract, balance, message log
// and the billing bookkeeping mutated by the billing engine.
type ClientProfile struct {
	Phone              string          `json:"phone"`
	FullName           string          `json:"full_name"`
	Contract           *Contract       `json:"contract,omitempty"`
	Balance            float64         `json:"balance"`
	Messages           []Message       `json:"messages,omitempty"`
	LastPaymentDate    time.Time       `json:"last_payment_date"`
	ConnectionApproved bool            `json:"connection_approved"`
	IsRecurring        bool            `json:"is_recurring"`
	EquipmentStatus    EquipmentStatus `json:"equipment_status,omitempty"`
	UnreadMessages     int             `json:"unread_messages"`
}

// IsClient reports whether the user is a client with a profile attached.
func (u *User) IsClient() bool {
	return u.Role == RoleClient && u.Client != nil
}

// Clone returns a deep copy of the user. The directory hands out clones so
// callers never hold pointers into its live records.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Client = u.Client.clone()
	return &c
}

func (p *ClientProfile) clone() *ClientProfile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Contract != nil {
		contract := *p.Contract
		c.Contract = &contract
	}
	if p.Messages != nil {
		c.Messages = append([]Message(nil), p.Messages...)
	}
	return &c
}

// RecomputeContractStatus derives the contract status from the approval flag
// and the balance sign: pending until approved, then active when the balance
// is non-negative, debt otherwise. No-op without a contract.
func (p *ClientProfile) RecomputeContractStatus() {
	if p.Contract == nil {
		return
	}
	switch {
	case !p.ConnectionApproved:
		p.Contract.Status = ContractPending
	case p.Balance >= 0:
		p.Contract.Status = ContractActive
	default:
		p.Contract.Status = ContractDebt
	}
}

// CountUnread refreshes UnreadMessages from the unread support messages in
// the log and returns the new count.
func (p *ClientProfile) CountUnread() int {
	n := 0
	for _, m := range p.Messages {
		if m.From == SupportSender && !m.Read {
			n++
		}
	}
	p.UnreadMessages = n
	return n
}
