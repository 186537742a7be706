package model

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleEditor     Role = "editor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleEditor:
		return true
	}
	return false
}

// AdminUser is a dashboard operator. Secrets are kept as hashes and never
// serialized.
type AdminUser struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Name               string     `json:"name"`
	Role               Role       `json:"role"`
	Avatar             string     `json:"avatar,omitempty"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	SecurityQuestion   string     `json:"security_question,omitempty"`
	SecurityAnswerHash string     `json:"-"`
	ResetTokenHash     string     `json:"-"`
	ResetTokenExpiry   *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (u AdminUser) HasSecurityQuestion() bool {
	return u.SecurityQuestion != "" && u.SecurityAnswerHash != ""
}

// ResetTicket grants one password change while now is before ExpiresAt.
type ResetTicket struct {
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the ticket may still be redeemed. Exactly at
// ExpiresAt the ticket is already dead.
func (t ResetTicket) Valid(now time.Time) bool {
	return t.TokenHash != "" && now.Before(t.ExpiresAt)
}

// Ticket returns the user's pending reset ticket, if any.
func (u AdminUser) Ticket() (ResetTicket, bool) {
	if u.ResetTokenHash == "" || u.ResetTokenExpiry == nil {
		return ResetTicket{}, false
	}
	return ResetTicket{TokenHash: u.ResetTokenHash, ExpiresAt: *u.ResetTokenExpiry}, true
}
