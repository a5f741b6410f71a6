package domain

import "time"

// RoleAdmin is the only role allowed on the admin API.
const RoleAdmin = "admin"

// AdminUser is a staff account able to manage quote requests.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Principal is the authenticated identity extracted from an access token.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// HasRole reports whether the principal holds role.
func (p *Principal) HasRole(role string) bool {
	return p != nil && p.Role == role
}
