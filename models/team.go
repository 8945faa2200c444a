package models

import "time"

// Role separates tournament administrators from team accounts.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleTeam  Role = "team"
)

// Team is an authenticated account. Teams enter tournaments, referee games
// and manage their own player rosters; admins run the whole thing.
type Team struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
