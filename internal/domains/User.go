package domains

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type UserProfile struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	OrganizationID *string   `db:"organization_id" json:"organization_id"`
	Role           Role      `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Account is a profile together with its password hash; it never leaves the service layer.
type Account struct {
	UserProfile
	PassHash string `db:"passhash" json:"-"`
}

type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
