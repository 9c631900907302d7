package domain

import "time"

// UserRole represents the coarse role stored on a user record. The service
// performs no role checks beyond passing IsAdmin through unchanged.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the domain model for registered accounts, both password-based and
// SSO-created. PasswordHash never leaves the service layer.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	WalletAddress *string
	ProfileImage  *string
	Role          UserRole
	IsAdmin       bool
	IsActive      bool
	Provider      *string
	ProviderID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
