package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	Email                   string     `json:"email" db:"email"`
	PasswordHash            string     `json:"-" db:"password_hash"`
	FullName                string     `json:"full_name" db:"full_name"`
	AvatarURL               *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Role                    string     `json:"role" db:"role"`
	Specialty               *string    `json:"specialty,omitempty" db:"specialty"`
	LicenseNumber           *string    `json:"license_number,omitempty" db:"license_number"`
	Phone                   *string    `json:"phone,omitempty" db:"phone"`
	Country                 *string    `json:"country,omitempty" db:"country"`
	City                    *string    `json:"city,omitempty" db:"city"`
	IsActive                bool       `json:"is_active" db:"is_active"`
	IsEmailVerified         bool       `json:"is_email_verified" db:"is_email_verified"`
	EmailVerificationToken  *string    `json:"-" db:"email_verification_token"`
	EmailVerificationSentAt *time.Time `json:"-" db:"email_verification_sent_at"`
	PasswordResetToken      *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt  *time.Time `json:"-" db:"password_reset_expires_at"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt               *time.Time `json:"-" db:"deleted_at"`
}

type CreateUserInput struct {
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	FullName      string  `json:"full_name" validate:"required,min=2"`
	Role          string  `json:"role" validate:"required,oneof=doctor patient"`
	Specialty     *string `json:"specialty,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Country       *string `json:"country,omitempty"`
	City          *string `json:"city,omitempty"`
}

type UpdateUserInput struct {
	FullName  *string  `json:"full_name,omitempty" validate:"omitempty,min=2"`
	AvatarURL **string `json:"avatar_url,omitempty"`
	Specialty **string `json:"specialty,omitempty"`
	Phone     **string `json:"phone,omitempty"`
	Country   **string `json:"country,omitempty"`
	City      **string `json:"city,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserRole string

const (
	RoleDoctor    UserRole = "doctor"
	RolePatient   UserRole = "patient"
	RoleAuthority UserRole = "certificate_authority"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleDoctor, RolePatient, RoleAuthority:
		return true
	default:
		return false
	}
}

func (u *User) HasRole(requiredRole string) bool {
	if requiredRole == string(RoleAuthority) {
		return u.Role == string(RoleAuthority)
	}
	return u.Role == requiredRole
}

// Profile is the author-facing projection of a user: the snapshot embedded in
// comments and the directory entry shown in collaborator listings.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Specialty string    `json:"specialty,omitempty"`
	Online    bool      `json:"online"`
}
