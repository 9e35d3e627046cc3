package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the application-wide role of a user.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents a registered user of the application.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Surname            string    `json:"surname"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	ProfilePicturePath *string   `json:"-"`
	Role               UserRole  `json:"role"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// FullName joins the user's first name and surname.
func (u *User) FullName() string { return u.Name + " " + u.Surname }

// PublicUser is the user export safe to embed in any response. It omits the
// password hash, role and session data.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Surname  string    `json:"surname"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Public exports the user's presentable data.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Surname:  u.Surname,
		Username: u.Username,
		Email:    u.Email,
	}
}

// RegisterUserRequest is the payload for user registration.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Surname  string `json:"surname" binding:"required,min=1"`
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
}

// UpdateProfileRequest is the payload for updating one's own profile.
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Surname  string `json:"surname" binding:"required,min=1"`
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
}

// AvailabilityQuery asks whether an email and/or username are still free.
type AvailabilityQuery struct {
	Email    *string `form:"email" binding:"omitempty,email"`
	Username *string `form:"username" binding:"omitempty,username"`
}

// IdentifierAvailability carries the availability answer per requested field.
type IdentifierAvailability struct {
	Email    *bool `json:"email,omitempty"`
	Username *bool `json:"username,omitempty"`
}
