package models

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         int       `json:"id"`
	Email      string    `json:"email" validate:"required,email"`
	FullName   string    `json:"full_name" validate:"required,min=2,max=100"`
	Phone      string    `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Address    string    `json:"address,omitempty"`
	AvatarPath string    `json:"avatar_path,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Role       string    `json:"role"` // user, admin
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Address  string `json:"address,omitempty"`
}

// ProfileInput travels as multipart form data so the avatar can ride along.
// Email is not part of it: the backend never lets it change.
type ProfileInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Address  string `json:"address,omitempty"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=100"`
}
