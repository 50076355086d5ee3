package models

import "time"

// Contact is a personal emergency contact owned by one user.
type Contact struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	AvatarPath   string    `json:"avatar_path,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsEmergency  bool      `json:"is_emergency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ContactInput struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,min=10,max=15"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Relationship string `json:"relationship,omitempty" validate:"max=50"`
	IsEmergency  bool   `json:"is_emergency"`
}
