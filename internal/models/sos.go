package models

import "time"

// SOS request lifecycle: pending -> processing -> resolved, driven by an
// admin operator on the rescue dashboard.
const (
	SOSStatusPending    = "pending"
	SOSStatusProcessing = "processing"
	SOSStatusResolved   = "resolved"
)

// SOSRequest lives on a separate backend surface that speaks bare JSON
// instead of the usual envelope; it is polled, never cached in a store.
type SOSRequest struct {
	ID        int       `json:"id"`
	UserName  string    `json:"user_name"`
	Phone     string    `json:"phone,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Status    string    `json:"status"` // pending, processing, resolved
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SOSInput struct {
	UserName  string  `json:"user_name,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Message   string  `json:"message,omitempty" validate:"max=500"`
}
