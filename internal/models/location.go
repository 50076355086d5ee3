package models

import "time"

type Location struct {
	ID           int       `json:"id"`
	Name         string    `json:"name" validate:"required,min=2,max=200"`
	Province     string    `json:"province" validate:"required"`
	District     string    `json:"district,omitempty"`
	Ward         string    `json:"ward,omitempty"`
	Latitude     float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	Description  string    `json:"description,omitempty"`
	ImagePath    string    `json:"image_path,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	IsMonitoring bool      `json:"is_monitoring"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserLocation is the subscription join record. Its existence in the cache is
// what makes a location "followed"; there is no separate boolean flag.
type UserLocation struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	LocationID int       `json:"location_id"`
	Priority   int       `json:"priority"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Location   *Location `json:"location,omitempty"`
}

type SubscribeLocationInput struct {
	LocationID int    `json:"location_id" validate:"required,gt=0"`
	Priority   int    `json:"priority" validate:"gte=0,lte=10"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

type LocationInput struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	Province     string  `json:"province" validate:"required"`
	District     string  `json:"district,omitempty"`
	Ward         string  `json:"ward,omitempty"`
	Latitude     float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Description  string  `json:"description,omitempty"`
	IsMonitoring bool    `json:"is_monitoring"`
}
