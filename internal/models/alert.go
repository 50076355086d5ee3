package models

import "time"

// Alert levels
const (
	AlertLevelInfo     = "info"
	AlertLevelWarning  = "warning"
	AlertLevelDanger   = "danger"
	AlertLevelCritical = "critical"
)

type AlertShelter struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Capacity int     `json:"capacity"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type AlertContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Alert struct {
	ID                 int            `json:"id"`
	LocationID         int            `json:"location_id"`
	Level              string         `json:"level"` // info, warning, danger, critical
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	WaterLevel         *float64       `json:"water_level,omitempty"`
	Rainfall           *float64       `json:"rainfall,omitempty"`
	WindSpeed          *float64       `json:"wind_speed,omitempty"`
	Temperature        *float64       `json:"temperature,omitempty"`
	Humidity           *float64       `json:"humidity,omitempty"`
	Forecast           string         `json:"forecast,omitempty"`
	SafetyInstructions string         `json:"safety_instructions,omitempty"`
	Shelters           []AlertShelter `json:"shelters,omitempty"`
	EmergencyContacts  []AlertContact `json:"emergency_contacts,omitempty"`
	ImagePath          string         `json:"image_path,omitempty"`
	ImageURL           string         `json:"image_url,omitempty"`
	IsActive           bool           `json:"is_active"`
	StartTime          *time.Time     `json:"start_time,omitempty"`
	EndTime            *time.Time     `json:"end_time,omitempty"`
	CreatedBy          int            `json:"created_by,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Location           *Location      `json:"location,omitempty"`
}

type AlertInput struct {
	LocationID         int            `json:"location_id" validate:"required,gt=0"`
	Level              string         `json:"level" validate:"required,oneof=info warning danger critical"`
	Title              string         `json:"title" validate:"required,min=5,max=200"`
	Description        string         `json:"description" validate:"required"`
	WaterLevel         *float64       `json:"water_level,omitempty"`
	Rainfall           *float64       `json:"rainfall,omitempty"`
	WindSpeed          *float64       `json:"wind_speed,omitempty"`
	Temperature        *float64       `json:"temperature,omitempty"`
	Humidity           *float64       `json:"humidity,omitempty"`
	Forecast           string         `json:"forecast,omitempty"`
	SafetyInstructions string         `json:"safety_instructions,omitempty"`
	Shelters           []AlertShelter `json:"shelters,omitempty"`
	EmergencyContacts  []AlertContact `json:"emergency_contacts,omitempty"`
	IsActive           bool           `json:"is_active"`
}
