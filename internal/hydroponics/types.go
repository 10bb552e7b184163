package hydroponics

import (
	"time"

	"github.com/nerrad567/hydroponics-core/internal/decimal"
)

// Field limits.
const (
	// MaxNameLength is the maximum length of a system name, in characters.
	MaxNameLength = 75

	// MaxDescriptionLength is the maximum length of a system description.
	MaxDescriptionLength = 800

	// Total digits (two of them fractional) allowed per measurement.
	PHDigits        = 4
	WaterTempDigits = 5
	TDSDigits       = 7

	// RecentReadingsLimit is how many readings a system detail embeds.
	RecentReadingsLimit = 10
)

// System is a hydroponic installation owned by one owner.
type System struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PlantCount  int       `json:"plant_count"`
	OwnerID     string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// SystemDetail is a System with its most recent readings, newest first.
type SystemDetail struct {
	System
	RecentSensorReadings []Reading `json:"recent_sensor_readings"`
}

// Reading is one timestamped set of measurements from a system.
type Reading struct {
	ID        int64           `json:"id"`
	PH        decimal.Decimal `json:"ph"`
	WaterTemp decimal.Decimal `json:"water_temp"`
	TDS       decimal.Decimal `json:"tds"`
	SystemID  int64           `json:"hydroponic_system"`
	CreatedAt time.Time       `json:"created_at"`
}

// SystemEvent names a change to a system for notifiers.
type SystemEvent string

// System lifecycle events.
const (
	SystemCreated SystemEvent = "created"
	SystemUpdated SystemEvent = "updated"
	SystemDeleted SystemEvent = "deleted"
)
