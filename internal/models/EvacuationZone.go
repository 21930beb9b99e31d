package models

import (
	"gorm.io/gorm"
)

// Urgency levels for a zone, ordinal 1 (lowest) to 5 (highest).
// Plan generation processes zones in descending urgency order.
const (
	UrgencyVeryLow  = 1
	UrgencyLow      = 2
	UrgencyMedium   = 3
	UrgencyHigh     = 4
	UrgencyVeryHigh = 5
)

// EvacuationZone is a geographic area with people awaiting evacuation.
// NumberOfPeople is the original population; RemainingPeople counts down
// as status updates arrive and never drops below zero.
type EvacuationZone struct {
	gorm.Model
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	NumberOfPeople    int     `json:"number_of_people"`
	UrgencyLevel      int     `json:"urgency_level"`
	TotalEvacuated    int     `json:"total_evacuated"`
	RemainingPeople   int     `json:"remaining_people"`
	LastVehicleUsedID *uint   `json:"last_vehicle_used_id,omitempty"`

	// Optional zone boundary stored as WKB (SRID 4326 polygon).
	// Controllers accept/emit GeoJSON; conversion happens at the API edge.
	Boundary []byte `gorm:"type:bytea" json:"-"`

	Active bool `json:"active" gorm:"default:true"`
}
