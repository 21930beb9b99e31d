package models

import (
	"time"

	"gorm.io/gorm"
)

// EvacuationLog is the append-only audit trail of completed legs. One row is
// written per status update: NumberOfPeople is what the plan promised,
// EvacuatedPeople is what the vehicle actually moved.
type EvacuationLog struct {
	gorm.Model
	ZoneID                  uint       `json:"zone_id" gorm:"index"`
	VehicleID               uint       `json:"vehicle_id" gorm:"index"`
	EstimatedArrivalMinutes int        `json:"estimated_arrival_minutes"`
	NumberOfPeople          int        `json:"number_of_people"`
	EvacuatedPeople         int        `json:"evacuated_people"`
	IsCompleted             bool       `json:"is_completed"`
	CompletedAt             *time.Time `json:"completed_at,omitempty"`
	Active                  bool       `json:"active" gorm:"default:true"`
}
