package models

import (
	"gorm.io/gorm"
)

// EvacuationPlan is an active assignment of one vehicle to one zone for a
// single evacuation leg. Zone and vehicle are referenced strictly by id,
// never by embedded object references.
type EvacuationPlan struct {
	gorm.Model
	ZoneID                  uint `json:"zone_id" gorm:"index"`
	VehicleID               uint `json:"vehicle_id" gorm:"index"`
	EstimatedArrivalMinutes int  `json:"estimated_arrival_minutes"`
	NumberOfPeople          int  `json:"number_of_people"`
	Active                  bool `json:"active" gorm:"default:true"`
}
