package models

import (
	"gorm.io/gorm"
)

// Vehicle is a transport unit with fixed capacity and speed.
// IsAvailable is false exactly while the vehicle is committed to an
// unfinished evacuation plan.
type Vehicle struct {
	gorm.Model
	Callsign    string  `json:"callsign" gorm:"unique"`
	Capacity    int     `json:"capacity"`
	Type        string  `json:"type"` // "bus", "van", "boat", "helicopter"
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Speed       float64 `json:"speed"` // km/h, must be > 0 to produce an ETA
	IsAvailable bool    `json:"is_available" gorm:"default:true"`
	Active      bool    `json:"active" gorm:"default:true"`
}
