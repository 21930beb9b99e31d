package services

import (
	"errors"
	"fmt"
)

// Validation failures raised by the dispatch engine. These surface to the
// caller verbatim; infrastructure errors are wrapped and propagated
// separately, never swallowed.
var (
	ErrNoZones           = errors.New("no zones found")
	ErrNoVehicles        = errors.New("no vehicles found")
	ErrNoSuitableVehicle = errors.New("no suitable vehicle found for any zone")
)

type NotFoundKind string

const (
	NotFoundZone    NotFoundKind = "zone"
	NotFoundVehicle NotFoundKind = "vehicle"
	NotFoundPlan    NotFoundKind = "plan"
)

// NotFoundError identifies which entity a status update failed to resolve.
type NotFoundError struct {
	Kind NotFoundKind
	msg  string
}

func (e *NotFoundError) Error() string { return e.msg }

func newZoneNotFound(id uint) *NotFoundError {
	return &NotFoundError{Kind: NotFoundZone, msg: fmt.Sprintf("Zone %d not found.", id)}
}

func newVehicleNotFound(id uint) *NotFoundError {
	return &NotFoundError{Kind: NotFoundVehicle, msg: fmt.Sprintf("Vehicle %d not found.", id)}
}

func newPlanNotFound(zoneID, vehicleID uint) *NotFoundError {
	return &NotFoundError{
		Kind: NotFoundPlan,
		msg:  fmt.Sprintf("Plan not found for zone %d and vehicle %d.", zoneID, vehicleID),
	}
}
