// Package storage is the persistence boundary of the dispatch engine. The
// services consume the Store/Tx interfaces only; the GORM implementation in
// this package is wired in at the composition root.
package storage

import (
	"context"

	"evac_dispatch/internal/models"
)

// ZoneRepository gives access to evacuation zones. Remove is a soft delete:
// the zone's Active flag is cleared, the row stays.
type ZoneRepository interface {
	All(ctx context.Context) ([]models.EvacuationZone, error)
	AllActive(ctx context.Context) ([]models.EvacuationZone, error)
	FindByID(ctx context.Context, id uint) (*models.EvacuationZone, error)
	Add(ctx context.Context, zone *models.EvacuationZone) error
	Update(ctx context.Context, zone *models.EvacuationZone) error
	Remove(ctx context.Context, zone *models.EvacuationZone) error
	RemoveAll(ctx context.Context, zones []models.EvacuationZone) error
}

type VehicleRepository interface {
	All(ctx context.Context) ([]models.Vehicle, error)
	AllActive(ctx context.Context) ([]models.Vehicle, error)
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	Add(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Remove(ctx context.Context, vehicle *models.Vehicle) error
	RemoveAll(ctx context.Context, vehicles []models.Vehicle) error
}

type PlanRepository interface {
	AllActive(ctx context.Context) ([]models.EvacuationPlan, error)
	// FindActiveByZoneAndVehicle returns the most recent active plan for the
	// pair, or nil when no such plan exists.
	FindActiveByZoneAndVehicle(ctx context.Context, zoneID, vehicleID uint) (*models.EvacuationPlan, error)
	Add(ctx context.Context, plan *models.EvacuationPlan) error
	Update(ctx context.Context, plan *models.EvacuationPlan) error
	Remove(ctx context.Context, plan *models.EvacuationPlan) error
	RemoveAll(ctx context.Context, plans []models.EvacuationPlan) error
}

type LogRepository interface {
	AllActive(ctx context.Context) ([]models.EvacuationLog, error)
	Add(ctx context.Context, log *models.EvacuationLog) error
}

// Repositories is the capability surface shared by the root store and an
// open transaction.
type Repositories interface {
	Zones() ZoneRepository
	Vehicles() VehicleRepository
	Plans() PlanRepository
	Logs() LogRepository
}

// Store is the root storage handle. Begin opens a transaction; every
// repository obtained from the returned Tx runs inside it until Commit or
// Rollback.
type Store interface {
	Repositories
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Repositories
	Commit() error
	Rollback() error
}
