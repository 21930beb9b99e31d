package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"evac_dispatch/internal/cache"
	"evac_dispatch/internal/models"
	"evac_dispatch/internal/storage"
)

// StatusService reconciles completed evacuation legs back into zone and
// vehicle state and maintains the cached status projection.
type StatusService struct {
	store storage.Store
	cache cache.StatusCache
}

func NewStatusService(store storage.Store, statusCache cache.StatusCache) *StatusService {
	return &StatusService{store: store, cache: statusCache}
}

// StatusUpdate reports one completed leg: the vehicle returned from the
// zone having moved EvacuatedPeople.
type StatusUpdate struct {
	ZoneID          uint
	VehicleID       uint
	EvacuatedPeople int
}

// UpdateStatus applies a completed leg. Entity resolution happens before
// the transaction, checked zone first, then vehicle, then plan. Inside the
// transaction the zone totals move by min(remaining, reported), the vehicle
// becomes available again, the finished plan closes, one log row is
// appended and the cached snapshot is overwritten.
func (s *StatusService) UpdateStatus(ctx context.Context, req StatusUpdate) error {
	zone, err := s.store.Zones().FindByID(ctx, req.ZoneID)
	if err != nil {
		return fmt.Errorf("update status: find zone %d: %w", req.ZoneID, err)
	}
	if zone == nil {
		return newZoneNotFound(req.ZoneID)
	}

	vehicle, err := s.store.Vehicles().FindByID(ctx, req.VehicleID)
	if err != nil {
		return fmt.Errorf("update status: find vehicle %d: %w", req.VehicleID, err)
	}
	if vehicle == nil {
		return newVehicleNotFound(req.VehicleID)
	}

	plan, err := s.store.Plans().FindActiveByZoneAndVehicle(ctx, req.ZoneID, req.VehicleID)
	if err != nil {
		return fmt.Errorf("update status: find plan for zone %d vehicle %d: %w", req.ZoneID, req.VehicleID, err)
	}
	if plan == nil {
		return newPlanNotFound(req.ZoneID, req.VehicleID)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update status: begin transaction: %w", err)
	}

	err = func() error {
		evacuated := req.EvacuatedPeople
		if evacuated > zone.RemainingPeople {
			evacuated = zone.RemainingPeople
		}
		if evacuated < 0 {
			evacuated = 0
		}

		zone.TotalEvacuated += evacuated
		zone.RemainingPeople -= evacuated
		zone.LastVehicleUsedID = &vehicle.ID
		if err := tx.Zones().Update(ctx, zone); err != nil {
			return fmt.Errorf("update status: update zone %d: %w", zone.ID, err)
		}

		vehicle.IsAvailable = true
		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return fmt.Errorf("update status: update vehicle %d: %w", vehicle.ID, err)
		}

		// The leg is finished: close the plan so the vehicle/plan invariant
		// holds and the next generation round ignores it.
		if err := tx.Plans().Remove(ctx, plan); err != nil {
			return fmt.Errorf("update status: close plan %d: %w", plan.ID, err)
		}

		now := time.Now().UTC()
		logEntry := models.EvacuationLog{
			ZoneID:                  zone.ID,
			VehicleID:               vehicle.ID,
			EstimatedArrivalMinutes: plan.EstimatedArrivalMinutes,
			NumberOfPeople:          plan.NumberOfPeople,
			EvacuatedPeople:         evacuated,
			IsCompleted:             true,
			CompletedAt:             &now,
			Active:                  true,
		}
		if err := tx.Logs().Add(ctx, &logEntry); err != nil {
			return fmt.Errorf("update status: append log: %w", err)
		}

		snap := models.StatusSnapshot{
			ZoneID:            zone.ID,
			TotalEvacuated:    zone.TotalEvacuated,
			RemainingPeople:   zone.RemainingPeople,
			LastVehicleUsedID: zone.LastVehicleUsedID,
		}
		if err := s.cache.Set(ctx, snap, 0); err != nil {
			return fmt.Errorf("update status: write snapshot for zone %d: %w", zone.ID, err)
		}
		return nil
	}()
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("UpdateStatus: rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update status: commit: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"zone":      zone.ID,
		"vehicle":   vehicle.ID,
		"evacuated": req.EvacuatedPeople,
	}).Info("evacuation status updated")
	return nil
}

// GetStatuses returns every cached zone snapshot. When the cache index is
// empty it bootstraps a zero-progress snapshot per active zone. That path
// can go stale if zones changed since the cache was last populated; the
// relational state stays authoritative.
func (s *StatusService) GetStatuses(ctx context.Context) ([]models.StatusSnapshot, error) {
	ids, err := s.cache.ZoneKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("get statuses: list cache keys: %w", err)
	}

	if len(ids) == 0 {
		zones, err := s.store.Zones().AllActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("get statuses: load zones: %w", err)
		}

		statuses := make([]models.StatusSnapshot, 0, len(zones))
		for i := range zones {
			snap := models.StatusSnapshot{
				ZoneID:          zones[i].ID,
				TotalEvacuated:  0,
				RemainingPeople: zones[i].NumberOfPeople,
			}
			if err := s.cache.Set(ctx, snap, 0); err != nil {
				return nil, fmt.Errorf("get statuses: seed zone %d: %w", zones[i].ID, err)
			}
			statuses = append(statuses, snap)
		}
		return statuses, nil
	}

	statuses := make([]models.StatusSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.cache.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get statuses: read zone %d: %w", id, err)
		}
		if snap == nil {
			// Indexed but expired; skip.
			continue
		}
		statuses = append(statuses, *snap)
	}
	return statuses, nil
}
