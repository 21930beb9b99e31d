package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"evac_dispatch/internal/cache"
	"evac_dispatch/internal/geo"
	"evac_dispatch/internal/models"
	"evac_dispatch/internal/storage"
)

// PlanService runs the dispatch rounds that match available vehicles to
// zones and persists the resulting plans transactionally.
type PlanService struct {
	store storage.Store
	cache cache.StatusCache
}

func NewPlanService(store storage.Store, statusCache cache.StatusCache) *PlanService {
	return &PlanService{store: store, cache: statusCache}
}

// GeneratePlans assigns available vehicles to zones in descending urgency
// order until either every zone is covered or no eligible vehicle remains.
// Either the full plan set commits or none of it does.
func (s *PlanService) GeneratePlans(ctx context.Context) ([]models.EvacuationPlan, error) {
	zones, err := s.store.Zones().AllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate plans: load zones: %w", err)
	}
	vehicles, err := s.store.Vehicles().AllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate plans: load vehicles: %w", err)
	}
	activePlans, err := s.store.Plans().AllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate plans: load active plans: %w", err)
	}

	if len(zones) == 0 {
		return nil, ErrNoZones
	}
	if len(vehicles) == 0 {
		return nil, ErrNoVehicles
	}

	// Working snapshots: people already covered by in-flight plans from a
	// prior round must not be assigned again.
	snapshots := make([]models.EvacuationZone, len(zones))
	copy(snapshots, zones)
	for i := range snapshots {
		inFlight := 0
		for _, p := range activePlans {
			if p.ZoneID == snapshots[i].ID {
				inFlight += p.NumberOfPeople
			}
		}
		snapshots[i].RemainingPeople -= inFlight
		if snapshots[i].RemainingPeople < 0 {
			snapshots[i].RemainingPeople = 0
		}
	}

	// Most urgent first; zones of equal urgency keep their input order.
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].UrgencyLevel > snapshots[j].UrgencyLevel
	})

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate plans: begin transaction: %w", err)
	}

	plans, err := s.assign(ctx, tx, snapshots, vehicles)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("GeneratePlans: rollback failed")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("generate plans: commit: %w", err)
	}

	if len(plans) == 0 {
		return nil, ErrNoSuitableVehicle
	}

	logrus.WithField("plans", len(plans)).Info("evacuation plans generated")
	return plans, nil
}

// assign is the multi-round matching loop. Each round walks the zones in
// urgency order; when the selector finds no vehicle for a zone the round
// stops scanning entirely, and a round that assigns nothing ends the loop.
func (s *PlanService) assign(
	ctx context.Context,
	tx storage.Tx,
	zones []models.EvacuationZone,
	vehicles []models.Vehicle,
) ([]models.EvacuationPlan, error) {
	plans := []models.EvacuationPlan{}

	for anyRemaining(zones) && anyAvailable(vehicles) {
		assigned := false

		for i := range zones {
			zone := &zones[i]
			if zone.RemainingPeople <= 0 {
				continue
			}

			pool := availablePool(vehicles)
			best, err := SelectVehicle(pool, zone)
			if err != nil {
				return nil, err
			}
			if best == nil {
				break
			}
			assigned = true

			best.IsAvailable = false
			if err := tx.Vehicles().Update(ctx, best); err != nil {
				return nil, fmt.Errorf("generate plans: update vehicle %d: %w", best.ID, err)
			}

			evacuated := zone.RemainingPeople
			if best.Capacity < evacuated {
				evacuated = best.Capacity
			}
			zone.RemainingPeople -= evacuated

			dist := geo.DistanceKm(zone.Latitude, zone.Longitude, best.Latitude, best.Longitude)
			eta, err := geo.ETAMinutes(dist, best.Speed)
			if err != nil {
				return nil, err
			}

			plan := models.EvacuationPlan{
				ZoneID:                  zone.ID,
				VehicleID:               best.ID,
				EstimatedArrivalMinutes: int(math.Round(eta)),
				NumberOfPeople:          evacuated,
				Active:                  true,
			}
			if err := tx.Plans().Add(ctx, &plan); err != nil {
				return nil, fmt.Errorf("generate plans: persist plan for zone %d: %w", zone.ID, err)
			}
			plans = append(plans, plan)

			if err := s.seedStatus(ctx, zone); err != nil {
				return nil, fmt.Errorf("generate plans: seed status for zone %d: %w", zone.ID, err)
			}
		}

		if !assigned {
			break
		}
	}

	return plans, nil
}

// seedStatus creates the zone's zero-progress snapshot on first need.
// Existing snapshots are left alone; only status updates overwrite them.
func (s *PlanService) seedStatus(ctx context.Context, zone *models.EvacuationZone) error {
	existing, err := s.cache.Get(ctx, zone.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return s.cache.Set(ctx, models.StatusSnapshot{
		ZoneID:          zone.ID,
		TotalEvacuated:  0,
		RemainingPeople: zone.NumberOfPeople,
	}, 0)
}

// ClearPlans soft-deletes every active zone, vehicle and plan and drops the
// whole status projection. Used to reset a scenario; safe to call twice.
func (s *PlanService) ClearPlans(ctx context.Context) error {
	zones, err := s.store.Zones().AllActive(ctx)
	if err != nil {
		return fmt.Errorf("clear plans: load zones: %w", err)
	}
	vehicles, err := s.store.Vehicles().AllActive(ctx)
	if err != nil {
		return fmt.Errorf("clear plans: load vehicles: %w", err)
	}
	plans, err := s.store.Plans().AllActive(ctx)
	if err != nil {
		return fmt.Errorf("clear plans: load plans: %w", err)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("clear plans: begin transaction: %w", err)
	}

	err = func() error {
		if err := tx.Zones().RemoveAll(ctx, zones); err != nil {
			return fmt.Errorf("clear plans: remove zones: %w", err)
		}
		if err := tx.Vehicles().RemoveAll(ctx, vehicles); err != nil {
			return fmt.Errorf("clear plans: remove vehicles: %w", err)
		}
		if err := tx.Plans().RemoveAll(ctx, plans); err != nil {
			return fmt.Errorf("clear plans: remove plans: %w", err)
		}
		return nil
	}()
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("ClearPlans: rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clear plans: commit: %w", err)
	}

	if err := s.cache.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear plans: clear status cache: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"zones":    len(zones),
		"vehicles": len(vehicles),
		"plans":    len(plans),
	}).Info("scenario cleared")
	return nil
}

func anyRemaining(zones []models.EvacuationZone) bool {
	for i := range zones {
		if zones[i].RemainingPeople > 0 {
			return true
		}
	}
	return false
}

func anyAvailable(vehicles []models.Vehicle) bool {
	for i := range vehicles {
		if vehicles[i].IsAvailable {
			return true
		}
	}
	return false
}

func availablePool(vehicles []models.Vehicle) []*models.Vehicle {
	pool := make([]*models.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		if vehicles[i].IsAvailable {
			pool = append(pool, &vehicles[i])
		}
	}
	return pool
}
