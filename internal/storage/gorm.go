package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"evac_dispatch/internal/models"
)

// gormStore implements Repositories over a *gorm.DB handle. The same type
// backs both the root store and open transactions; only the handle differs.
type gormStore struct {
	h *gorm.DB
}

type gormTx struct {
	gormStore
}

// NewGormStore wraps an initialized GORM connection.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{h: db}
}

func (s *gormStore) Begin(ctx context.Context) (Tx, error) {
	tx := s.h.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{gormStore{h: tx}}, nil
}

func (t *gormTx) Commit() error   { return t.h.Commit().Error }
func (t *gormTx) Rollback() error { return t.h.Rollback().Error }

func (s *gormStore) Zones() ZoneRepository       { return &zoneRepo{s.h} }
func (s *gormStore) Vehicles() VehicleRepository { return &vehicleRepo{s.h} }
func (s *gormStore) Plans() PlanRepository       { return &planRepo{s.h} }
func (s *gormStore) Logs() LogRepository         { return &logRepo{s.h} }

// Generic helpers shared by the per-entity repositories.

func all[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var out []T
	if err := db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func allActive[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var out []T
	if err := db.WithContext(ctx).Where("active = ?", true).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func findByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var e T
	err := db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func add[T any](ctx context.Context, db *gorm.DB, e *T) error {
	return db.WithContext(ctx).Create(e).Error
}

func update[T any](ctx context.Context, db *gorm.DB, e *T) error {
	return db.WithContext(ctx).Save(e).Error
}

// remove soft-deletes: clears Active and lets GORM bump updated_at.
func remove[T any](ctx context.Context, db *gorm.DB, e *T) error {
	return db.WithContext(ctx).Model(e).Update("active", false).Error
}

type zoneRepo struct{ h *gorm.DB }

func (r *zoneRepo) All(ctx context.Context) ([]models.EvacuationZone, error) {
	return all[models.EvacuationZone](ctx, r.h)
}

func (r *zoneRepo) AllActive(ctx context.Context) ([]models.EvacuationZone, error) {
	return allActive[models.EvacuationZone](ctx, r.h)
}

func (r *zoneRepo) FindByID(ctx context.Context, id uint) (*models.EvacuationZone, error) {
	return findByID[models.EvacuationZone](ctx, r.h, id)
}

func (r *zoneRepo) Add(ctx context.Context, zone *models.EvacuationZone) error {
	return add(ctx, r.h, zone)
}

func (r *zoneRepo) Update(ctx context.Context, zone *models.EvacuationZone) error {
	return update(ctx, r.h, zone)
}

func (r *zoneRepo) Remove(ctx context.Context, zone *models.EvacuationZone) error {
	return remove(ctx, r.h, zone)
}

func (r *zoneRepo) RemoveAll(ctx context.Context, zones []models.EvacuationZone) error {
	for i := range zones {
		if err := remove(ctx, r.h, &zones[i]); err != nil {
			return err
		}
	}
	return nil
}

type vehicleRepo struct{ h *gorm.DB }

func (r *vehicleRepo) All(ctx context.Context) ([]models.Vehicle, error) {
	return all[models.Vehicle](ctx, r.h)
}

func (r *vehicleRepo) AllActive(ctx context.Context) ([]models.Vehicle, error) {
	return allActive[models.Vehicle](ctx, r.h)
}

func (r *vehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	return findByID[models.Vehicle](ctx, r.h, id)
}

func (r *vehicleRepo) Add(ctx context.Context, vehicle *models.Vehicle) error {
	return add(ctx, r.h, vehicle)
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return update(ctx, r.h, vehicle)
}

func (r *vehicleRepo) Remove(ctx context.Context, vehicle *models.Vehicle) error {
	return remove(ctx, r.h, vehicle)
}

func (r *vehicleRepo) RemoveAll(ctx context.Context, vehicles []models.Vehicle) error {
	for i := range vehicles {
		if err := remove(ctx, r.h, &vehicles[i]); err != nil {
			return err
		}
	}
	return nil
}

type planRepo struct{ h *gorm.DB }

func (r *planRepo) AllActive(ctx context.Context) ([]models.EvacuationPlan, error) {
	return allActive[models.EvacuationPlan](ctx, r.h)
}

func (r *planRepo) FindActiveByZoneAndVehicle(ctx context.Context, zoneID, vehicleID uint) (*models.EvacuationPlan, error) {
	var plan models.EvacuationPlan
	err := r.h.WithContext(ctx).
		Where("zone_id = ? AND vehicle_id = ? AND active = ?", zoneID, vehicleID, true).
		Order("created_at DESC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) Add(ctx context.Context, plan *models.EvacuationPlan) error {
	return add(ctx, r.h, plan)
}

func (r *planRepo) Update(ctx context.Context, plan *models.EvacuationPlan) error {
	return update(ctx, r.h, plan)
}

func (r *planRepo) Remove(ctx context.Context, plan *models.EvacuationPlan) error {
	return remove(ctx, r.h, plan)
}

func (r *planRepo) RemoveAll(ctx context.Context, plans []models.EvacuationPlan) error {
	for i := range plans {
		if err := remove(ctx, r.h, &plans[i]); err != nil {
			return err
		}
	}
	return nil
}

type logRepo struct{ h *gorm.DB }

func (r *logRepo) AllActive(ctx context.Context) ([]models.EvacuationLog, error) {
	return allActive[models.EvacuationLog](ctx, r.h)
}

func (r *logRepo) Add(ctx context.Context, log *models.EvacuationLog) error {
	return add(ctx, r.h, log)
}
