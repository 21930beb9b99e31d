package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"evac_dispatch/internal/models"
	"evac_dispatch/internal/storage"
)

var errInjected = errors.New("injected storage failure")

type fakeData struct {
	zones    []models.EvacuationZone
	vehicles []models.Vehicle
	plans    []models.EvacuationPlan
	logs     []models.EvacuationLog
}

func (d fakeData) clone() fakeData {
	c := fakeData{
		zones:    make([]models.EvacuationZone, len(d.zones)),
		vehicles: make([]models.Vehicle, len(d.vehicles)),
		plans:    make([]models.EvacuationPlan, len(d.plans)),
		logs:     make([]models.EvacuationLog, len(d.logs)),
	}
	copy(c.zones, d.zones)
	copy(c.vehicles, d.vehicles)
	copy(c.plans, d.plans)
	copy(c.logs, d.logs)
	return c
}

// fakeStore is an in-memory storage.Store with snapshot/restore transaction
// semantics. failOn injects a failure into the named repository operation.
type fakeStore struct {
	data      fakeData
	nextID    uint
	clock     time.Time
	failOn    string
	saved     *fakeData
	begins    int
	commits   int
	rollbacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, clock: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) nextCreated() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return errInjected
	}
	return nil
}

func (f *fakeStore) addZone(z models.EvacuationZone) uint {
	z.ID = f.nextID
	f.nextID++
	z.Active = true
	f.data.zones = append(f.data.zones, z)
	return z.ID
}

func (f *fakeStore) addVehicle(v models.Vehicle) uint {
	v.ID = f.nextID
	f.nextID++
	v.Active = true
	f.data.vehicles = append(f.data.vehicles, v)
	return v.ID
}

func (f *fakeStore) addPlan(p models.EvacuationPlan) uint {
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = f.nextCreated()
	p.Active = true
	f.data.plans = append(f.data.plans, p)
	return p.ID
}

func (f *fakeStore) zone(id uint) *models.EvacuationZone {
	for i := range f.data.zones {
		if f.data.zones[i].ID == id {
			return &f.data.zones[i]
		}
	}
	return nil
}

func (f *fakeStore) vehicle(id uint) *models.Vehicle {
	for i := range f.data.vehicles {
		if f.data.vehicles[i].ID == id {
			return &f.data.vehicles[i]
		}
	}
	return nil
}

func (f *fakeStore) Zones() storage.ZoneRepository       { return &fakeZones{f} }
func (f *fakeStore) Vehicles() storage.VehicleRepository { return &fakeVehicles{f} }
func (f *fakeStore) Plans() storage.PlanRepository       { return &fakePlans{f} }
func (f *fakeStore) Logs() storage.LogRepository         { return &fakeLogs{f} }

func (f *fakeStore) Begin(ctx context.Context) (storage.Tx, error) {
	if err := f.fail("begin"); err != nil {
		return nil, err
	}
	f.begins++
	saved := f.data.clone()
	f.saved = &saved
	return &fakeTx{f}, nil
}

type fakeTx struct{ f *fakeStore }

func (t *fakeTx) Zones() storage.ZoneRepository       { return t.f.Zones() }
func (t *fakeTx) Vehicles() storage.VehicleRepository { return t.f.Vehicles() }
func (t *fakeTx) Plans() storage.PlanRepository       { return t.f.Plans() }
func (t *fakeTx) Logs() storage.LogRepository         { return t.f.Logs() }

func (t *fakeTx) Commit() error {
	if err := t.f.fail("commit"); err != nil {
		return err
	}
	t.f.commits++
	t.f.saved = nil
	return nil
}

func (t *fakeTx) Rollback() error {
	t.f.rollbacks++
	if t.f.saved != nil {
		t.f.data = *t.f.saved
		t.f.saved = nil
	}
	return nil
}

type fakeZones struct{ f *fakeStore }

func (r *fakeZones) All(ctx context.Context) ([]models.EvacuationZone, error) {
	out := make([]models.EvacuationZone, len(r.f.data.zones))
	copy(out, r.f.data.zones)
	return out, nil
}

func (r *fakeZones) AllActive(ctx context.Context) ([]models.EvacuationZone, error) {
	if err := r.f.fail("zone.allActive"); err != nil {
		return nil, err
	}
	var out []models.EvacuationZone
	for _, z := range r.f.data.zones {
		if z.Active {
			out = append(out, z)
		}
	}
	return out, nil
}

func (r *fakeZones) FindByID(ctx context.Context, id uint) (*models.EvacuationZone, error) {
	if err := r.f.fail("zone.findByID"); err != nil {
		return nil, err
	}
	if z := r.f.zone(id); z != nil {
		c := *z
		return &c, nil
	}
	return nil, nil
}

func (r *fakeZones) Add(ctx context.Context, zone *models.EvacuationZone) error {
	zone.ID = r.f.nextID
	r.f.nextID++
	zone.CreatedAt = r.f.nextCreated()
	r.f.data.zones = append(r.f.data.zones, *zone)
	return nil
}

func (r *fakeZones) Update(ctx context.Context, zone *models.EvacuationZone) error {
	if err := r.f.fail("zone.update"); err != nil {
		return err
	}
	if existing := r.f.zone(zone.ID); existing != nil {
		*existing = *zone
		return nil
	}
	return fmt.Errorf("zone %d not in store", zone.ID)
}

func (r *fakeZones) Remove(ctx context.Context, zone *models.EvacuationZone) error {
	if existing := r.f.zone(zone.ID); existing != nil {
		existing.Active = false
		existing.UpdatedAt = r.f.nextCreated()
	}
	return nil
}

func (r *fakeZones) RemoveAll(ctx context.Context, zones []models.EvacuationZone) error {
	if err := r.f.fail("zone.removeAll"); err != nil {
		return err
	}
	for i := range zones {
		if err := r.Remove(ctx, &zones[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeVehicles struct{ f *fakeStore }

func (r *fakeVehicles) All(ctx context.Context) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, len(r.f.data.vehicles))
	copy(out, r.f.data.vehicles)
	return out, nil
}

func (r *fakeVehicles) AllActive(ctx context.Context) ([]models.Vehicle, error) {
	if err := r.f.fail("vehicle.allActive"); err != nil {
		return nil, err
	}
	var out []models.Vehicle
	for _, v := range r.f.data.vehicles {
		if v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVehicles) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	if err := r.f.fail("vehicle.findByID"); err != nil {
		return nil, err
	}
	if v := r.f.vehicle(id); v != nil {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (r *fakeVehicles) Add(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = r.f.nextID
	r.f.nextID++
	r.f.data.vehicles = append(r.f.data.vehicles, *vehicle)
	return nil
}

func (r *fakeVehicles) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if err := r.f.fail("vehicle.update"); err != nil {
		return err
	}
	if existing := r.f.vehicle(vehicle.ID); existing != nil {
		*existing = *vehicle
		return nil
	}
	return fmt.Errorf("vehicle %d not in store", vehicle.ID)
}

func (r *fakeVehicles) Remove(ctx context.Context, vehicle *models.Vehicle) error {
	if existing := r.f.vehicle(vehicle.ID); existing != nil {
		existing.Active = false
		existing.UpdatedAt = r.f.nextCreated()
	}
	return nil
}

func (r *fakeVehicles) RemoveAll(ctx context.Context, vehicles []models.Vehicle) error {
	if err := r.f.fail("vehicle.removeAll"); err != nil {
		return err
	}
	for i := range vehicles {
		if err := r.Remove(ctx, &vehicles[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakePlans struct{ f *fakeStore }

func (r *fakePlans) AllActive(ctx context.Context) ([]models.EvacuationPlan, error) {
	if err := r.f.fail("plan.allActive"); err != nil {
		return nil, err
	}
	var out []models.EvacuationPlan
	for _, p := range r.f.data.plans {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlans) FindActiveByZoneAndVehicle(ctx context.Context, zoneID, vehicleID uint) (*models.EvacuationPlan, error) {
	if err := r.f.fail("plan.findActive"); err != nil {
		return nil, err
	}
	var best *models.EvacuationPlan
	for i := range r.f.data.plans {
		p := &r.f.data.plans[i]
		if !p.Active || p.ZoneID != zoneID || p.VehicleID != vehicleID {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	c := *best
	return &c, nil
}

func (r *fakePlans) Add(ctx context.Context, plan *models.EvacuationPlan) error {
	if err := r.f.fail("plan.add"); err != nil {
		return err
	}
	plan.ID = r.f.nextID
	r.f.nextID++
	plan.CreatedAt = r.f.nextCreated()
	r.f.data.plans = append(r.f.data.plans, *plan)
	return nil
}

func (r *fakePlans) Update(ctx context.Context, plan *models.EvacuationPlan) error {
	for i := range r.f.data.plans {
		if r.f.data.plans[i].ID == plan.ID {
			r.f.data.plans[i] = *plan
			return nil
		}
	}
	return fmt.Errorf("plan %d not in store", plan.ID)
}

func (r *fakePlans) Remove(ctx context.Context, plan *models.EvacuationPlan) error {
	if err := r.f.fail("plan.remove"); err != nil {
		return err
	}
	for i := range r.f.data.plans {
		if r.f.data.plans[i].ID == plan.ID {
			r.f.data.plans[i].Active = false
			r.f.data.plans[i].UpdatedAt = r.f.nextCreated()
			return nil
		}
	}
	return nil
}

func (r *fakePlans) RemoveAll(ctx context.Context, plans []models.EvacuationPlan) error {
	if err := r.f.fail("plan.removeAll"); err != nil {
		return err
	}
	for i := range plans {
		if err := r.Remove(ctx, &plans[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeLogs struct{ f *fakeStore }

func (r *fakeLogs) AllActive(ctx context.Context) ([]models.EvacuationLog, error) {
	var out []models.EvacuationLog
	for _, l := range r.f.data.logs {
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLogs) Add(ctx context.Context, log *models.EvacuationLog) error {
	if err := r.f.fail("log.add"); err != nil {
		return err
	}
	log.ID = r.f.nextID
	r.f.nextID++
	log.CreatedAt = r.f.nextCreated()
	r.f.data.logs = append(r.f.data.logs, *log)
	return nil
}

// fakeCache is an in-memory cache.StatusCache.
type fakeCache struct {
	snaps    map[uint]models.StatusSnapshot
	setCalls int
	clears   int
	failGet  bool
	failSet  bool
	failKeys bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{snaps: make(map[uint]models.StatusSnapshot)}
}

func (c *fakeCache) Get(ctx context.Context, zoneID uint) (*models.StatusSnapshot, error) {
	if c.failGet {
		return nil, errInjected
	}
	snap, ok := c.snaps[zoneID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (c *fakeCache) Set(ctx context.Context, snap models.StatusSnapshot, ttl time.Duration) error {
	if c.failSet {
		return errInjected
	}
	c.setCalls++
	c.snaps[snap.ZoneID] = snap
	return nil
}

func (c *fakeCache) ZoneKeys(ctx context.Context) ([]uint, error) {
	if c.failKeys {
		return nil, errInjected
	}
	ids := make([]uint, 0, len(c.snaps))
	for id := range c.snaps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (c *fakeCache) ClearAll(ctx context.Context) error {
	c.clears++
	c.snaps = make(map[uint]models.StatusSnapshot)
	return nil
}
