package services

import (
	"math"
	"sort"

	"evac_dispatch/internal/geo"
	"evac_dispatch/internal/models"
)

// maxETAMinutes is the hard cutoff: a vehicle further than an hour away is
// never dispatched to a zone.
const maxETAMinutes = 60

// oversizeTolerance caps how oversized a vehicle may be relative to the
// zone's remaining population (20%).
const oversizeTolerance = 0.2

type candidate struct {
	vehicle      *models.Vehicle
	distanceKm   float64
	etaMinutes   float64
	capacityDiff int
}

// SelectVehicle picks the best available vehicle for a zone. Eligible
// vehicles reach the zone within 60 minutes and are either undersized
// (or an exact fit) or oversized by at most 20% of the remaining people.
// Ties break on distance, then ETA, then |capacity - remaining|, all
// ascending. Returns nil when no vehicle qualifies.
//
// The zone's current RemainingPeople drives the capacity comparison, not
// its original population.
func SelectVehicle(available []*models.Vehicle, zone *models.EvacuationZone) (*models.Vehicle, error) {
	candidates := make([]candidate, 0, len(available))
	for _, v := range available {
		dist := geo.DistanceKm(zone.Latitude, zone.Longitude, v.Latitude, v.Longitude)
		eta, err := geo.ETAMinutes(dist, v.Speed)
		if err != nil {
			return nil, err
		}

		diff := v.Capacity - zone.RemainingPeople
		if eta > maxETAMinutes {
			continue
		}
		if diff > 0 && float64(diff) > float64(zone.RemainingPeople)*oversizeTolerance {
			continue
		}

		candidates = append(candidates, candidate{
			vehicle:      v,
			distanceKm:   dist,
			etaMinutes:   eta,
			capacityDiff: diff,
		})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distanceKm != b.distanceKm {
			return a.distanceKm < b.distanceKm
		}
		if a.etaMinutes != b.etaMinutes {
			return a.etaMinutes < b.etaMinutes
		}
		return math.Abs(float64(a.capacityDiff)) < math.Abs(float64(b.capacityDiff))
	})

	return candidates[0].vehicle, nil
}
