package models

// StatusSnapshot is the cache-resident projection of a zone's evacuation
// progress. It is never persisted relationally; the cache collaborator owns
// it and the services are its sole writer.
type StatusSnapshot struct {
	ZoneID            uint  `json:"zone_id"`
	TotalEvacuated    int   `json:"total_evacuated"`
	RemainingPeople   int   `json:"remaining_people"`
	LastVehicleUsedID *uint `json:"last_vehicle_used_id,omitempty"`
}
