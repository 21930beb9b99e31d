package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"evac_dispatch/internal/config"
	"evac_dispatch/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ZoneResponse mirrors models.EvacuationZone but carries the boundary as a
// GeoJSON string for API output.
type ZoneResponse struct {
	ID                uint    `json:"id"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	NumberOfPeople    int     `json:"number_of_people"`
	UrgencyLevel      int     `json:"urgency_level"`
	TotalEvacuated    int     `json:"total_evacuated"`
	RemainingPeople   int     `json:"remaining_people"`
	LastVehicleUsedID *uint   `json:"last_vehicle_used_id,omitempty"`
	Boundary          string  `json:"boundary,omitempty"`
	Active            bool    `json:"active"`
}

func toZoneResponse(zone models.EvacuationZone) ZoneResponse {
	boundary, _ := convertWKBToGeoJSON(zone.Boundary)
	return ZoneResponse{
		ID:                zone.ID,
		Latitude:          zone.Latitude,
		Longitude:         zone.Longitude,
		NumberOfPeople:    zone.NumberOfPeople,
		UrgencyLevel:      zone.UrgencyLevel,
		TotalEvacuated:    zone.TotalEvacuated,
		RemainingPeople:   zone.RemainingPeople,
		LastVehicleUsedID: zone.LastVehicleUsedID,
		Boundary:          boundary,
		Active:            zone.Active,
	}
}

// parseAndConvertBoundary parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertBoundary(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type zoneInput struct {
	Latitude       float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude      float64 `json:"longitude" binding:"min=-180,max=180"`
	NumberOfPeople int     `json:"number_of_people" binding:"required,gt=0"`
	UrgencyLevel   int     `json:"urgency_level" binding:"required,min=1,max=5"`
	Boundary       string  `json:"boundary"` // optional GeoJSON polygon
}

// CreateZone registers a new evacuation zone. RemainingPeople starts at the
// full population.
func CreateZone(c *gin.Context) {
	var input zoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone input: " + err.Error()})
		return
	}

	boundary, err := parseAndConvertBoundary(input.Boundary)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid boundary: " + err.Error()})
		return
	}

	zone := models.EvacuationZone{
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		NumberOfPeople:  input.NumberOfPeople,
		UrgencyLevel:    input.UrgencyLevel,
		RemainingPeople: input.NumberOfPeople,
		Boundary:        boundary,
		Active:          true,
	}
	if err := config.DB.Create(&zone).Error; err != nil {
		logrus.WithError(err).Error("CreateZone: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create zone: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"zone": toZoneResponse(zone)})
}

func ListZones(c *gin.Context) {
	var zones []models.EvacuationZone
	if err := config.DB.Find(&zones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing zones: " + err.Error()})
		return
	}

	out := make([]ZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, toZoneResponse(z))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func ListActiveZones(c *gin.Context) {
	var zones []models.EvacuationZone
	if err := config.DB.Where("active = ?", true).Find(&zones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing zones: " + err.Error()})
		return
	}

	out := make([]ZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, toZoneResponse(z))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func GetZone(c *gin.Context) {
	id := c.Param("id")

	var zone models.EvacuationZone
	if err := config.DB.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching zone: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zone": toZoneResponse(zone)})
}

func UpdateZone(c *gin.Context) {
	id := c.Param("id")

	var zone models.EvacuationZone
	if err := config.DB.First(&zone, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
		return
	}

	var input zoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone input: " + err.Error()})
		return
	}

	boundary, err := parseAndConvertBoundary(input.Boundary)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid boundary: " + err.Error()})
		return
	}

	zone.Latitude = input.Latitude
	zone.Longitude = input.Longitude
	zone.NumberOfPeople = input.NumberOfPeople
	zone.UrgencyLevel = input.UrgencyLevel
	if boundary != nil {
		zone.Boundary = boundary
	}

	if err := config.DB.Save(&zone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update zone: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zone": toZoneResponse(zone)})
}

// DeleteZone is a soft delete: the zone drops out of dispatch but its rows
// and history remain.
func DeleteZone(c *gin.Context) {
	id := c.Param("id")

	var zone models.EvacuationZone
	if err := config.DB.First(&zone, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
		return
	}

	zone.Active = false
	if err := config.DB.Save(&zone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete zone: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Zone deleted"})
}
