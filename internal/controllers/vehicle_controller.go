package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"evac_dispatch/internal/config"
	"evac_dispatch/internal/models"
)

type vehicleInput struct {
	Callsign  string  `json:"callsign" binding:"required"`
	Capacity  int     `json:"capacity" binding:"required,gt=0"`
	Type      string  `json:"type" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Speed     float64 `json:"speed" binding:"required,gt=0"`
}

// CreateVehicle registers a new rescue vehicle; defaults IsAvailable to true
func CreateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	vehicle := models.Vehicle{
		Callsign:    input.Callsign,
		Capacity:    input.Capacity,
		Type:        input.Type,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Speed:       input.Speed,
		IsAvailable: true,
		Active:      true,
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "callsign already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

func ListVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vehicles: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

func ListAvailableVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Where("active = ? AND is_available = ?", true, true).Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vehicles: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

func GetVehicle(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func UpdateVehicle(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	vehicle.Callsign = input.Callsign
	vehicle.Capacity = input.Capacity
	vehicle.Type = input.Type
	vehicle.Latitude = input.Latitude
	vehicle.Longitude = input.Longitude
	vehicle.Speed = input.Speed

	if err := config.DB.Save(&vehicle).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "callsign already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// DeleteVehicle is a soft delete, mirroring DeleteZone.
func DeleteVehicle(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	vehicle.Active = false
	if err := config.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}
