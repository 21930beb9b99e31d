package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"evac_dispatch/internal/geo"
	"evac_dispatch/internal/models"
	"evac_dispatch/internal/services"
)

// EvacuationController exposes the dispatch engine over HTTP. The handlers
// are thin: bind, delegate, map errors.
type EvacuationController struct {
	Plans  *services.PlanService
	Status *services.StatusService
}

func NewEvacuationController(plans *services.PlanService, status *services.StatusService) *EvacuationController {
	return &EvacuationController{Plans: plans, Status: status}
}

type planResponse struct {
	PlanID                  uint `json:"plan_id"`
	ZoneID                  uint `json:"zone_id"`
	VehicleID               uint `json:"vehicle_id"`
	EstimatedArrivalMinutes int  `json:"estimated_arrival_minutes"`
	NumberOfPeople          int  `json:"number_of_people"`
}

func toPlanResponses(plans []models.EvacuationPlan) []planResponse {
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResponse{
			PlanID:                  p.ID,
			ZoneID:                  p.ZoneID,
			VehicleID:               p.VehicleID,
			EstimatedArrivalMinutes: p.EstimatedArrivalMinutes,
			NumberOfPeople:          p.NumberOfPeople,
		})
	}
	return out
}

// GeneratePlans handles POST /evacuations/plan
func (ec *EvacuationController) GeneratePlans(c *gin.Context) {
	plans, err := ec.Plans.GeneratePlans(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Warn("GeneratePlans failed")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": toPlanResponses(plans)})
}

// GetStatuses handles GET /evacuations/status
func (ec *EvacuationController) GetStatuses(c *gin.Context) {
	statuses, err := ec.Status.GetStatuses(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("GetStatuses failed")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

// UpdateStatus handles PUT /evacuations/update
func (ec *EvacuationController) UpdateStatus(c *gin.Context) {
	var input struct {
		ZoneID          uint `json:"zone_id" binding:"required"`
		VehicleID       uint `json:"vehicle_id" binding:"required"`
		EvacuatedPeople int  `json:"evacuated_people" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status update: " + err.Error()})
		return
	}

	err := ec.Status.UpdateStatus(c.Request.Context(), services.StatusUpdate{
		ZoneID:          input.ZoneID,
		VehicleID:       input.VehicleID,
		EvacuatedPeople: input.EvacuatedPeople,
	})
	if err != nil {
		logrus.WithError(err).Warn("UpdateStatus failed")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearPlans handles DELETE /evacuations/clear
func (ec *EvacuationController) ClearPlans(c *gin.Context) {
	if err := ec.Plans.ClearPlans(c.Request.Context()); err != nil {
		logrus.WithError(err).Error("ClearPlans failed")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondServiceError maps the engine's error taxonomy onto HTTP statuses:
// unresolved entities are 404, validation failures 400, everything else is
// infrastructure and stays a 500.
func respondServiceError(c *gin.Context, err error) {
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoZones),
		errors.Is(err, services.ErrNoVehicles),
		errors.Is(err, services.ErrNoSuitableVehicle),
		errors.Is(err, geo.ErrInvalidSpeed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
