package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fuelcheck/models"
)

func (s *Server) createVehicleHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name               string `json:"name" binding:"required,min=3,max=50"`
		Model              string `json:"model" binding:"required,min=3,max=50"`
		Color              string `json:"color" binding:"required,min=3,max=50"`
		Company            string `json:"company" binding:"required,min=3,max=50"`
		RegistrationNumber string `json:"registration_number" binding:"required,min=3,max=50"`
		CurrentMileage     int    `json:"current_mileage" binding:"min=0,max=1000000"`
		TotalKmsDriven     int    `json:"total_kms_driven" binding:"min=0,max=1000000"`
		FuelType           string `json:"fuel_type"`
		LastServiceDate    string `json:"last_service_date"`
		AverageMileage     *int   `json:"average_mileage"`
		ChasisNumber       string `json:"chasis_number"`
		FuelTankCapacity   *int   `json:"fuel_tank_capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v := models.Vehicle{
		ID:                 uuid.NewString(),
		OwnerID:            user.ID,
		Name:               req.Name,
		Model:              req.Model,
		Color:              req.Color,
		Company:            req.Company,
		RegistrationNumber: normalizeRegistrationNumber(req.RegistrationNumber),
		CurrentMileage:     req.CurrentMileage,
		TotalKmsDriven:     req.TotalKmsDriven,
		FuelType:           req.FuelType,
		LastServiceDate:    req.LastServiceDate,
		AverageMileage:     req.AverageMileage,
		ChasisNumber:       req.ChasisNumber,
		FuelTankCapacity:   req.FuelTankCapacity,
	}
	if err := s.db.Create(&v).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "vehicle already registered"})
			return
		}
		s.log.Error("create vehicle failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (s *Server) listVehiclesHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Vehicle
	if err := s.db.Where("owner_id = ?", user.ID).Order("created_at desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// ownedVehicle fetches a vehicle scoped to the authenticated owner.
func (s *Server) ownedVehicle(c *gin.Context, ownerID string) (*models.Vehicle, bool) {
	var v models.Vehicle
	err := s.db.Where("id = ? AND owner_id = ?", c.Param("id"), ownerID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &v, true
}

func (s *Server) getVehicleHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	v, ok := s.ownedVehicle(c, user.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) updateVehicleHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	v, ok := s.ownedVehicle(c, user.ID)
	if !ok {
		return
	}
	var req struct {
		Name               *string `json:"name" binding:"omitempty,min=3,max=50"`
		Model              *string `json:"model" binding:"omitempty,min=3,max=50"`
		Color              *string `json:"color" binding:"omitempty,min=3,max=50"`
		Company            *string `json:"company" binding:"omitempty,min=3,max=50"`
		RegistrationNumber *string `json:"registration_number" binding:"omitempty,min=3,max=50"`
		CurrentMileage     *int    `json:"current_mileage" binding:"omitempty,min=0,max=1000000"`
		TotalKmsDriven     *int    `json:"total_kms_driven" binding:"omitempty,min=0,max=1000000"`
		FuelType           *string `json:"fuel_type"`
		LastServiceDate    *string `json:"last_service_date"`
		AverageMileage     *int    `json:"average_mileage"`
		ChasisNumber       *string `json:"chasis_number"`
		FuelTankCapacity   *int    `json:"fuel_tank_capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Model != nil {
		patch["model"] = *req.Model
	}
	if req.Color != nil {
		patch["color"] = *req.Color
	}
	if req.Company != nil {
		patch["company"] = *req.Company
	}
	if req.RegistrationNumber != nil {
		patch["registration_number"] = normalizeRegistrationNumber(*req.RegistrationNumber)
	}
	if req.CurrentMileage != nil {
		patch["current_mileage"] = *req.CurrentMileage
	}
	if req.TotalKmsDriven != nil {
		patch["total_kms_driven"] = *req.TotalKmsDriven
	}
	if req.FuelType != nil {
		patch["fuel_type"] = *req.FuelType
	}
	if req.LastServiceDate != nil {
		patch["last_service_date"] = *req.LastServiceDate
	}
	if req.AverageMileage != nil {
		patch["average_mileage"] = *req.AverageMileage
	}
	if req.ChasisNumber != nil {
		patch["chasis_number"] = *req.ChasisNumber
	}
	if req.FuelTankCapacity != nil {
		patch["fuel_tank_capacity"] = *req.FuelTankCapacity
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}
	if err := s.db.Model(v).Updates(patch).Error; err != nil {
		s.log.Error("update vehicle failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Updated"})
}

func (s *Server) deleteVehicleHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	v, ok := s.ownedVehicle(c, user.ID)
	if !ok {
		return
	}
	if err := s.db.Delete(v).Error; err != nil {
		s.log.Error("delete vehicle failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Deleted"})
}
