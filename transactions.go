package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fuelcheck/models"
)

func (s *Server) createTransactionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		VehicleID       string `json:"vehicle_id" binding:"required"`
		Amount          int64  `json:"amount" binding:"required,min=0,max=1000000"`
		FuelQuantity    int    `json:"fuel_quantity" binding:"required,min=0,max=1000000"`
		Location        string `json:"location" binding:"required,min=3,max=50"`
		TankFullyFilled *bool  `json:"tank_fully_filled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// the vehicle must belong to the caller
	var v models.Vehicle
	if err := s.db.Where("id = ? AND owner_id = ?", req.VehicleID, user.ID).First(&v).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle not found"})
		return
	}
	tx := models.Transaction{
		ID:              uuid.NewString(),
		VehicleID:       v.ID,
		Amount:          req.Amount,
		FuelQuantity:    req.FuelQuantity,
		Location:        req.Location,
		TankFullyFilled: *req.TankFullyFilled,
	}
	if err := s.db.Create(&tx).Error; err != nil {
		s.log.Error("create transaction failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// ownedVehicleIDs is the subquery scoping transactions to the caller.
func (s *Server) ownedVehicleIDs(ownerID string) *gorm.DB {
	return s.db.Model(&models.Vehicle{}).Select("id").Where("owner_id = ?", ownerID)
}

func (s *Server) listTransactionsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := s.db.Where("vehicle_id IN (?)", s.ownedVehicleIDs(user.ID))
	if vid := c.Query("vehicle_id"); vid != "" {
		q = q.Where("vehicle_id = ?", vid)
	}
	var items []models.Transaction
	if err := q.Order("created_at desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) ownedTransaction(c *gin.Context, ownerID string) (*models.Transaction, bool) {
	var tx models.Transaction
	err := s.db.Where("id = ? AND vehicle_id IN (?)", c.Param("id"), s.ownedVehicleIDs(ownerID)).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &tx, true
}

func (s *Server) getTransactionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tx, ok := s.ownedTransaction(c, user.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (s *Server) updateTransactionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tx, ok := s.ownedTransaction(c, user.ID)
	if !ok {
		return
	}
	var req struct {
		Amount          *int64  `json:"amount" binding:"omitempty,min=0,max=1000000"`
		FuelQuantity    *int    `json:"fuel_quantity" binding:"omitempty,min=0,max=1000000"`
		Location        *string `json:"location" binding:"omitempty,min=3,max=50"`
		TankFullyFilled *bool   `json:"tank_fully_filled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]any{}
	if req.Amount != nil {
		patch["amount"] = *req.Amount
	}
	if req.FuelQuantity != nil {
		patch["fuel_quantity"] = *req.FuelQuantity
	}
	if req.Location != nil {
		patch["location"] = *req.Location
	}
	if req.TankFullyFilled != nil {
		patch["tank_fully_filled"] = *req.TankFullyFilled
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}
	if err := s.db.Model(tx).Updates(patch).Error; err != nil {
		s.log.Error("update transaction failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Updated"})
}

func (s *Server) deleteTransactionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tx, ok := s.ownedTransaction(c, user.ID)
	if !ok {
		return
	}
	if err := s.db.Delete(tx).Error; err != nil {
		s.log.Error("delete transaction failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Deleted"})
}
