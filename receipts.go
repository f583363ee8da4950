package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fuelcheck/models"
	"fuelcheck/pkg/receipt"
)

const maxReceiptSize = 5 * 1024 * 1024

// uploadReceiptHandler stores a pump-receipt image for the caller and runs
// OCR inline to extract the purchase total. OCR failure is recorded on the
// row, not returned as an error, so the watcher can retry later.
func (s *Server) uploadReceiptHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxReceiptSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	var txID *string
	if v := c.PostForm("transaction_id"); v != "" {
		tx, found := s.transactionForUser(v, user.ID)
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction not found"})
			return
		}
		txID = &tx.ID
	}
	dir := filepath.Join(s.cfg.ReceiptBase, user.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	rec := models.Receipt{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		TransactionID: txID,
		FileName:      file.Filename,
		StorePath:     fullPath,
		ContentType:   file.Header.Get("Content-Type"),
	}
	if amount, _, _, err := receipt.ExtractTotal(fullPath); err != nil {
		rec.Failed = true
		rec.FailedReason = err.Error()
		s.log.Warn("receipt ocr failed", "file", file.Filename, "err", err)
	} else {
		rec.Amount = amount
	}
	if err := s.db.Create(&rec).Error; err != nil {
		s.log.Error("create receipt failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) transactionForUser(id, ownerID string) (*models.Transaction, bool) {
	var tx models.Transaction
	err := s.db.Where("id = ? AND vehicle_id IN (?)", id, s.ownedVehicleIDs(ownerID)).First(&tx).Error
	if err != nil {
		return nil, false
	}
	return &tx, true
}

func (s *Server) listReceiptsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Receipt
	if err := s.db.Where("user_id = ?", user.ID).Order("created_at desc").Limit(100).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getReceiptHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var rec models.Receipt
	err := s.db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
