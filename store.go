package main

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"fuelcheck/models"
)

// UserStore is the credential-store boundary the auth service depends on.
// Lookups return (nil, nil) when no record matches.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	// GetOrCreate returns the existing user for email or persists defaults.
	// Concurrent calls for the same email must yield exactly one creation.
	GetOrCreate(email string, defaults *models.User) (*models.User, bool, error)
	Update(id string, patch map[string]any) (bool, error)
	Delete(id string) (bool, error)
}

type gormUserStore struct {
	db *gorm.DB
}

// NewUserStore wraps a gorm handle in the UserStore contract.
func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) FindByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) FindByID(id string) (*models.User, error) {
	var u models.User
	err := s.db.Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) GetOrCreate(email string, defaults *models.User) (*models.User, bool, error) {
	var u models.User
	res := s.db.Where("email = ?", email).Attrs(*defaults).FirstOrCreate(&u)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			// lost the insert race; the winner's record is the result
			existing, err := s.FindByEmail(email)
			if err == nil && existing != nil {
				return existing, false, nil
			}
			return nil, false, res.Error
		}
		return nil, false, res.Error
	}
	return &u, res.RowsAffected > 0, nil
}

func (s *gormUserStore) Update(id string, patch map[string]any) (bool, error) {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormUserStore) Delete(id string) (bool, error) {
	res := s.db.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
