package models

import "time"

// Vehicle belongs to a user. RegistrationNumber is stored normalised
// (lowercased, separators stripped) and is unique per owner.
type Vehicle struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	OwnerID            string    `gorm:"size:36;not null;uniqueIndex:idx_owner_reg" json:"owner_id"`
	Name               string    `gorm:"size:50;not null" json:"name"`
	Model              string    `gorm:"size:50;not null" json:"model"`
	Color              string    `gorm:"size:50;not null" json:"color"`
	Company            string    `gorm:"size:50;not null" json:"company"`
	RegistrationNumber string    `gorm:"size:50;not null;uniqueIndex:idx_owner_reg" json:"registration_number"`
	CurrentMileage     int       `gorm:"not null" json:"current_mileage"`
	TotalKmsDriven     int       `gorm:"not null" json:"total_kms_driven"`
	FuelType           string    `gorm:"size:32" json:"fuel_type,omitempty"`
	LastServiceDate    string    `gorm:"size:32" json:"last_service_date,omitempty"`
	AverageMileage     *int      `json:"average_mileage,omitempty"`
	ChasisNumber       string    `gorm:"size:50" json:"chasis_number,omitempty"`
	FuelTankCapacity   *int      `json:"fuel_tank_capacity,omitempty"`
}
