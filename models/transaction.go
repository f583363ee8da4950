package models

import "time"

// Transaction is a single fuel purchase for a vehicle. Amount is in whole
// currency units, FuelQuantity in the pump's smallest unit (e.g. centilitres).
type Transaction struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	VehicleID       string    `gorm:"size:36;index;not null" json:"vehicle_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	FuelQuantity    int       `gorm:"not null" json:"fuel_quantity"`
	Location        string    `gorm:"size:50;not null" json:"location"`
	TankFullyFilled bool      `gorm:"not null" json:"tank_fully_filled"`
}
