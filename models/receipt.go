package models

import "time"

// Receipt is an uploaded pump-receipt image. Amount holds the OCR-extracted
// total (0 when nothing was recognised). Failed uploads keep their record so
// the watcher or an admin can retry them.
type Receipt struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        string    `gorm:"size:36;index;not null" json:"user_id"`
	TransactionID *string   `gorm:"size:36;index" json:"transaction_id,omitempty"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	StorePath     string    `gorm:"column:store_path;size:512" json:"store_path"`
	ContentType   string    `gorm:"size:128" json:"content_type"`
	Amount        int64     `json:"amount"`
	Failed        bool      `gorm:"default:false;index" json:"failed"`
	FailedReason  string    `gorm:"size:255" json:"failed_reason,omitempty"`
}
