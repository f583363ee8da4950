package models

import "time"

// User is an account record. PasswordHash and SessionMarker are never
// serialized; the marker is the rotating value embedded in issued tokens and
// compared on every authorization (see the auth service).
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	FullName      string    `gorm:"size:50;not null" json:"full_name"`
	Email         string    `gorm:"size:50;not null;uniqueIndex" json:"email"`
	PasswordHash  []byte    `gorm:"not null" json:"-"`
	IsActive      bool      `gorm:"default:true;not null" json:"is_active"`
	SessionMarker string    `gorm:"size:16;not null" json:"-"`
}
