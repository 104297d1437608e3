package models

import "time"

// User represents a registered account and its current budget balance.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	Budget       float64 `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
