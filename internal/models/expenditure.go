package models

import "time"

// Expenditure is a single spend event recorded against a user's budget.
// Rows are append-only.
type Expenditure struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    uint    `gorm:"index;not null"`
	Amount    float64 `gorm:"not null"`
	Date      string  `gorm:"size:10;not null"` // YYYY-MM-DD, stored as given
	Note      string  `gorm:"size:200;not null;default:''"`
	CreatedAt time.Time

	// nil on writes so gorm does not try to save the association
	User *User `gorm:"constraint:OnDelete:CASCADE"`
}
