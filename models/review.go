package models

import "time"

// Review is the single customer review allowed per completed order.
// It stays hidden until staff validates it.
type Review struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;uniqueIndex" json:"order_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating      int        `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment     string     `gorm:"type:text;not null" json:"comment"`
	IsValidated bool       `gorm:"not null;default:false" json:"is_validated"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
}
