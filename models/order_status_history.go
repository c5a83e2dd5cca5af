package models

import "time"

// OrderStatusHistory is one append-only audit row per status change,
// including the initial status written at order creation.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
}
