package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Completed and cancelled are terminal.
const (
	OrderStatusReceived       = "received"
	OrderStatusAccepted       = "accepted"
	OrderStatusInPreparation  = "in_preparation"
	OrderStatusInDelivery     = "in_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusAwaitingReturn = "awaiting_equipment_return"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

// OrderStatuses lists every valid status value.
func OrderStatuses() []string {
	return []string{
		OrderStatusReceived,
		OrderStatusAccepted,
		OrderStatusInPreparation,
		OrderStatusInDelivery,
		OrderStatusDelivered,
		OrderStatusAwaitingReturn,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether no transition may leave status.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

type Order struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	UserID         uint                 `gorm:"not null;index" json:"user_id"`
	User           User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MenuID         uint                 `gorm:"not null;index" json:"menu_id"`
	Menu           Menu                 `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	ServiceAddress string               `gorm:"type:varchar(255);not null" json:"service_address"`
	ServiceCity    string               `gorm:"type:varchar(130);not null" json:"service_city"`
	ServiceDate    time.Time            `gorm:"not null" json:"service_date"`
	ServiceTime    string               `gorm:"type:varchar(5);not null" json:"service_time"`
	PeopleCount    int                  `gorm:"not null" json:"people_count"`
	Km             decimal.Decimal      `gorm:"type:decimal(10,2);not null;default:0.00" json:"km"`
	MenuPrice      decimal.Decimal      `gorm:"type:decimal(10,2);not null" json:"menu_price"`
	Discount       decimal.Decimal      `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	DeliveryPrice  decimal.Decimal      `gorm:"type:decimal(10,2);not null" json:"delivery_price"`
	Total          decimal.Decimal      `gorm:"type:decimal(10,2);not null" json:"total"`
	Status         string               `gorm:"type:varchar(30);not null;default:'received'" json:"status"`
	CancelReason   *string              `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt      time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"not null" json:"updated_at"`
	StatusHistory  []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history"`
	Review         *Review              `gorm:"foreignKey:OrderID" json:"review,omitempty"`
}
