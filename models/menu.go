package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Menu is one catered meal offering. MinPrice is the price charged for
// MinPeople guests; Stock counts how many more orders the menu can accept.
type Menu struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Title          string          `gorm:"type:varchar(150);not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Theme          string          `gorm:"type:varchar(50)" json:"theme"`
	Diet           *string         `gorm:"type:varchar(50)" json:"diet,omitempty"`
	MinPeople      int             `gorm:"not null" json:"min_people"`
	MinPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"min_price"`
	Stock          int             `gorm:"not null;check:stock >= 0" json:"stock"`
	ConditionsText string          `gorm:"type:text" json:"conditions_text"`
	Dishes         []Dish          `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"dishes,omitempty"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}
