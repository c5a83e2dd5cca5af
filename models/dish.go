package models

// Allergen is a shared label (gluten, lactose...) attached to dishes.
// Labels are unique so the same allergen is reused across the catalog.
type Allergen struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"type:varchar(100);unique;not null" json:"label"`
}

// Dish is one course of a menu (entrée, plat, dessert...).
type Dish struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	MenuID      uint       `gorm:"not null;index" json:"menu_id"`
	Title       string     `gorm:"type:varchar(150);not null" json:"title"`
	Type        string     `gorm:"type:varchar(30);not null" json:"type"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"type:varchar(255)" json:"image_url"`
	Allergens   []Allergen `gorm:"many2many:dish_allergens" json:"allergens"`
}
