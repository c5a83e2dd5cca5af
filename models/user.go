package models

import "time"

// Roles known to the application. Admin implies staff capability.
const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	Role      string `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	Phone     string `gorm:"type:varchar(30)" json:"phone"`
	Address   string `gorm:"type:varchar(255)" json:"address"`
	Allergies string `gorm:"type:text" json:"allergies"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the authenticated identity handed to every service operation.
type Actor struct {
	ID    uint
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the actor may operate the order board and
// moderate reviews.
func (a Actor) IsStaff() bool {
	return a.HasRole(RoleEmployee) || a.HasRole(RoleAdmin)
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// ActorForUser builds the actor for a user record.
func ActorForUser(u *User) Actor {
	return Actor{ID: u.ID, Roles: []string{u.Role}}
}
