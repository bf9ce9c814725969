package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
	RoleStaff   = "staff"
)

// User represents an employee (admin, cashier, kitchen or service staff)
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Auth0ID    *string        `gorm:"uniqueIndex" json:"auth0_id,omitempty"` // Auth0 user ID (from 'sub' claim), nil for locally created staff
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone      string         `json:"phone"`
	Role       string         `gorm:"not null;default:'staff'" json:"role"`
	Active     bool           `gorm:"not null;default:true" json:"active"`
	BaseSalary float64        `gorm:"not null;default:0" json:"base_salary"`
	HourlyRate float64        `gorm:"not null;default:0" json:"hourly_rate"`
	DailyRate  float64        `gorm:"not null;default:0" json:"daily_rate"`
	Allowance  float64        `gorm:"not null;default:0" json:"allowance"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy  *uint          `json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCashier, RoleKitchen, RoleStaff:
		return true
	}
	return false
}
