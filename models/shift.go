package models

import (
	"time"

	"gorm.io/gorm"
)

// Shift is a time-boxed work assignment on a given date
type Shift struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"` // morning, evening...
	Date      time.Time      `gorm:"not null;index" json:"date"`
	StartTime string         `gorm:"not null" json:"start_time"` // "08:00"
	EndTime   string         `gorm:"not null" json:"end_time"`   // "16:00"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *uint          `json:"-"`
}

// TableName specifies the table name for the Shift model
func (Shift) TableName() string {
	return "shifts"
}

// Attendance records one employee's presence on one shift
type Attendance struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	ShiftID  uint       `gorm:"not null;index" json:"shift_id"`
	Shift    *Shift     `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	UserID   uint       `gorm:"not null;index" json:"user_id"`
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Attendance model
func (Attendance) TableName() string {
	return "attendances"
}
