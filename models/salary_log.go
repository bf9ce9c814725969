package models

import (
	"time"
)

// Salary log statuses; the flip from pending to paid is one-way
const (
	SalaryPending = "pending"
	SalaryPaid    = "paid"
)

// SalaryLog is an immutable finalized salary snapshot for one employee
// and one month. Uniqueness over (user, month, year) prevents double
// finalization.
type SalaryLog struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;uniqueIndex:idx_salary_period" json:"user_id"`
	User        *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Month       int     `gorm:"not null;uniqueIndex:idx_salary_period" json:"month"`
	Year        int     `gorm:"not null;uniqueIndex:idx_salary_period" json:"year"`
	BaseSalary  float64 `gorm:"not null;default:0" json:"base_salary"`
	WorkedHours float64 `gorm:"not null;default:0" json:"worked_hours"`
	WorkedDays  int     `gorm:"not null;default:0" json:"worked_days"`
	HourlyRate  float64 `gorm:"not null;default:0" json:"hourly_rate"`
	DailyRate   float64 `gorm:"not null;default:0" json:"daily_rate"`
	Allowance   float64 `gorm:"not null;default:0" json:"allowance"`
	Deductions  float64 `gorm:"not null;default:0" json:"deductions"`
	Total       float64 `gorm:"not null;default:0" json:"total"`
	Status      string  `gorm:"not null;default:'pending'" json:"status"` // pending, paid

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SalaryLog model
func (SalaryLog) TableName() string {
	return "salary_logs"
}
