package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/models"
	"gorm.io/gorm"
)

// ErrSalaryAlreadyFinalized is returned when a salary period already has
// a finalized snapshot
var ErrSalaryAlreadyFinalized = errors.New("salary already finalized for this period")

// ErrSalaryAlreadyPaid is returned when marking a paid snapshot paid again
var ErrSalaryAlreadyPaid = errors.New("salary log is already paid")

// SalaryComputation is the derived pay for one employee and month
type SalaryComputation struct {
	UserID      uint    `json:"user_id"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	BaseSalary  float64 `json:"base_salary"`
	WorkedHours float64 `json:"worked_hours"`
	WorkedDays  int     `json:"worked_days"`
	HourlyRate  float64 `json:"hourly_rate"`
	DailyRate   float64 `json:"daily_rate"`
	Allowance   float64 `json:"allowance"`
	Deductions  float64 `json:"deductions"`
	Total       float64 `json:"total"`
}

// ComputeSalary aggregates an employee's attendance for a month and
// applies the additive pay model:
//
//	base + hours*hourlyRate + days*dailyRate + allowance - deductions
//
// Only attendance rows with both check-in and check-out count.
func ComputeSalary(db *gorm.DB, userID uint, month, year int, deductions float64) (*SalaryComputation, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Check-ins are stamped with server time, so the month window has to
	// live in the same location or boundary shifts land in the wrong month
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var attendances []models.Attendance
	err := db.
		Where("user_id = ? AND check_in IS NOT NULL AND check_out IS NOT NULL", userID).
		Where("check_in >= ? AND check_in < ?", start, end).
		Find(&attendances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	hours := 0.0
	days := make(map[string]bool)
	for _, a := range attendances {
		worked := a.CheckOut.Sub(*a.CheckIn).Hours()
		if worked <= 0 {
			continue
		}
		hours += worked
		days[a.CheckIn.Local().Format("2006-01-02")] = true
	}

	comp := &SalaryComputation{
		UserID:      userID,
		Month:       month,
		Year:        year,
		BaseSalary:  user.BaseSalary,
		WorkedHours: hours,
		WorkedDays:  len(days),
		HourlyRate:  user.HourlyRate,
		DailyRate:   user.DailyRate,
		Allowance:   user.Allowance,
		Deductions:  deductions,
	}
	comp.Total = comp.BaseSalary +
		comp.WorkedHours*comp.HourlyRate +
		float64(comp.WorkedDays)*comp.DailyRate +
		comp.Allowance -
		comp.Deductions
	return comp, nil
}

// FinalizeSalary persists an immutable salary snapshot for the period.
// Finalizing the same (user, month, year) twice fails.
func FinalizeSalary(db *gorm.DB, userID uint, month, year int, deductions float64) (*models.SalaryLog, error) {
	var existing models.SalaryLog
	err := db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).First(&existing).Error
	if err == nil {
		return nil, ErrSalaryAlreadyFinalized
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing salary log: %w", err)
	}

	comp, err := ComputeSalary(db, userID, month, year, deductions)
	if err != nil {
		return nil, err
	}

	salaryLog := models.SalaryLog{
		UserID:      comp.UserID,
		Month:       comp.Month,
		Year:        comp.Year,
		BaseSalary:  comp.BaseSalary,
		WorkedHours: comp.WorkedHours,
		WorkedDays:  comp.WorkedDays,
		HourlyRate:  comp.HourlyRate,
		DailyRate:   comp.DailyRate,
		Allowance:   comp.Allowance,
		Deductions:  comp.Deductions,
		Total:       comp.Total,
		Status:      models.SalaryPending,
	}
	if err := db.Create(&salaryLog).Error; err != nil {
		return nil, fmt.Errorf("failed to create salary log: %w", err)
	}
	return &salaryLog, nil
}

// MarkSalaryPaid flips a pending snapshot to paid, one-way.
func MarkSalaryPaid(db *gorm.DB, salaryLogID uint) (*models.SalaryLog, error) {
	var salaryLog models.SalaryLog
	if err := db.First(&salaryLog, salaryLogID).Error; err != nil {
		return nil, err
	}
	if salaryLog.Status == models.SalaryPaid {
		return nil, ErrSalaryAlreadyPaid
	}
	if err := db.Model(&salaryLog).Update("status", models.SalaryPaid).Error; err != nil {
		return nil, fmt.Errorf("failed to mark salary paid: %w", err)
	}
	salaryLog.Status = models.SalaryPaid
	return &salaryLog, nil
}
