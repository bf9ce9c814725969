package services

import (
	"errors"
	"testing"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedEmployee(db *gorm.DB) *models.User {
	user := &models.User{
		Name:       "Le Van Bep",
		Email:      "bep@example.com",
		Role:       models.RoleKitchen,
		BaseSalary: 4000000,
		HourlyRate: 25000,
		DailyRate:  50000,
		Allowance:  500000,
	}
	db.Create(user)
	return user
}

func seedAttendance(db *gorm.DB, userID uint, checkIn, checkOut time.Time) {
	shift := models.Shift{Name: "morning", Date: checkIn, StartTime: "08:00", EndTime: "16:00"}
	db.Create(&shift)
	db.Create(&models.Attendance{
		ShiftID:  shift.ID,
		UserID:   userID,
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
	})
}

func TestComputeSalary(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedEmployee(db)

	// Two full shifts on separate days, one double shift day, and one
	// open attendance that must not count
	day1 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 3, 8, 0, 0, 0, time.Local)
	seedAttendance(db, user.ID, day1, day1.Add(8*time.Hour))
	seedAttendance(db, user.ID, day2, day2.Add(8*time.Hour))
	seedAttendance(db, user.ID, day2.Add(9*time.Hour), day2.Add(13*time.Hour))

	open := time.Date(2026, 3, 4, 8, 0, 0, 0, time.Local)
	shift := models.Shift{Name: "evening", Date: open, StartTime: "16:00", EndTime: "22:00"}
	db.Create(&shift)
	db.Create(&models.Attendance{ShiftID: shift.ID, UserID: user.ID, CheckIn: &open})

	comp, err := ComputeSalary(db, user.ID, 3, 2026, 200000)
	assert.NoError(t, err)

	assert.InDelta(t, 20.0, comp.WorkedHours, 0.0001)
	assert.Equal(t, 2, comp.WorkedDays)

	// base + hours*hourly + days*daily + allowance - deductions
	expected := 4000000.0 + 20*25000 + 2*50000 + 500000 - 200000
	assert.InDelta(t, expected, comp.Total, 0.0001)
}

func TestComputeSalary_MonthBoundary(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedEmployee(db)

	// A late shift ending just before midnight on the last day of February
	// belongs to February, not March
	lastOfFeb := time.Date(2026, 2, 28, 18, 0, 0, 0, time.Local)
	seedAttendance(db, user.ID, lastOfFeb, lastOfFeb.Add(5*time.Hour+59*time.Minute))

	// An opening shift in the first hour of March 1 belongs to March
	firstOfMar := time.Date(2026, 3, 1, 0, 30, 0, 0, time.Local)
	seedAttendance(db, user.ID, firstOfMar, firstOfMar.Add(6*time.Hour))

	march, err := ComputeSalary(db, user.ID, 3, 2026, 0)
	assert.NoError(t, err)
	assert.InDelta(t, 6.0, march.WorkedHours, 0.0001)
	assert.Equal(t, 1, march.WorkedDays)

	february, err := ComputeSalary(db, user.ID, 2, 2026, 0)
	assert.NoError(t, err)
	assert.InDelta(t, 5.9833, february.WorkedHours, 0.001)
	assert.Equal(t, 1, february.WorkedDays)
}

func TestComputeSalary_EmptyMonth(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedEmployee(db)

	comp, err := ComputeSalary(db, user.ID, 1, 2026, 0)
	assert.NoError(t, err)
	assert.Zero(t, comp.WorkedHours)
	assert.Zero(t, comp.WorkedDays)
	assert.InDelta(t, user.BaseSalary+user.Allowance, comp.Total, 0.0001)
}

func TestComputeSalary_UnknownUser(t *testing.T) {
	db := setupServiceTestDB(t)

	_, err := ComputeSalary(db, 9999, 3, 2026, 0)
	assert.Error(t, err)
}

func TestFinalizeSalary(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedEmployee(db)

	day := time.Date(2026, 4, 6, 8, 0, 0, 0, time.Local)
	seedAttendance(db, user.ID, day, day.Add(8*time.Hour))

	salaryLog, err := FinalizeSalary(db, user.ID, 4, 2026, 0)
	assert.NoError(t, err)
	assert.Equal(t, models.SalaryPending, salaryLog.Status)
	assert.InDelta(t, 8.0, salaryLog.WorkedHours, 0.0001)

	// The same period cannot be finalized twice
	_, err = FinalizeSalary(db, user.ID, 4, 2026, 0)
	assert.True(t, errors.Is(err, ErrSalaryAlreadyFinalized))

	// A different month is fine
	_, err = FinalizeSalary(db, user.ID, 5, 2026, 0)
	assert.NoError(t, err)
}

func TestMarkSalaryPaid(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedEmployee(db)

	salaryLog, err := FinalizeSalary(db, user.ID, 6, 2026, 0)
	assert.NoError(t, err)

	paid, err := MarkSalaryPaid(db, salaryLog.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.SalaryPaid, paid.Status)

	// Paid is one-way
	_, err = MarkSalaryPaid(db, salaryLog.ID)
	assert.True(t, errors.Is(err, ErrSalaryAlreadyPaid))
}
