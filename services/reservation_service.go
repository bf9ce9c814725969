package services

import (
	"context"
	"log"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/models"
	"gorm.io/gorm"
)

// ExpireReservationIfDue reverts a reserved table to available when its
// hold window has passed. The status guard in the WHERE clause is the
// check-before-write: a table that was claimed (occupied) in the interim
// is never touched. Returns whether the table was released.
func ExpireReservationIfDue(db *gorm.DB, table *models.Table, now time.Time) (bool, error) {
	if !table.ReservationExpired(now) {
		return false, nil
	}

	result := db.Model(&models.Table{}).
		Where("id = ? AND status = ?", table.ID, models.TableReserved).
		Updates(map[string]interface{}{
			"status":                 models.TableAvailable,
			"reservation_name":       "",
			"reservation_phone":      "",
			"reserved_at":            nil,
			"reservation_expires_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	table.Status = models.TableAvailable
	table.ClearReservation()

	Publish(EventTableAutoReleased, map[string]interface{}{
		"tableNumber": table.TableNumber,
		"tableId":     table.ID,
	})
	Publish(EventTableUpdated, map[string]interface{}{
		"tableNumber": table.TableNumber,
		"tableId":     table.ID,
		"status":      models.TableAvailable,
	})
	return true, nil
}

// SweepExpiredReservations releases every reserved table whose hold
// window has passed. Returns how many tables were released.
func SweepExpiredReservations(db *gorm.DB, now time.Time) (int, error) {
	var tables []models.Table
	err := db.
		Where("status = ? AND reservation_expires_at IS NOT NULL AND reservation_expires_at < ?",
			models.TableReserved, now).
		Find(&tables).Error
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range tables {
		ok, err := ExpireReservationIfDue(db, &tables[i], now)
		if err != nil {
			return released, err
		}
		if ok {
			released++
		}
	}
	return released, nil
}

// RunReservationSweeper periodically sweeps expired reservations until
// the context is cancelled. Because expiry is also evaluated lazily on
// read, the sweep is a recovery mechanism, not the primary path.
func RunReservationSweeper(ctx context.Context, db *gorm.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			released, err := SweepExpiredReservations(db, time.Now())
			if err != nil {
				log.Printf("Reservation sweep failed: %v", err)
				continue
			}
			if released > 0 {
				log.Printf("Reservation sweep released %d table(s)", released)
			}
		}
	}
}
