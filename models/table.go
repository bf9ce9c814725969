package models

import (
	"time"

	"gorm.io/gorm"
)

// Table statuses
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

// Table represents a physical seat group in the restaurant
type Table struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TableNumber    int        `gorm:"not null;index" json:"table_number"`
	Capacity       int        `gorm:"not null;default:2" json:"capacity"`
	Location       string     `json:"location"` // floor/zone tag
	Status         string     `gorm:"not null;default:'available'" json:"status"`
	CurrentOrderID *uint      `gorm:"index" json:"current_order_id"`
	CurrentOrder   *Order     `gorm:"foreignKey:CurrentOrderID" json:"current_order,omitempty"`

	// Reservation metadata; ReservationExpiresAt is persisted so that a
	// restart cannot strand a reserved table.
	ReservationName      string     `json:"reservation_name,omitempty"`
	ReservationPhone     string     `json:"reservation_phone,omitempty"`
	ReservedAt           *time.Time `json:"reserved_at,omitempty"`
	ReservationExpiresAt *time.Time `gorm:"index" json:"reservation_expires_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *uint          `json:"-"`
}

// TableName specifies the table name for the Table model
func (Table) TableName() string {
	return "tables"
}

// ReservationExpired reports whether a reserved table's hold window has passed.
func (t *Table) ReservationExpired(now time.Time) bool {
	return t.Status == TableReserved &&
		t.ReservationExpiresAt != nil &&
		now.After(*t.ReservationExpiresAt)
}

// ClearReservation wipes all reservation metadata.
func (t *Table) ClearReservation() {
	t.ReservationName = ""
	t.ReservationPhone = ""
	t.ReservedAt = nil
	t.ReservationExpiresAt = nil
}
