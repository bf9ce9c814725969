package models

import (
	"time"
)

// ActivityLog is an append-only audit trail row written by mutating
// handlers. Rows are never updated or deleted.
type ActivityLog struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ActorID  *uint  `gorm:"index" json:"actor_id"`
	Action   string `gorm:"not null" json:"action"` // order.create, table.reserve...
	Entity   string `gorm:"not null;index" json:"entity"`
	EntityID uint   `gorm:"index" json:"entity_id"`
	Detail   string `json:"detail"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}
