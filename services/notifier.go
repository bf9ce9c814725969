package services

import (
	"log"
)

// Event names published over the realtime channel
const (
	EventOrderCreated        = "order:created"
	EventOrderUpdated        = "order:updated"
	EventOrderPaid           = "order:paid"
	EventOrderCancelled      = "order:cancelled"
	EventOrderSplit          = "order:split"
	EventOrderMerged         = "order:merged"
	EventDishCancelled       = "kitchen:dish_cancelled"
	EventCancelRequested     = "kitchen:cancel_requested"
	EventTempCalculation     = "cashier:temp_calculation"
	EventTableUpdated        = "table:updated"
	EventTableReserved       = "table:reserved"
	EventTableAutoReleased   = "table:auto_released"
	EventMenuUpdated         = "menu:updated"
	EventSalaryFinalized     = "salary:finalized"
)

// Notifier broadcasts domain events to connected realtime clients.
// Delivery is best-effort: the persisted entity, not the event, is the
// source of truth, and clients reconcile by refetching.
type Notifier interface {
	// Publish broadcasts an event to all clients. When the payload
	// carries a "tableNumber" field the event is additionally sent to
	// that table's interest group.
	Publish(event string, payload map[string]interface{}) error
}

var notifierInstance Notifier

// InitNotifier initializes the process-wide notifier
func InitNotifier(n Notifier) Notifier {
	notifierInstance = n
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// Publish sends an event through the configured notifier. Publish
// failures are logged and swallowed: an event emission failure must not
// fail the state-changing operation that triggered it.
func Publish(event string, payload map[string]interface{}) {
	if notifierInstance == nil {
		return
	}
	if err := notifierInstance.Publish(event, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", event, err)
	}
}
