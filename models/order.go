package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order payment-lifecycle statuses. This field tracks the billing state
// only; kitchen progress is a separate read-time projection.
const (
	OrderPending         = "pending"
	OrderTempCalculation = "temp_calculation"
	OrderConfirmed       = "confirmed"
	OrderPaid            = "paid"
	OrderCancelled       = "cancelled"
)

// Order item kitchen statuses
const (
	ItemPending         = "pending"
	ItemPreparing       = "preparing"
	ItemReady           = "ready"
	ItemServed          = "served"
	ItemSoldOut         = "soldout"
	ItemCancelRequested = "cancel_requested"
)

// Payment methods
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentVNPay    = "vnpay"
)

// Order represents one table's running bill
type Order struct {
	ID           uint                     `gorm:"primaryKey" json:"id"`
	OrderNumber  string                   `gorm:"uniqueIndex;not null" json:"order_number"`
	TableNumber  int                      `gorm:"not null;index" json:"table_number"`
	SharedTables datatypes.JSONSlice[int] `json:"shared_tables,omitempty"` // extra table numbers covered by a merged bill

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	TotalAmount float64 `gorm:"not null;default:0" json:"total_amount"`
	Discount    float64 `gorm:"not null;default:0" json:"discount"`
	FinalAmount float64 `gorm:"not null;default:0" json:"final_amount"`
	PaidAmount  float64 `gorm:"not null;default:0" json:"paid_amount"`
	Change      float64 `gorm:"not null;default:0" json:"change"`

	PaymentMethod string `json:"payment_method"`
	VoucherCode   string `json:"voucher_code,omitempty"`

	Status        string `gorm:"not null;default:'pending'" json:"status"`  // payment lifecycle
	KitchenStatus string `gorm:"-" json:"kitchen_status"`                   // computed from item statuses, never persisted

	StaffID   *uint `gorm:"index" json:"staff_id"`
	Staff     *User `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	CashierID *uint `gorm:"index" json:"cashier_id"`
	Cashier   *User `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`

	TempCalcRequestedBy *uint      `json:"temp_calc_requested_by,omitempty"`
	TempCalcRequestedAt *time.Time `json:"temp_calc_requested_at,omitempty"`
	CancelReason        string     `json:"cancel_reason,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`

	// Split/merge lineage. A split source links its destinations via
	// SplitTo; a merged order links its sources via MergedFrom.
	SplitTo    datatypes.JSONSlice[uint] `json:"split_to,omitempty"`
	MergedFrom datatypes.JSONSlice[uint] `json:"merged_from,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *uint          `json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order reached a terminal billing state.
// Paid and cancelled orders accept no further mutation.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderPaid || o.Status == OrderCancelled
}

// RecomputeTotals recalculates TotalAmount and FinalAmount from the
// current items and discount. Soldout items contribute zero.
func (o *Order) RecomputeTotals() {
	total := 0.0
	for _, item := range o.Items {
		if item.Status == ItemSoldOut {
			continue
		}
		total += item.Price * float64(item.Quantity)
	}
	o.TotalAmount = total
	if o.Discount > o.TotalAmount {
		o.Discount = o.TotalAmount
	}
	o.FinalAmount = o.TotalAmount - o.Discount
}

// DeriveKitchenStatus projects an aggregate kitchen status from the item
// statuses: all soldout -> soldout; all ready/served (ignoring soldout)
// -> ready; any preparing -> preparing; otherwise pending.
func (o *Order) DeriveKitchenStatus() string {
	if len(o.Items) == 0 {
		return ItemPending
	}

	allSoldOut := true
	allReady := true
	anyPreparing := false
	for _, item := range o.Items {
		if item.Status != ItemSoldOut {
			allSoldOut = false
		}
		if item.Status != ItemReady && item.Status != ItemServed && item.Status != ItemSoldOut {
			allReady = false
		}
		if item.Status == ItemPreparing {
			anyPreparing = true
		}
	}

	switch {
	case allSoldOut:
		return ItemSoldOut
	case allReady:
		return ItemReady
	case anyPreparing:
		return ItemPreparing
	default:
		return ItemPending
	}
}

// AfterFind fills the computed kitchen status after every query.
func (o *Order) AfterFind(tx *gorm.DB) error {
	o.KitchenStatus = o.DeriveKitchenStatus()
	return nil
}

// OrderItem is one ordered quantity of one menu item within an order.
// Name, Image and Price are snapshots so historical bills stay accurate
// after menu changes.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MenuItemID *uint     `gorm:"index" json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`

	Name     string  `gorm:"not null" json:"name"`
	Image    string  `json:"image"`
	Price    float64 `gorm:"not null;default:0" json:"price"`
	Quantity int     `gorm:"not null;default:1" json:"quantity"`
	Status   string  `gorm:"not null;default:'pending'" json:"status"`
	Note     string  `json:"note"`

	CancelRequestedBy     *uint      `json:"cancel_requested_by,omitempty"`
	CancelRequestedAt     *time.Time `json:"cancel_requested_at,omitempty"`
	CancelRequestedReason string     `json:"cancel_requested_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// itemStatusSynonyms maps accepted spellings (Vietnamese and English,
// lower-cased) onto canonical item statuses.
var itemStatusSynonyms = map[string]string{
	"pending":          ItemPending,
	"chờ":              ItemPending,
	"chờ chế biến":     ItemPending,
	"cho che bien":     ItemPending,
	"preparing":        ItemPreparing,
	"đang làm":         ItemPreparing,
	"dang lam":         ItemPreparing,
	"đang chế biến":    ItemPreparing,
	"dang che bien":    ItemPreparing,
	"ready":            ItemReady,
	"done":             ItemReady,
	"đã xong":          ItemReady,
	"da xong":          ItemReady,
	"hoàn thành":       ItemReady,
	"hoan thanh":       ItemReady,
	"served":           ItemServed,
	"đã phục vụ":       ItemServed,
	"da phuc vu":       ItemServed,
	"soldout":          ItemSoldOut,
	"sold_out":         ItemSoldOut,
	"hết món":          ItemSoldOut,
	"het mon":          ItemSoldOut,
	"cancelled":        ItemSoldOut,
	"canceled":         ItemSoldOut,
	"hủy":              ItemSoldOut,
	"huy":              ItemSoldOut,
	"cancel_requested": ItemCancelRequested,
	"yêu cầu hủy":      ItemCancelRequested,
	"yeu cau huy":      ItemCancelRequested,
}

// NormalizeItemStatus maps a raw status spelling onto its canonical item
// status. The second return value is false for unrecognized values.
func NormalizeItemStatus(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	status, ok := itemStatusSynonyms[key]
	return status, ok
}
