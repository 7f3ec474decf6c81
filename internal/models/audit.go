package models

import "time"

// OrderStatusHistory is the append-only status ledger. Exactly one entry
// exists per transition; entries are never mutated or deleted.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `gorm:"not null" json:"new_status"`
	ChangedBy string    `gorm:"not null" json:"changed_by"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}

// OrderModification is an append-only audit record describing one change
// category detected during an order edit.
type OrderModification struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OrderID          uint      `gorm:"index;not null" json:"order_id"`
	ModifiedBy       string    `gorm:"not null" json:"modified_by"`
	ModificationType string    `gorm:"index;not null" json:"modification_type"`
	Details          JSON      `gorm:"type:json" json:"details"`
	Comment          string    `json:"comment,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (OrderModification) TableName() string {
	return "order_modifications"
}

// DeliveryItem tracks loading progress for one product at one shop on one
// date. Rows are created lazily on first check, never pre-populated.
type DeliveryItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	DeliveryDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_delivery_key" json:"delivery_date"`
	ShopID       uint      `gorm:"not null;uniqueIndex:idx_delivery_key" json:"shop_id"`
	ProductName  string    `gorm:"not null;uniqueIndex:idx_delivery_key" json:"product_name"`
	Checked      bool      `gorm:"default:false" json:"checked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (DeliveryItem) TableName() string {
	return "delivery_items"
}
