package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a customer pickup request owned by one shop and one date.
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	OrderNumber       string         `gorm:"uniqueIndex;not null" json:"order_number"`        // generated at creation, immutable
	ShopID            uint           `gorm:"index;not null" json:"shop_id"`                   // owning pickup location
	PickupDate        time.Time      `gorm:"type:date;index;not null" json:"pickup_date"`     // calendar date, no time component
	CustomerName      string         `gorm:"not null" json:"customer_name"`
	CustomerFirstname string         `gorm:"not null" json:"customer_firstname"`
	CustomerPhone     string         `gorm:"not null" json:"customer_phone"`
	CustomerEmail     string         `json:"customer_email,omitempty"`
	TotalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // always recomputed from lines
	Status            string         `gorm:"index;not null" json:"status"`
	CreatedBy         string         `gorm:"not null" json:"created_by"` // immutable once set
	Version           uint           `gorm:"not null;default:1" json:"version"` // optimistic lock counter
	CreatedAt         time.Time      `gorm:"index" json:"created_date"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	Shop  *Shop       `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one product entry within an order. Product name and unit
// price are snapshots taken at order time; the line keeps its identity
// across edits so audit references survive.
type OrderLine struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	OrderID       uint           `gorm:"index;not null" json:"order_id"`
	ProductID     uint           `gorm:"index;not null" json:"product_id"`
	ProductName   string         `gorm:"not null" json:"product_name"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	UnitPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	Customization string         `json:"customization,omitempty"`
	Subtotal      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderLine) TableName() string {
	return "order_lines"
}

// DateOnly truncates a timestamp to its UTC calendar date. Pickup and
// delivery dates carry no time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
