package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Name and price are inherited into order
// lines as snapshots at order time.
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CategoryID     uint           `gorm:"not null;index" json:"category_id"`
	Name           string         `gorm:"not null" json:"name"`
	Price          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Active         bool           `gorm:"not null;index" json:"active"`
	UnlimitedStock bool           `gorm:"not null" json:"unlimited_stock"` // absence of stock tracking is the default
	CurrentStock   int            `gorm:"not null;default:0" json:"current_stock"`
	IsChristmas    bool           `gorm:"default:false" json:"is_christmas"`
	IsValentine    bool           `gorm:"default:false" json:"is_valentine"`
	IsEpiphany     bool           `gorm:"default:false" json:"is_epiphany"`
	IsCustomEvent  bool           `gorm:"default:false" json:"is_custom_event"`
	EventColor     string         `gorm:"type:varchar(20)" json:"event_color,omitempty"`
	EventIcon      string         `gorm:"type:varchar(50)" json:"event_icon,omitempty"`
	SortOrder      int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// HasEventFlag reports whether any of the product's own seasonal flags is set.
func (p *Product) HasEventFlag() bool {
	if p == nil {
		return false
	}
	return p.IsChristmas || p.IsValentine || p.IsEpiphany || p.IsCustomEvent
}

// Category groups products and can carry the same seasonal flags. A
// product counts as "event" when either its own flags or its category's
// flags are set; product flags win for display.
type Category struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	IsChristmas   bool           `gorm:"default:false" json:"is_christmas"`
	IsValentine   bool           `gorm:"default:false" json:"is_valentine"`
	IsEpiphany    bool           `gorm:"default:false" json:"is_epiphany"`
	IsCustomEvent bool           `gorm:"default:false" json:"is_custom_event"`
	EventColor    string         `gorm:"type:varchar(20)" json:"event_color,omitempty"`
	EventIcon     string         `gorm:"type:varchar(50)" json:"event_icon,omitempty"`
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// HasEventFlag reports whether any of the category's seasonal flags is set.
func (c *Category) HasEventFlag() bool {
	if c == nil {
		return false
	}
	return c.IsChristmas || c.IsValentine || c.IsEpiphany || c.IsCustomEvent
}
