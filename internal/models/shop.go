package models

import (
	"time"

	"gorm.io/gorm"
)

// Shop is a pickup location. Inactive shops cannot receive new orders.
type Shop struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Address   string         `json:"address,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Active    bool           `gorm:"not null;index" json:"active"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Shop) TableName() string {
	return "shops"
}
