package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff account. Role drives the status capabilities offered by
// the state machine; AssignedShopID scopes which orders a non-admin actor
// may view and act on.
type User struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash   string         `gorm:"not null" json:"-"`
	DisplayName    string         `json:"display_name,omitempty"`
	Role           string         `gorm:"index;not null" json:"role"` // vendeur / boutique / production / admin
	AssignedShopID *uint          `gorm:"index" json:"assigned_shop_id,omitempty"`
	Active         bool           `gorm:"not null" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
