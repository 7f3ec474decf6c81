package repository

import "time"

// OrderListFilter filters the order list.
type OrderListFilter struct {
	Page           int
	PageSize       int
	ShopID         uint
	Status         string
	OrderNumber    string
	CustomerSearch string
	PickupFrom     *time.Time
	PickupTo       *time.Time
}

// ProductListFilter filters the product list.
type ProductListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	OnlyActive bool
}
