package models

import "time"

// Disposal: removal of expired stock from a store. Cancelling a disposal
// restores the quantity to the source store stock and hard-deletes the row.
type Disposal struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StoreStockID uint       `gorm:"index;not null" json:"store_stock_id"`
	StoreStock   StoreStock `json:"-"`
	ProductID    uint       `gorm:"index;not null" json:"product_id"`
	Product      Product    `json:"-"`
	// Product name at disposal time, denormalized for listings and search.
	ProductName string    `gorm:"size:100;not null" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Reason      string    `gorm:"size:255" json:"reason"`
	DisposedAt  time.Time `gorm:"index;not null" json:"disposed_at"`
	CreatedAt   time.Time `json:"created_at"`
}
