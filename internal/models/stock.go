package models

import "time"

// StoreStock: per-store shelf quantity of a product.
type StoreStock struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StoreID   uint    `gorm:"not null;uniqueIndex:idx_store_stock_store_product" json:"store_id"`
	Store     Store   `json:"-"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_store_stock_store_product" json:"product_id"`
	Product   Product `json:"-"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	// Timestamp of the most recent stock-in; drives disposal discovery.
	LastInAt     *time.Time `gorm:"index" json:"last_in_at"`
	LocationCode string     `gorm:"size:20" json:"location_code"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// WarehouseStock: per-store back-room quantity of a product.
type WarehouseStock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreID   uint      `gorm:"not null;uniqueIndex:idx_warehouse_stock_store_product" json:"store_id"`
	Store     Store     `json:"-"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_warehouse_stock_store_product" json:"product_id"`
	Product   Product   `json:"-"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HQStock: headquarters aggregate per product. Quantity is derived:
// total_quantity minus the sum of all store quantities. It is recalculated
// after store stock changes, not maintained transactionally with them.
type HQStock struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ProductID     uint    `gorm:"uniqueIndex;not null" json:"product_id"`
	Product       Product `json:"-"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	TotalQuantity int     `gorm:"not null" json:"total_quantity"`
	UpdatedBy     string  `gorm:"size:100" json:"updated_by"`
	// Day of month for scheduled regular stock-in, if enabled.
	RegularInDay    int       `json:"regular_in_day"`
	RegularInActive bool      `gorm:"default:false" json:"regular_in_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TransferDirection string

const (
	TransferToStore     TransferDirection = "WAREHOUSE_TO_STORE"
	TransferToWarehouse TransferDirection = "STORE_TO_WAREHOUSE"
)

// StockTransfer: movement between a store's back room and its shelf.
// Moving onto the shelf refreshes the store stock's last-in timestamp.
type StockTransfer struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	StoreID       uint              `gorm:"index;not null" json:"store_id"`
	Store         Store             `json:"-"`
	ProductID     uint              `gorm:"index;not null" json:"product_id"`
	Product       Product           `json:"-"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	Direction     TransferDirection `gorm:"size:30;not null" json:"direction"`
	TransferredBy string            `gorm:"size:100;not null" json:"transferred_by"`
	CreatedAt     time.Time         `json:"created_at"`
}

// StockAdjustLog: append-only audit record of a manual quantity change.
// Rows are never updated or deleted.
type StockAdjustLog struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	StoreID      uint    `gorm:"index;not null" json:"store_id"`
	Store        Store   `json:"-"`
	ProductID    uint    `gorm:"index;not null" json:"product_id"`
	Product      Product `json:"-"`
	PrevQuantity int     `gorm:"not null" json:"prev_quantity"`
	NewQuantity  int     `gorm:"not null" json:"new_quantity"`
	// Actor name, denormalized so the log survives employee changes.
	AdjustedBy string    `gorm:"size:100;not null" json:"adjusted_by"`
	Reason     string    `gorm:"size:255" json:"reason"`
	AdjustDate time.Time `gorm:"index;not null" json:"adjust_date"`
}
