package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"gorm.io/gorm"
)

var (
	ErrStockNotFound     = errors.New("stock record not found")
	ErrInsufficientStock = errors.New("not enough quantity for transfer")
)

// AdjustStock overwrites a store stock quantity and writes the append-only
// adjust log. The update, the log row and the HQ recompute for the adjusted
// product commit together; callers must have checked authorization first.
func AdjustStock(db *gorm.DB, storeID, productID uint, newQuantity int, actorName, reason string) (*models.StockAdjustLog, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	var logRow models.StockAdjustLog
	err := db.Transaction(func(tx *gorm.DB) error {
		var stock models.StoreStock
		if err := tx.Where("store_id = ? AND product_id = ?", storeID, productID).
			First(&stock).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		prev := stock.Quantity
		if err := tx.Model(&stock).Update("quantity", newQuantity).Error; err != nil {
			return err
		}

		logRow = models.StockAdjustLog{
			StoreID:      storeID,
			ProductID:    productID,
			PrevQuantity: prev,
			NewQuantity:  newQuantity,
			AdjustedBy:   actorName,
			Reason:       reason,
			AdjustDate:   time.Now(),
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return err
		}

		return recalculateHQ(tx, &productID)
	})
	if err != nil {
		return nil, err
	}
	return &logRow, nil
}

// Transfer moves quantity between a store's warehouse stock and its shelf
// stock. The source row must exist and hold enough; the destination row is
// created on first use. Shelf-bound moves refresh last_in_at, which drives
// disposal discovery. Everything commits in one transaction including the
// HQ recompute for the product.
func Transfer(db *gorm.DB, storeID, productID uint, quantity int, dir models.TransferDirection, actorName string) (*models.StockTransfer, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var transfer models.StockTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		var store models.StoreStock
		var warehouse models.WarehouseStock
		now := time.Now()

		switch dir {
		case models.TransferToStore:
			if err := tx.Where("store_id = ? AND product_id = ?", storeID, productID).
				First(&warehouse).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStockNotFound
				}
				return err
			}
			if warehouse.Quantity < quantity {
				return ErrInsufficientStock
			}
			if err := tx.Where(models.StoreStock{StoreID: storeID, ProductID: productID}).
				FirstOrCreate(&store).Error; err != nil {
				return err
			}
			if err := tx.Model(&warehouse).Update("quantity", warehouse.Quantity-quantity).Error; err != nil {
				return err
			}
			if err := tx.Model(&store).Updates(map[string]any{
				"quantity":   store.Quantity + quantity,
				"last_in_at": now,
			}).Error; err != nil {
				return err
			}

		case models.TransferToWarehouse:
			if err := tx.Where("store_id = ? AND product_id = ?", storeID, productID).
				First(&store).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStockNotFound
				}
				return err
			}
			if store.Quantity < quantity {
				return ErrInsufficientStock
			}
			if err := tx.Where(models.WarehouseStock{StoreID: storeID, ProductID: productID}).
				FirstOrCreate(&warehouse).Error; err != nil {
				return err
			}
			if err := tx.Model(&store).Update("quantity", store.Quantity-quantity).Error; err != nil {
				return err
			}
			if err := tx.Model(&warehouse).Update("quantity", warehouse.Quantity+quantity).Error; err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown transfer direction %q", dir)
		}

		transfer = models.StockTransfer{
			StoreID:       storeID,
			ProductID:     productID,
			Quantity:      quantity,
			Direction:     dir,
			TransferredBy: actorName,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}

		return recalculateHQ(tx, &productID)
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// RecalculateAllHQ recomputes every headquarters aggregate from store
// stock. It runs as its own transaction; callers treat failure as
// best-effort (log and continue).
func RecalculateAllHQ(db *gorm.DB) error {
	return recalculateHQ(db, nil)
}

// hq.quantity = hq.total_quantity - SUM(store quantities of the product)
func recalculateHQ(db *gorm.DB, productID *uint) error {
	q := `
		UPDATE hq_stocks
		SET quantity = total_quantity - COALESCE((
			SELECT SUM(ss.quantity) FROM store_stocks ss
			WHERE ss.product_id = hq_stocks.product_id
		), 0)`
	if productID != nil {
		return db.Exec(q+" WHERE product_id = ?", *productID).Error
	}
	return db.Exec(q).Error
}
