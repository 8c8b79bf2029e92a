package stock

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Integration test against a real Postgres. Set TEST_DATABASE_DSN to run,
// e.g. "host=localhost user=postgres dbname=erp_test sslmode=disable".
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.Product{}, &models.StoreStock{},
		&models.WarehouseStock{}, &models.HQStock{}, &models.StockAdjustLog{},
		&models.StockTransfer{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM stock_transfers")
		db.Exec("DELETE FROM stock_adjust_logs")
		db.Exec("DELETE FROM store_stocks")
		db.Exec("DELETE FROM warehouse_stocks")
		db.Exec("DELETE FROM hq_stocks")
		db.Exec("DELETE FROM products")
		db.Exec("DELETE FROM stores")
	})
	return db
}

func TestAdjustStock(t *testing.T) {
	db := openTestDB(t)

	store := models.Store{Name: "Gangnam 1"}
	if err := db.Create(&store).Error; err != nil {
		t.Fatal(err)
	}
	product := models.Product{Name: "Milk", Barcode: 8801234567890, SellPrice: 1500, CostPrice: 900, PromoStatus: models.PromoNone, ExpireHours: 72}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	stockRow := models.StoreStock{StoreID: store.ID, ProductID: product.ID, Quantity: 10, LastInAt: &now}
	if err := db.Create(&stockRow).Error; err != nil {
		t.Fatal(err)
	}
	hq := models.HQStock{ProductID: product.ID, Quantity: 0, TotalQuantity: 100}
	if err := db.Create(&hq).Error; err != nil {
		t.Fatal(err)
	}

	logRow, err := AdjustStock(db, store.ID, product.ID, 7, "Lee Hana", "shelf count")
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if logRow.PrevQuantity != 10 || logRow.NewQuantity != 7 || logRow.AdjustedBy != "Lee Hana" {
		t.Errorf("log row = %+v", logRow)
	}

	var reloaded models.StoreStock
	if err := db.First(&reloaded, stockRow.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Quantity != 7 {
		t.Errorf("store quantity = %d, want 7", reloaded.Quantity)
	}

	// HQ quantity is derived: total minus the sum of store quantities.
	var hqReloaded models.HQStock
	if err := db.Where("product_id = ?", product.ID).First(&hqReloaded).Error; err != nil {
		t.Fatal(err)
	}
	if hqReloaded.Quantity != 93 {
		t.Errorf("hq quantity = %d, want 93", hqReloaded.Quantity)
	}

	var logCount int64
	db.Model(&models.StockAdjustLog{}).Where("store_id = ?", store.ID).Count(&logCount)
	if logCount != 1 {
		t.Errorf("log count = %d, want 1", logCount)
	}
}

func TestTransfer(t *testing.T) {
	db := openTestDB(t)

	store := models.Store{Name: "Gangnam 2"}
	if err := db.Create(&store).Error; err != nil {
		t.Fatal(err)
	}
	product := models.Product{Name: "Yogurt", Barcode: 8801234567891, SellPrice: 2000, CostPrice: 1100, PromoStatus: models.PromoNone, ExpireHours: 48}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	warehouse := models.WarehouseStock{StoreID: store.ID, ProductID: product.ID, Quantity: 20}
	if err := db.Create(&warehouse).Error; err != nil {
		t.Fatal(err)
	}
	hq := models.HQStock{ProductID: product.ID, Quantity: 0, TotalQuantity: 50}
	if err := db.Create(&hq).Error; err != nil {
		t.Fatal(err)
	}

	transfer, err := Transfer(db, store.ID, product.ID, 8, models.TransferToStore, "Lee Hana")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if transfer.Direction != models.TransferToStore || transfer.Quantity != 8 {
		t.Errorf("transfer row = %+v", transfer)
	}

	var warehouseReloaded models.WarehouseStock
	if err := db.First(&warehouseReloaded, warehouse.ID).Error; err != nil {
		t.Fatal(err)
	}
	if warehouseReloaded.Quantity != 12 {
		t.Errorf("warehouse quantity = %d, want 12", warehouseReloaded.Quantity)
	}

	var stockRow models.StoreStock
	if err := db.Where("store_id = ? AND product_id = ?", store.ID, product.ID).First(&stockRow).Error; err != nil {
		t.Fatal(err)
	}
	if stockRow.Quantity != 8 {
		t.Errorf("store quantity = %d, want 8", stockRow.Quantity)
	}
	if stockRow.LastInAt == nil {
		t.Error("transfer into the store should stamp last_in_at")
	}

	var hqReloaded models.HQStock
	if err := db.Where("product_id = ?", product.ID).First(&hqReloaded).Error; err != nil {
		t.Fatal(err)
	}
	if hqReloaded.Quantity != 42 {
		t.Errorf("hq quantity = %d, want 42", hqReloaded.Quantity)
	}

	// Sending back more than the store holds must fail without touching rows.
	if _, err := Transfer(db, store.ID, product.ID, 99, models.TransferToWarehouse, "Lee Hana"); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("err = %v, want ErrInsufficientStock", err)
	}

	if _, err := Transfer(db, store.ID, product.ID, 3, models.TransferToWarehouse, "Lee Hana"); err != nil {
		t.Fatalf("Transfer back: %v", err)
	}
	if err := db.First(&warehouseReloaded, warehouse.ID).Error; err != nil {
		t.Fatal(err)
	}
	if warehouseReloaded.Quantity != 15 {
		t.Errorf("warehouse quantity after return = %d, want 15", warehouseReloaded.Quantity)
	}
}

func TestAdjustStockMissingRow(t *testing.T) {
	db := openTestDB(t)

	if _, err := AdjustStock(db, 9999, 9999, 5, "nobody", ""); !errors.Is(err, ErrStockNotFound) {
		t.Errorf("err = %v, want ErrStockNotFound", err)
	}
}
