package stock

import (
	"errors"
	"log"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

// / SummaryRow is one line of the stock overview: store shelf plus warehouse
// quantity per (store, product).
type SummaryRow struct {
	ProductID         uint       `json:"product_id"`
	ProductName       string     `json:"product_name"`
	Barcode           int64      `json:"barcode"`
	StoreID           uint       `json:"store_id"`
	StoreName         string     `json:"store_name"`
	StoreQuantity     int        `json:"store_quantity"`
	WarehouseQuantity int        `json:"warehouse_quantity"`
	TotalQuantity     int        `json:"total_quantity"`
	LastInAt          *time.Time `json:"last_in_at"`
	PromoStatus       string     `json:"promo_status"`
}

func querySummaryRows(c *fiber.Ctx, limit int) ([]SummaryRow, error) {
	claims, err := auth.Claims(c)
	if err != nil {
		return nil, err
	}

	q := database.DB.Table("store_stocks ss").
		Select(`ss.product_id, p.name AS product_name, p.barcode,
			ss.store_id, s.name AS store_name,
			ss.quantity AS store_quantity,
			COALESCE(ws.quantity, 0) AS warehouse_quantity,
			ss.quantity + COALESCE(ws.quantity, 0) AS total_quantity,
			ss.last_in_at, p.promo_status`).
		Joins("JOIN products p ON p.id = ss.product_id").
		Joins("JOIN stores s ON s.id = ss.store_id").
		Joins("LEFT JOIN warehouse_stocks ws ON ws.store_id = ss.store_id AND ws.product_id = ss.product_id")

	// Store owners only ever see their own store.
	if claims.Role == models.RoleStore {
		if claims.StoreID == nil {
			return nil, fiber.NewError(fiber.StatusForbidden, "no store bound to this account")
		}
		q = q.Where("ss.store_id = ?", *claims.StoreID)
	} else if sid := c.QueryInt("store_id", 0); sid > 0 {
		q = q.Where("ss.store_id = ?", sid)
	}

	if name := c.Query("product_name"); name != "" {
		q = q.Where("p.name ILIKE ?", "%"+name+"%")
	}
	if barcode := c.QueryInt("barcode", 0); barcode > 0 {
		q = q.Where("p.barcode = ?", barcode)
	}

	var rows []SummaryRow
	if err := q.Order("p.name ASC, s.name ASC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not load stock summary")
	}
	return rows, nil
}

// GET /api/stock/summary?store_id=&product_name=&barcode=&page=&size=
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := querySummaryRows(c, 1000)
		if err != nil {
			return err
		}

		page := c.QueryInt("page", 0)
		size := c.QueryInt("size", 20)
		if size <= 0 || size > 100 {
			size = 20
		}
		start := page * size
		if start > len(rows) {
			start = len(rows)
		}
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}

		return c.JSON(fiber.Map{
			"total":   len(rows),
			"page":    page,
			"size":    size,
			"content": rows[start:end],
		})
	}
}

// GET /api/stock/detail?store_id=&product_id=
// Store, warehouse and headquarters quantities for one product.
func DetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		storeID := uint(c.QueryInt("store_id", 0))
		productID := uint(c.QueryInt("product_id", 0))
		if storeID == 0 || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "store_id and product_id are required")
		}
		if !claims.Role.CanActForStore(claims.StoreID, storeID) {
			return fiber.NewError(fiber.StatusForbidden, "stock belongs to another store")
		}

		var product models.Product
		if err := database.DB.First(&product, productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		var storeStock models.StoreStock
		storeQty, locationCode := 0, ""
		var lastInAt *time.Time
		if err := database.DB.Where("store_id = ? AND product_id = ?", storeID, productID).
			First(&storeStock).Error; err == nil {
			storeQty = storeStock.Quantity
			locationCode = storeStock.LocationCode
			lastInAt = storeStock.LastInAt
		}

		var warehouseStock models.WarehouseStock
		warehouseQty := 0
		if err := database.DB.Where("store_id = ? AND product_id = ?", storeID, productID).
			First(&warehouseStock).Error; err == nil {
			warehouseQty = warehouseStock.Quantity
		}

		var hq models.HQStock
		hqQty := 0
		if err := database.DB.Where("product_id = ?", productID).First(&hq).Error; err == nil {
			hqQty = hq.Quantity
		}

		return c.JSON(fiber.Map{
			"product_name":       product.Name,
			"barcode":            product.Barcode,
			"promo_status":       product.PromoStatus,
			"store_quantity":     storeQty,
			"warehouse_quantity": warehouseQty,
			"hq_quantity":        hqQty,
			"location_code":      locationCode,
			"last_in_at":         lastInAt,
		})
	}
}

type ManualAdjustRequest struct {
	StoreID     uint   `json:"store_id"`
	ProductID   uint   `json:"product_id"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// PATCH /api/stock/manual-adjust
// Adjustment + log + HQ recompute of the adjusted product commit together;
// afterwards all other products get a best-effort recompute whose failure
// is logged and swallowed.
func ManualAdjustHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var body ManualAdjustRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.StoreID == 0 || body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "store_id and product_id are required")
		}
		if body.NewQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "new_quantity must not be negative")
		}

		if !claims.Role.CanActForStore(claims.StoreID, body.StoreID) {
			return fiber.NewError(fiber.StatusForbidden, "stock belongs to another store")
		}

		logRow, err := AdjustStock(database.DB, body.StoreID, body.ProductID, body.NewQuantity, claims.Name, body.Reason)
		if err != nil {
			if errors.Is(err, ErrStockNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stock record for this store and product")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not adjust stock")
		}

		// The adjustment is committed; a failed full recompute only leaves
		// other products' HQ aggregates stale until the next trigger.
		if err := RecalculateAllHQ(database.DB); err != nil {
			log.Printf("HQ stock recalculation after adjustment failed: %v", err)
		}

		return c.JSON(logRow)
	}
}

// GET /api/stock/adjust-log?from=&to=&adjusted_by=&product_name=&page=&size=
func AdjustLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.StockAdjustLog{}).Preload("Product").Preload("Store")

		if claims.Role == models.RoleStore {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store bound to this account")
			}
			q = q.Where("store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id", 0); sid > 0 {
			q = q.Where("store_id = ?", sid)
		}

		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			q = q.Where("adjust_date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			q = q.Where("adjust_date < ?", t.AddDate(0, 0, 1))
		}
		if by := c.Query("adjusted_by"); by != "" {
			q = q.Where("adjusted_by ILIKE ?", "%"+by+"%")
		}
		if name := c.Query("product_name"); name != "" {
			q = q.Joins("JOIN products p ON p.id = stock_adjust_logs.product_id").
				Where("p.name ILIKE ?", "%"+name+"%")
		}

		page := c.QueryInt("page", 0)
		size := c.QueryInt("size", 10)
		if size <= 0 || size > 100 {
			size = 10
		}

		var total int64
		q.Count(&total)

		var logs []models.StockAdjustLog
		if err := q.Order("adjust_date DESC").
			Offset(page * size).Limit(size).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load adjust logs")
		}

		return c.JSON(fiber.Map{
			"total":   total,
			"page":    page,
			"size":    size,
			"content": logs,
		})
	}
}
