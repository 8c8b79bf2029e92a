package disposal

import (
	"errors"
	"log"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/stock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TargetRow struct {
	StoreStockID uint       `json:"store_stock_id"`
	StoreID      uint       `json:"store_id"`
	StoreName    string     `json:"store_name"`
	ProductID    uint       `json:"product_id"`
	ProductName  string     `json:"product_name"`
	Quantity     int        `json:"quantity"`
	LastInAt     *time.Time `json:"last_in_at"`
	ExpireHours  int        `json:"expire_hours"`
}

// GET /api/disposals/targets[?store_id] — store-stock rows whose shelf life
// has run out since the last stock-in.
func TargetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Table("store_stocks").
			Select(`store_stocks.id AS store_stock_id, store_stocks.store_id, stores.name AS store_name,
				store_stocks.product_id, products.name AS product_name,
				store_stocks.quantity, store_stocks.last_in_at, products.expire_hours`).
			Joins("JOIN products ON products.id = store_stocks.product_id").
			Joins("JOIN stores ON stores.id = store_stocks.store_id").
			Where("store_stocks.quantity > 0").
			Where("store_stocks.last_in_at IS NOT NULL").
			Where("store_stocks.last_in_at + make_interval(hours => products.expire_hours) <= ?", time.Now())

		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_stocks.store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id"); sid > 0 {
			q = q.Where("store_stocks.store_id = ?", sid)
		}

		var rows []TargetRow
		if err := q.Order("store_stocks.last_in_at").Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not query disposal targets")
		}
		return c.JSON(rows)
	}
}

type DisposeRequest struct {
	StoreStockID uint   `json:"store_stock_id"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason"`
}

// POST /api/disposals — decrement the store stock and record the disposal.
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var body DisposeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.StoreStockID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "store_stock_id is required")
		}
		if body.Quantity < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}
		if body.Reason == "" {
			body.Reason = "expired"
		}

		var row models.Disposal
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var stockRow models.StoreStock
			if err := tx.Preload("Product").First(&stockRow, body.StoreStockID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "store stock not found")
				}
				return err
			}
			if !claims.Role.CanActForStore(claims.StoreID, stockRow.StoreID) {
				return fiber.NewError(fiber.StatusForbidden, "stock belongs to another store")
			}
			if body.Quantity > stockRow.Quantity {
				return fiber.NewError(fiber.StatusBadRequest, "quantity exceeds current stock")
			}
			if body.Reason == "expired" && !Expired(stockRow.LastInAt, stockRow.Product.ExpireHours, time.Now()) {
				return fiber.NewError(fiber.StatusBadRequest, "stock has not passed its shelf life")
			}

			if err := tx.Model(&stockRow).
				Update("quantity", stockRow.Quantity-body.Quantity).Error; err != nil {
				return err
			}

			row = models.Disposal{
				StoreStockID: stockRow.ID,
				ProductID:    stockRow.ProductID,
				ProductName:  stockRow.Product.Name,
				Quantity:     body.Quantity,
				Reason:       body.Reason,
				DisposedAt:   time.Now(),
			}
			return tx.Create(&row).Error
		})
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not record disposal")
		}

		if err := stock.RecalculateAllHQ(database.DB); err != nil {
			log.Printf("disposal: hq stock recompute failed: %v", err)
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// GET /api/disposals?keyword=&from=&to=&store_id=&page=&size=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Disposal{}).
			Joins("JOIN store_stocks ON store_stocks.id = disposals.store_stock_id")

		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_stocks.store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id"); sid > 0 {
			q = q.Where("store_stocks.store_id = ?", sid)
		}

		if kw := c.Query("keyword"); kw != "" {
			q = q.Where("disposals.product_name ILIKE ?", "%"+kw+"%")
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			}
			q = q.Where("disposals.disposed_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			}
			q = q.Where("disposals.disposed_at < ?", t.AddDate(0, 0, 1))
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count disposals")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var rows []models.Disposal
		if err := q.Order("disposals.disposed_at DESC").
			Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list disposals")
		}

		return c.JSON(fiber.Map{
			"content": rows,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}

// DELETE /api/disposals/:id — cancel: restore the quantity to the source
// store stock and remove the record. A second cancel finds nothing.
func CancelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid disposal id")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var row models.Disposal
			if err := tx.First(&row, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "disposal not found")
				}
				return err
			}

			var stockRow models.StoreStock
			if err := tx.First(&stockRow, row.StoreStockID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusConflict, "source store stock no longer exists")
				}
				return err
			}
			if !claims.Role.CanActForStore(claims.StoreID, stockRow.StoreID) {
				return fiber.NewError(fiber.StatusForbidden, "disposal belongs to another store")
			}

			if err := tx.Model(&stockRow).
				Update("quantity", stockRow.Quantity+row.Quantity).Error; err != nil {
				return err
			}
			return tx.Delete(&row).Error
		})
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not cancel disposal")
		}

		if err := stock.RecalculateAllHQ(database.DB); err != nil {
			log.Printf("disposal: hq stock recompute failed: %v", err)
		}
		return c.JSON(fiber.Map{"message": "disposal cancelled"})
	}
}
