package stock

import (
	"errors"
	"log"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TransferRequest struct {
	StoreID   uint                     `json:"store_id"`
	ProductID uint                     `json:"product_id"`
	Quantity  int                      `json:"quantity"`
	Direction models.TransferDirection `json:"direction"`
}

// POST /api/stock/transfers — move quantity between back room and shelf.
func TransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var body TransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.StoreID == 0 || body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "store_id and product_id are required")
		}
		if body.Quantity < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}
		switch body.Direction {
		case models.TransferToStore, models.TransferToWarehouse:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid direction")
		}

		if !claims.Role.CanActForStore(claims.StoreID, body.StoreID) {
			return fiber.NewError(fiber.StatusForbidden, "stock belongs to another store")
		}

		transfer, err := Transfer(database.DB, body.StoreID, body.ProductID, body.Quantity, body.Direction, claims.Name)
		if err != nil {
			switch {
			case errors.Is(err, ErrStockNotFound):
				return fiber.NewError(fiber.StatusNotFound, "no source stock for this store and product")
			case errors.Is(err, ErrInsufficientStock):
				return fiber.NewError(fiber.StatusBadRequest, "not enough quantity to transfer")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "could not transfer stock")
			}
		}

		if err := RecalculateAllHQ(database.DB); err != nil {
			log.Printf("stock: hq recompute after transfer failed: %v", err)
		}
		return c.Status(fiber.StatusCreated).JSON(transfer)
	}
}

// GET /api/stock/transfers?store_id=&product_id=&page=&size=
func ListTransfersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.StockTransfer{})

		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id"); sid > 0 {
			q = q.Where("store_id = ?", sid)
		}
		if pid := c.QueryInt("product_id"); pid > 0 {
			q = q.Where("product_id = ?", pid)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count transfers")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var rows []models.StockTransfer
		if err := q.Order("created_at DESC").
			Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list transfers")
		}

		return c.JSON(fiber.Map{
			"content": rows,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}
