package pos

import (
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

// resolveStoreID picks the target store: store owners always act on their
// own store, headquarters callers must name one.
func resolveStoreID(c *fiber.Ctx, bodyStoreID *uint) (uint, error) {
	claims, err := auth.Claims(c)
	if err != nil {
		return 0, err
	}

	if claims.Role == models.RoleStore {
		if claims.StoreID == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "no store bound to this account")
		}
		return *claims.StoreID, nil
	}

	if bodyStoreID == nil || *bodyStoreID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id is required")
	}
	return *bodyStoreID, nil
}

func resolveStoreIDFromQuery(c *fiber.Ctx) (uint, error) {
	claims, err := auth.Claims(c)
	if err != nil {
		return 0, err
	}

	if claims.Role == models.RoleStore {
		if claims.StoreID == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "no store bound to this account")
		}
		return *claims.StoreID, nil
	}

	sid := c.QueryInt("store_id", 0)
	if sid <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id is required")
	}
	return uint(sid), nil
}

type CreateTransactionRequest struct {
	StoreID       *uint  `json:"store_id"` // headquarters callers only
	EmployeeID    *uint  `json:"employee_id"`
	PartTimerID   *uint  `json:"part_timer_id"`
	TotalPrice    int    `json:"total_price"`
	DiscountTotal int    `json:"discount_total"`
	PaymentMethod string `json:"payment_method"`
	PaidAt        string `json:"paid_at"` // RFC3339, defaults to now
}

// POST /api/pos/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		storeID, err := resolveStoreID(c, body.StoreID)
		if err != nil {
			return err
		}

		if body.TotalPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "total_price must be positive")
		}
		if body.DiscountTotal < 0 || body.DiscountTotal > body.TotalPrice {
			return fiber.NewError(fiber.StatusBadRequest, "discount_total out of range")
		}

		method := models.PaymentMethod(body.PaymentMethod)
		if method != models.PaymentCash && method != models.PaymentCard {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method must be CASH or CARD")
		}

		paidAt := time.Now()
		if body.PaidAt != "" {
			paidAt, err = time.Parse(time.RFC3339, body.PaidAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "paid_at must be RFC3339")
			}
		}

		var store models.Store
		if err := database.DB.First(&store, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "store not found")
		}

		tx := models.SalesTransaction{
			StoreID:       storeID,
			EmployeeID:    body.EmployeeID,
			PartTimerID:   body.PartTimerID,
			TotalPrice:    body.TotalPrice,
			DiscountTotal: body.DiscountTotal,
			PaymentMethod: method,
			Status:        models.TransactionPaid,
			PaidAt:        paidAt,
		}
		if err := database.DB.Create(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not save transaction")
		}
		return c.Status(fiber.StatusCreated).JSON(tx)
	}
}

type RefundRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// POST /api/pos/transactions/:id/refund
// A paid transaction may be refunded once; everything but the refund
// fields stays immutable.
func RefundTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
		}

		var body RefundRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var tx models.SalesTransaction
		if err := database.DB.First(&tx, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}

		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}
		if !claims.Role.CanActForStore(claims.StoreID, tx.StoreID) {
			return fiber.NewError(fiber.StatusForbidden, "transaction belongs to another store")
		}

		if tx.Status == models.TransactionRefunded {
			return fiber.NewError(fiber.StatusConflict, "transaction is already refunded")
		}
		if body.Amount <= 0 || body.Amount > tx.TotalPrice {
			return fiber.NewError(fiber.StatusBadRequest, "refund amount out of range")
		}

		now := time.Now()
		updates := map[string]any{
			"status":        models.TransactionRefunded,
			"refund_amount": body.Amount,
			"refund_reason": body.Reason,
			"refunded_at":   now,
		}
		if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not refund transaction")
		}
		return c.JSON(tx)
	}
}

// GET /api/pos/transactions?store_id=&from=&to=
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("store_id = ?", storeID)
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			q = q.Where("paid_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			q = q.Where("paid_at < ?", t.AddDate(0, 0, 1))
		}

		var txs []models.SalesTransaction
		if err := q.Order("paid_at DESC").Limit(500).Find(&txs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list transactions")
		}
		return c.JSON(txs)
	}
}
