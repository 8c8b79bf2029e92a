package notification

import (
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications
// Most recent 20 notifications for the caller.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var items []models.Notification
		if err := database.DB.
			Where("employee_id = ?", claims.EmpID).
			Order("created_at DESC").
			Limit(20).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list notifications")
		}
		return c.JSON(items)
	}
}

// GET /api/notifications/unread-count
func UnreadCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var count int64
		database.DB.Model(&models.Notification{}).
			Where("employee_id = ? AND is_read = false", claims.EmpID).
			Count(&count)
		return c.JSON(fiber.Map{"count": count})
	}
}

// PATCH /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
		}

		var n models.Notification
		if err := database.DB.First(&n, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}
		if n.EmployeeID != claims.EmpID {
			return fiber.NewError(fiber.StatusForbidden, "not your notification")
		}

		if err := database.DB.Model(&n).Update("is_read", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update notification")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PATCH /api/notifications/read-all
func MarkAllReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		if err := database.DB.Model(&models.Notification{}).
			Where("employee_id = ? AND is_read = false", claims.EmpID).
			Update("is_read", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update notifications")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
