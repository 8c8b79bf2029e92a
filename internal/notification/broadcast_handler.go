package notification

import (
	"log"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BroadcastRequest struct {
	TargetDeptID int    `json:"target_dept_id"`
	EventType    string `json:"event_type"`
	Type         string `json:"type"`
	Content      string `json:"content"`
	Link         string `json:"link"`
}

// POST /api/notifications/broadcast (headquarters only) — create one
// notification per employee of the target department. Employees outside the
// department policy for the event are skipped, not an error.
func BroadcastHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BroadcastRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Content) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content is required")
		}
		if body.EventType == "" {
			body.EventType = models.EventNotice
		}
		if body.Type == "" {
			body.Type = "INFO"
		}
		if body.TargetDeptID < models.DeptStoreSupport || body.TargetDeptID > models.DeptHQMax {
			return fiber.NewError(fiber.StatusBadRequest, "target_dept_id out of range")
		}

		var employees []models.Employee
		if err := database.DB.Where("dept_id = ?", body.TargetDeptID).Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list department employees")
		}

		created := 0
		for _, emp := range employees {
			dept := body.TargetDeptID
			if _, err := svc.Create(emp.ID, &dept, body.EventType, body.Type, body.Content, body.Link); err != nil {
				log.Printf("notification: broadcast to employee %d skipped: %v", emp.ID, err)
				continue
			}
			created++
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"target_dept_id": body.TargetDeptID,
			"created":        created,
		})
	}
}
