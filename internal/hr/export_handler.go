package hr

import (
	"fmt"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/export"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/hr/employees/export
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Employee{}).Preload("Store")
		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_id = ?", *claims.StoreID)
		}

		var employees []models.Employee
		if err := q.Order("id").Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list employees")
		}

		sheet := export.Sheet{
			Name:    "Employees",
			Headers: []string{"ID", "Name", "Email", "Role", "Department", "Store", "Phone", "Joined"},
		}
		for _, e := range employees {
			storeName := ""
			if e.Store != nil {
				storeName = e.Store.Name
			}
			sheet.Rows = append(sheet.Rows, []any{
				e.ID, e.Name, e.Email, string(e.Role), e.DeptID, storeName,
				e.Phone, e.CreatedAt.Format("2006-01-02"),
			})
		}

		data, err := export.Build(sheet)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build excel file")
		}

		filename := export.Filename("employees", time.Now())
		c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(data)
	}
}
