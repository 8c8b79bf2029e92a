package product

import (
	"fmt"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/export"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/products/export
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("id").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list products")
		}

		sheet := export.Sheet{
			Name:    "Products",
			Headers: []string{"ID", "Name", "Barcode", "Category", "Sell Price", "Cost Price", "Promo", "Expire Hours"},
		}
		for _, p := range products {
			sheet.Rows = append(sheet.Rows, []any{
				p.ID, p.Name, p.Barcode, p.CategoryName,
				p.SellPrice, p.CostPrice, p.PromoStatus.Text(), p.ExpireHours,
			})
		}

		data, err := export.Build(sheet)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build excel file")
		}

		filename := export.Filename("products", time.Now())
		c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(data)
	}
}
