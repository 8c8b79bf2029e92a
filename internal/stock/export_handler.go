package stock

import (
	"fmt"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/export"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stock/export[?presign=true]
// Streams the stock overview as xlsx, or stores it and returns a
// time-limited download URL when presign is requested.
func ExportHandler(store *storage.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := querySummaryRows(c, 10000)
		if err != nil {
			return err
		}

		sheet := export.Sheet{
			Name:    "Stock",
			Headers: []string{"Product ID", "Product", "Barcode", "Store", "Store Qty", "Warehouse Qty", "Total Qty", "Last In", "Promo"},
		}
		for _, r := range rows {
			lastIn := ""
			if r.LastInAt != nil {
				lastIn = r.LastInAt.Format("2006-01-02 15:04")
			}
			sheet.Rows = append(sheet.Rows, []any{
				r.ProductID, r.ProductName, r.Barcode, r.StoreName,
				r.StoreQuantity, r.WarehouseQuantity, r.TotalQuantity,
				lastIn, models.PromoStatus(r.PromoStatus).Text(),
			})
		}

		data, err := export.Build(sheet)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build excel file")
		}

		filename := export.Filename("stocks", time.Now())

		if c.QueryBool("presign") {
			key := "exports/" + filename
			if err := store.UploadBytes(c.Context(), key, data, export.ContentTypeXLSX); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not store export")
			}
			url, err := store.PresignedURL(c.Context(), key)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not presign export")
			}
			return c.JSON(fiber.Map{"url": url, "filename": filename})
		}

		c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(data)
	}
}
