package store

import (
	"errors"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// GET /api/stores
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Store{})
		if kw := c.Query("keyword"); kw != "" {
			q = q.Where("name ILIKE ? OR address ILIKE ?", "%"+kw+"%", "%"+kw+"%")
		}

		var stores []models.Store
		if err := q.Order("id").Find(&stores).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list stores")
		}
		return c.JSON(stores)
	}
}

// GET /api/stores/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid store id")
		}

		var row models.Store
		if err := database.DB.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "store not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load store")
		}
		return c.JSON(row)
	}
}

// POST /api/stores (headquarters only)
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		var count int64
		database.DB.Model(&models.Store{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "store name already taken")
		}

		row := models.Store{Name: body.Name, Address: body.Address, Phone: body.Phone}
		if err := database.DB.Create(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create store")
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// PUT /api/stores/:id (headquarters only)
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid store id")
		}

		var row models.Store
		if err := database.DB.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "store not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load store")
		}

		var body StoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != "" && body.Name != row.Name {
			var count int64
			database.DB.Model(&models.Store{}).
				Where("name = ? AND id <> ?", body.Name, row.ID).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "store name already taken")
			}
			row.Name = body.Name
		}
		if body.Address != "" {
			row.Address = body.Address
		}
		if body.Phone != "" {
			row.Phone = body.Phone
		}

		if err := database.DB.Save(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update store")
		}
		return c.JSON(row)
	}
}

// DELETE /api/stores/:id (headquarters only). A store with employees,
// stock or transactions stays.
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid store id")
		}

		var row models.Store
		if err := database.DB.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "store not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load store")
		}

		var count int64
		database.DB.Model(&models.Employee{}).Where("store_id = ?", row.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "store still has employees")
		}
		database.DB.Model(&models.StoreStock{}).Where("store_id = ?", row.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "store still has stock")
		}
		database.DB.Model(&models.SalesTransaction{}).Where("store_id = ?", row.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "store still has transactions")
		}

		if err := database.DB.Delete(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete store")
		}
		return c.JSON(fiber.Map{"message": "store deleted"})
	}
}
