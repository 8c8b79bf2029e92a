package product

import (
	"errors"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name         string             `json:"name"`
	Barcode      int64              `json:"barcode"`
	CategoryName string             `json:"category_name"`
	SellPrice    int                `json:"sell_price"`
	CostPrice    int                `json:"cost_price"`
	PromoStatus  models.PromoStatus `json:"promo_status"`
	ExpireHours  int                `json:"expire_hours"`
	ImgURL       string             `json:"img_url"`
}

func (r *ProductRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if r.Barcode <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "barcode must be positive")
	}
	if r.SellPrice < 0 || r.CostPrice < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "prices must not be negative")
	}
	switch r.PromoStatus {
	case "", models.PromoNone, models.PromoDiscontinued, models.PromoOnePlusOne, models.PromoTwoPlusOne:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid promo_status")
	}
	if r.ExpireHours < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "expire_hours must not be negative")
	}
	return nil
}

// GET /api/products?keyword=&category=&promo_status=&page=&size=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Product{})

		if kw := c.Query("keyword"); kw != "" {
			q = q.Where("name ILIKE ?", "%"+kw+"%")
		}
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category_name = ?", cat)
		}
		if promo := c.Query("promo_status"); promo != "" {
			q = q.Where("promo_status = ?", promo)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count products")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var products []models.Product
		if err := q.Order("id").Offset((page - 1) * size).Limit(size).Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list products")
		}

		return c.JSON(fiber.Map{
			"content": products,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}

// GET /api/products/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load product")
		}
		return c.JSON(product)
	}
}

// POST /api/products (headquarters only)
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("barcode = ?", body.Barcode).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "barcode already registered")
		}

		product := models.Product{
			Name:         body.Name,
			Barcode:      body.Barcode,
			CategoryName: body.CategoryName,
			SellPrice:    body.SellPrice,
			CostPrice:    body.CostPrice,
			PromoStatus:  body.PromoStatus,
			ExpireHours:  body.ExpireHours,
			ImgURL:       body.ImgURL,
		}
		if product.PromoStatus == "" {
			product.PromoStatus = models.PromoNone
		}
		if product.ExpireHours == 0 {
			product.ExpireHours = 72
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create product")
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/products/:id (headquarters only)
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load product")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		if body.Barcode != product.Barcode {
			var count int64
			database.DB.Model(&models.Product{}).
				Where("barcode = ? AND id <> ?", body.Barcode, product.ID).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "barcode already registered")
			}
		}

		product.Name = body.Name
		product.Barcode = body.Barcode
		product.CategoryName = body.CategoryName
		product.SellPrice = body.SellPrice
		product.CostPrice = body.CostPrice
		if body.PromoStatus != "" {
			product.PromoStatus = body.PromoStatus
		}
		if body.ExpireHours > 0 {
			product.ExpireHours = body.ExpireHours
		}
		if body.ImgURL != "" {
			product.ImgURL = body.ImgURL
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update product")
		}
		return c.JSON(product)
	}
}

// DELETE /api/products/:id (headquarters only)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load product")
		}

		var stockCount int64
		database.DB.Model(&models.StoreStock{}).Where("product_id = ?", product.ID).Count(&stockCount)
		if stockCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "product still has store stock")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete product")
		}
		return c.JSON(fiber.Map{"message": "product deleted"})
	}
}

// POST /api/products/:id/image (multipart field "image")
func UploadImageHandler(store *storage.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.Claims(c); err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load product")
		}

		file, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image file is required")
		}

		src, err := file.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read image file")
		}
		defer src.Close()

		key, err := store.UploadImage(c.Context(), src, file.Size, file.Header.Get("Content-Type"), "products", file.Filename)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not upload image")
		}

		url, err := store.PresignedURL(c.Context(), key)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not presign image")
		}

		product.ImgURL = key
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not save image key")
		}

		return c.JSON(fiber.Map{"key": key, "url": url})
	}
}
