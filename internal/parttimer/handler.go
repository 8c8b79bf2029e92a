package parttimer

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PartTimerRequest struct {
	StoreID       uint   `json:"store_id"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Position      string `json:"position"`
	WorkType      string `json:"work_type"`
	SalaryType    string `json:"salary_type"`
	HourlyWage    int    `json:"hourly_wage"`
	AccountBank   string `json:"account_bank"`
	AccountNumber string `json:"account_number"`
	DeviceID      string `json:"device_id"`
	DeviceName    string `json:"device_name"`
	HireDate      string `json:"hire_date"` // YYYY-MM-DD
}

// GET /api/parttimers?store_id=&keyword=&status=&page=&size=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.PartTimer{})

		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id"); sid > 0 {
			q = q.Where("store_id = ?", sid)
		}

		if kw := c.Query("keyword"); kw != "" {
			q = q.Where("name ILIKE ? OR phone ILIKE ?", "%"+kw+"%", "%"+kw+"%")
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count part-timers")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var rows []models.PartTimer
		if err := q.Order("id").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list part-timers")
		}

		return c.JSON(fiber.Map{
			"content": rows,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}

func loadOwnedPartTimer(c *fiber.Ctx) (*models.PartTimer, error) {
	claims, err := auth.Claims(c)
	if err != nil {
		return nil, err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid part-timer id")
	}

	var row models.PartTimer
	if err := database.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "part-timer not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not load part-timer")
	}
	if !claims.Role.CanActForStore(claims.StoreID, row.StoreID) {
		return nil, fiber.NewError(fiber.StatusForbidden, "part-timer belongs to another store")
	}
	return &row, nil
}

// GET /api/parttimers/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, err := loadOwnedPartTimer(c)
		if err != nil {
			return err
		}
		return c.JSON(row)
	}
}

// POST /api/parttimers
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var body PartTimerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.StoreID == 0 {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "store_id is required")
			}
			body.StoreID = *claims.StoreID
		}
		if !claims.Role.CanActForStore(claims.StoreID, body.StoreID) {
			return fiber.NewError(fiber.StatusForbidden, "cannot register for another store")
		}

		hireDate := time.Now()
		if body.HireDate != "" {
			t, err := time.Parse("2006-01-02", body.HireDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid hire_date, expected YYYY-MM-DD")
			}
			hireDate = t
		}

		row := models.PartTimer{
			StoreID:       body.StoreID,
			Name:          body.Name,
			Gender:        body.Gender,
			Phone:         body.Phone,
			Address:       body.Address,
			Position:      body.Position,
			WorkType:      body.WorkType,
			SalaryType:    body.SalaryType,
			HourlyWage:    body.HourlyWage,
			AccountBank:   body.AccountBank,
			AccountNumber: body.AccountNumber,
			Status:        models.PartTimerActive,
			DeviceID:      body.DeviceID,
			DeviceName:    body.DeviceName,
			HireDate:      hireDate,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create part-timer")
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// PUT /api/parttimers/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, err := loadOwnedPartTimer(c)
		if err != nil {
			return err
		}

		var body PartTimerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != "" {
			row.Name = body.Name
		}
		if body.Gender != "" {
			row.Gender = body.Gender
		}
		if body.Phone != "" {
			row.Phone = body.Phone
		}
		if body.Address != "" {
			row.Address = body.Address
		}
		if body.Position != "" {
			row.Position = body.Position
		}
		if body.WorkType != "" {
			row.WorkType = body.WorkType
		}
		if body.SalaryType != "" {
			row.SalaryType = body.SalaryType
		}
		if body.HourlyWage > 0 {
			row.HourlyWage = body.HourlyWage
		}
		if body.AccountBank != "" {
			row.AccountBank = body.AccountBank
		}
		if body.AccountNumber != "" {
			row.AccountNumber = body.AccountNumber
		}
		if body.DeviceID != "" {
			row.DeviceID = body.DeviceID
			row.DeviceName = body.DeviceName
		}

		if err := database.DB.Save(row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update part-timer")
		}
		return c.JSON(row)
	}
}

// PATCH /api/parttimers/:id/resign
func ResignHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, err := loadOwnedPartTimer(c)
		if err != nil {
			return err
		}
		if row.Status == models.PartTimerResigned {
			return fiber.NewError(fiber.StatusConflict, "part-timer already resigned")
		}

		now := time.Now()
		row.Status = models.PartTimerResigned
		row.ResignDate = &now
		if err := database.DB.Save(row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update part-timer")
		}
		return c.JSON(row)
	}
}

// DELETE /api/parttimers/:id — removes attendance rows and the stored
// photo before the part-timer itself.
func DeleteHandler(store *storage.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, err := loadOwnedPartTimer(c)
		if err != nil {
			return err
		}

		if row.ImgURL != "" {
			if err := store.Delete(c.Context(), row.ImgURL); err != nil {
				log.Printf("parttimer: could not delete photo %s: %v", row.ImgURL, err)
			}
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("part_timer_id = ?", row.ID).Delete(&models.Attendance{}).Error; err != nil {
				return err
			}
			if err := tx.Where("part_timer_id = ?", row.ID).Delete(&models.ShiftSchedule{}).Error; err != nil {
				return err
			}
			return tx.Delete(row).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete part-timer")
		}
		return c.JSON(fiber.Map{"message": "part-timer deleted"})
	}
}

// POST /api/parttimers/:id/image (multipart field "image")
func UploadImageHandler(store *storage.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, err := loadOwnedPartTimer(c)
		if err != nil {
			return err
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

		key, err := store.UploadImage(c.Context(), src, file.Size, file.Header.Get("Content-Type"), "parttimers", file.Filename)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not upload image")
		}

		if row.ImgURL != "" {
			if err := store.Delete(c.Context(), row.ImgURL); err != nil {
				log.Printf("parttimer: could not delete old photo %s: %v", row.ImgURL, err)
			}
		}

		url, err := store.PresignedURL(c.Context(), key)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not presign image")
		}

		row.ImgURL = key
		if err := database.DB.Save(row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not save image key")
		}
		return c.JSON(fiber.Map{"key": key, "url": url})
	}
}
