package parttimer

import (
	"errors"
	"strings"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VerifyDeviceRequest struct {
	Phone      string `json:"phone"`
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
}

// POST /api/public/devices/verify — bind a phone to a device. Re-verifying
// the same pair refreshes the timestamp; a device already bound to another
// phone is rejected.
func VerifyDeviceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body VerifyDeviceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Phone) == "" || strings.TrimSpace(body.DeviceID) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone and device_id are required")
		}

		now := time.Now()

		var device models.VerifiedDevice
		err := database.DB.Where("device_id = ?", body.DeviceID).First(&device).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			device = models.VerifiedDevice{
				Phone:         body.Phone,
				DeviceID:      body.DeviceID,
				DeviceName:    body.DeviceName,
				VerifiedAt:    now,
				LastAttemptAt: now,
				AttemptCount:  1,
			}
			if err := database.DB.Create(&device).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not register device")
			}
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "could not look up device")
		default:
			if device.Phone != body.Phone {
				return fiber.NewError(fiber.StatusConflict, "device is bound to another phone")
			}
			device.VerifiedAt = now
			device.LastAttemptAt = now
			device.AttemptCount++
			if body.DeviceName != "" {
				device.DeviceName = body.DeviceName
			}
			if err := database.DB.Save(&device).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not refresh device")
			}
		}

		return c.JSON(fiber.Map{
			"phone":       device.Phone,
			"device_id":   device.DeviceID,
			"verified_at": device.VerifiedAt,
		})
	}
}
