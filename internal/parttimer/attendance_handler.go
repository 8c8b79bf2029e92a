package parttimer

import (
	"errors"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttendanceRequest struct {
	DeviceID string `json:"device_id"`
}

// resolveByDevice finds the active part-timer registered to the device
// named in the payload, after the header/payload device match.
func resolveByDevice(c *fiber.Ctx) (*models.PartTimer, error) {
	var body AttendanceRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if body.DeviceID == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "device_id is required")
	}
	if err := auth.CheckDevice(c, body.DeviceID); err != nil {
		return nil, err
	}

	var pt models.PartTimer
	err := database.DB.Where("device_id = ? AND status = ?", body.DeviceID, models.PartTimerActive).
		First(&pt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "no active part-timer for this device")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not look up part-timer")
	}
	return &pt, nil
}

// POST /api/public/attendance/check-in
func CheckInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pt, err := resolveByDevice(c)
		if err != nil {
			return err
		}

		now := time.Now()
		date := AttendanceDate(now)

		var count int64
		database.DB.Model(&models.Attendance{}).
			Where("part_timer_id = ? AND attend_date = ?", pt.ID, date).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "already checked in today")
		}

		var schedules []models.ShiftSchedule
		if err := database.DB.
			Where("part_timer_id = ? AND start_time >= ? AND start_time < ?", pt.ID, date, date.AddDate(0, 0, 1)).
			Find(&schedules).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load shift schedule")
		}

		row := models.Attendance{
			PartTimerID: pt.ID,
			StoreID:     pt.StoreID,
			AttendDate:  date,
			InTime:      now,
			Status:      DetectLate(scheduleFor(schedules, date), now),
		}
		if err := database.DB.Create(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not record check-in")
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// POST /api/public/attendance/check-out — fills the earliest open record
// of the day.
func CheckOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pt, err := resolveByDevice(c)
		if err != nil {
			return err
		}

		now := time.Now()
		date := AttendanceDate(now)

		var row models.Attendance
		err = database.DB.
			Where("part_timer_id = ? AND attend_date = ? AND out_time IS NULL", pt.ID, date).
			Order("in_time").First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no open attendance record today")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not look up attendance")
		}

		row.OutTime = &now
		if err := database.DB.Save(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not record check-out")
		}
		return c.JSON(row)
	}
}

// GET /api/parttimers/attendance?part_timer_id=&store_id=&from=&to=&page=&size=
func ListAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Attendance{})

		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id"); sid > 0 {
			q = q.Where("store_id = ?", sid)
		}

		if pid := c.QueryInt("part_timer_id"); pid > 0 {
			q = q.Where("part_timer_id = ?", pid)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			}
			q = q.Where("attend_date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			}
			q = q.Where("attend_date <= ?", t)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count attendance")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var rows []models.Attendance
		if err := q.Order("attend_date DESC, in_time DESC").
			Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list attendance")
		}

		return c.JSON(fiber.Map{
			"content": rows,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}
