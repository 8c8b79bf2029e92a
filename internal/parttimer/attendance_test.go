package parttimer

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Integration test against a real Postgres. Set TEST_DATABASE_DSN to run.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.PartTimer{}, &models.Attendance{}, &models.ShiftSchedule{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM attendances")
		db.Exec("DELETE FROM shift_schedules")
		db.Exec("DELETE FROM part_timers")
		db.Exec("DELETE FROM stores")
	})
	return db
}

// newAttendanceApp mirrors the public attendance routes: no JWT, the
// device header is the only credential.
func newAttendanceApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/public/attendance/check-in", CheckInHandler())
	app.Post("/api/public/attendance/check-out", CheckOutHandler())
	return app
}

func postAttendance(t *testing.T, app *fiber.App, path, headerDevice, bodyDevice string) (int, []byte) {
	t.Helper()
	body, _ := json.Marshal(AttendanceRequest{DeviceID: bodyDevice})
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if headerDevice != "" {
		req.Header.Set(auth.DeviceIDHeader, headerDevice)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	payload, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, payload
}

func TestAttendanceCheckInAndOut(t *testing.T) {
	database.DB = openTestDB(t)

	store := models.Store{Name: "Hongdae 1"}
	if err := database.DB.Create(&store).Error; err != nil {
		t.Fatal(err)
	}
	pt := models.PartTimer{
		StoreID:  store.ID,
		Name:     "Park Jiho",
		Status:   models.PartTimerActive,
		DeviceID: "device-alpha",
		HireDate: time.Now().AddDate(0, -1, 0),
	}
	if err := database.DB.Create(&pt).Error; err != nil {
		t.Fatal(err)
	}

	app := newAttendanceApp()

	// Check-out before any check-in: nothing open yet.
	if code, _ := postAttendance(t, app, "/api/public/attendance/check-out", "device-alpha", "device-alpha"); code != fiber.StatusNotFound {
		t.Errorf("check-out before check-in status = %d, want 404", code)
	}

	code, payload := postAttendance(t, app, "/api/public/attendance/check-in", "device-alpha", "device-alpha")
	if code != fiber.StatusCreated {
		t.Fatalf("check-in status = %d, want 201 (%s)", code, payload)
	}

	// Only one check-in per part-timer per day.
	if code, _ = postAttendance(t, app, "/api/public/attendance/check-in", "device-alpha", "device-alpha"); code != fiber.StatusConflict {
		t.Errorf("duplicate check-in status = %d, want 409", code)
	}

	// A different phone cannot act for the registered device.
	if code, _ = postAttendance(t, app, "/api/public/attendance/check-out", "device-beta", "device-alpha"); code != fiber.StatusForbidden {
		t.Errorf("mismatched device status = %d, want 403", code)
	}

	code, payload = postAttendance(t, app, "/api/public/attendance/check-out", "device-alpha", "device-alpha")
	if code != fiber.StatusOK {
		t.Fatalf("check-out status = %d, want 200 (%s)", code, payload)
	}
	var row models.Attendance
	if err := json.Unmarshal(payload, &row); err != nil {
		t.Fatal(err)
	}
	if row.OutTime == nil {
		t.Error("check-out should fill out_time")
	}

	// The day's record is closed, a second check-out has nothing to fill.
	if code, _ = postAttendance(t, app, "/api/public/attendance/check-out", "device-alpha", "device-alpha"); code != fiber.StatusNotFound {
		t.Errorf("second check-out status = %d, want 404", code)
	}
}
