package pos

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

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
	if err := db.AutoMigrate(&models.Store{}, &models.SalesTransaction{}, &models.SalesSettlement{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM sales_settlements")
		db.Exec("DELETE FROM sales_transactions")
		db.Exec("DELETE FROM stores")
	})
	return db
}

// newSettlementApp wires the daily settlement route behind a middleware
// that injects fixed claims, standing in for JWTMiddleware.
func newSettlementApp(claims *auth.JWTCustomClaims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxClaimsKey, claims)
		return c.Next()
	})
	app.Post("/api/pos/settlements/daily", CreateDailySettlementHandler())
	return app
}

func TestDailySettlementDuplicateConflict(t *testing.T) {
	database.DB = openTestDB(t)

	store := models.Store{Name: "Mapo 1"}
	if err := database.DB.Create(&store).Error; err != nil {
		t.Fatal(err)
	}

	app := newSettlementApp(&auth.JWTCustomClaims{
		EmpID:  1,
		Role:   models.RoleHQ,
		DeptID: models.DeptHQMin,
	})

	post := func() int {
		body, _ := json.Marshal(DailySettlementRequest{
			StoreID: &store.ID,
			Date:    "2026-03-02",
		})
		req := httptest.NewRequest("POST", "/api/pos/settlements/daily", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		return resp.StatusCode
	}

	if code := post(); code != fiber.StatusCreated {
		t.Fatalf("first settlement status = %d, want 201", code)
	}
	if code := post(); code != fiber.StatusConflict {
		t.Errorf("second settlement status = %d, want 409", code)
	}

	var count int64
	database.DB.Model(&models.SalesSettlement{}).
		Where("store_id = ? AND type = ?", store.ID, models.SettlementDaily).
		Count(&count)
	if count != 1 {
		t.Errorf("settlement count = %d, want 1", count)
	}
}
