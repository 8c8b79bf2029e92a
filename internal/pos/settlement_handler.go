package pos

import (
	"strings"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

func transactionsInWindow(storeID uint, start, end time.Time) ([]models.SalesTransaction, error) {
	var txs []models.SalesTransaction
	err := database.DB.
		Where("store_id = ? AND paid_at >= ? AND paid_at < ?", storeID, start, end).
		Find(&txs).Error
	return txs, err
}

// settlementExists is the duplicate guard for periodic types. It is a
// read-then-write check; the partial unique index in the database package
// is the backstop for concurrent creators.
func settlementExists(storeID uint, date time.Time, t models.SettlementType) bool {
	if !t.Periodic() {
		return false
	}
	var count int64
	database.DB.Model(&models.SalesSettlement{}).
		Where("store_id = ? AND settlement_date = ? AND type = ?", storeID, date, t).
		Count(&count)
	return count > 0
}

type DailySettlementRequest struct {
	StoreID    *uint  `json:"store_id"`
	EmployeeID *uint  `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	IsManual   bool   `json:"is_manual"`
}

// POST /api/pos/settlements/daily
func CreateDailySettlementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DailySettlementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		storeID, err := resolveStoreID(c, body.StoreID)
		if err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		if settlementExists(storeID, date, models.SettlementDaily) {
			return fiber.NewError(fiber.StatusConflict, "daily settlement already exists for this date")
		}

		start, end := DailyWindow(date)
		txs, err := transactionsInWindow(storeID, start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load transactions")
		}
		sum := Summarize(txs, true)

		settlement := models.SalesSettlement{
			StoreID:          storeID,
			EmployeeID:       body.EmployeeID,
			SettlementDate:   date,
			StartDate:        &date,
			EndDate:          &date,
			TotalRevenue:     sum.TotalRevenue,
			DiscountTotal:    sum.DiscountTotal,
			RefundTotal:      sum.RefundTotal,
			FinalAmount:      sum.FinalAmount,
			Type:             models.SettlementDaily,
			TransactionCount: sum.TransactionCount,
			RefundCount:      sum.RefundCount,
			IsManual:         body.IsManual,
			HqStatus:         models.HqPending,
		}
		if err := database.DB.Create(&settlement).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "could not save settlement (duplicate?)")
		}
		return c.Status(fiber.StatusCreated).JSON(settlement)
	}
}

type ShiftSettlementRequest struct {
	StoreID     *uint  `json:"store_id"`
	EmployeeID  *uint  `json:"employee_id"`
	PartTimerID *uint  `json:"part_timer_id"`
	Date        string `json:"date"`        // YYYY-MM-DD settlement date
	ShiftStart  string `json:"shift_start"` // RFC3339
	ShiftEnd    string `json:"shift_end"`   // RFC3339
	IsManual    bool   `json:"is_manual"`
}

// POST /api/pos/settlements/shift
// Several shift settlements per day are allowed, there is no duplicate
// guard for this type.
func CreateShiftSettlementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ShiftSettlementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		storeID, err := resolveStoreID(c, body.StoreID)
		if err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		shiftStart, err := time.Parse(time.RFC3339, body.ShiftStart)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "shift_start must be RFC3339")
		}
		shiftEnd, err := time.Parse(time.RFC3339, body.ShiftEnd)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "shift_end must be RFC3339")
		}
		if !shiftEnd.After(shiftStart) {
			return fiber.NewError(fiber.StatusBadRequest, "shift_end must be after shift_start")
		}

		txs, err := transactionsInWindow(storeID, shiftStart, shiftEnd)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load transactions")
		}
		sum := Summarize(txs, false)

		settlement := models.SalesSettlement{
			StoreID:          storeID,
			EmployeeID:       body.EmployeeID,
			PartTimerID:      body.PartTimerID,
			SettlementDate:   date,
			ShiftStart:       &shiftStart,
			ShiftEnd:         &shiftEnd,
			TotalRevenue:     sum.TotalRevenue,
			DiscountTotal:    sum.DiscountTotal,
			RefundTotal:      sum.RefundTotal,
			FinalAmount:      sum.FinalAmount,
			Type:             models.SettlementShift,
			TransactionCount: sum.TransactionCount,
			RefundCount:      sum.RefundCount,
			IsManual:         body.IsManual,
			HqStatus:         models.HqPending,
		}
		if err := database.DB.Create(&settlement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not save settlement")
		}
		return c.Status(fiber.StatusCreated).JSON(settlement)
	}
}

type MonthlySettlementRequest struct {
	StoreID *uint `json:"store_id"`
	Year    int   `json:"year"`
	Month   int   `json:"month"`
}

// POST /api/pos/settlements/monthly
func CreateMonthlySettlementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MonthlySettlementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		storeID, err := resolveStoreID(c, body.StoreID)
		if err != nil {
			return err
		}
		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "year/month out of range")
		}

		start, end, settlementDate := MonthlyWindow(body.Year, time.Month(body.Month), time.Local)

		if settlementExists(storeID, settlementDate, models.SettlementMonthly) {
			return fiber.NewError(fiber.StatusConflict, "monthly settlement already exists for this month")
		}

		txs, err := transactionsInWindow(storeID, start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load transactions")
		}
		sum := Summarize(txs, true)

		settlement := models.SalesSettlement{
			StoreID:          storeID,
			SettlementDate:   settlementDate,
			StartDate:        &start,
			EndDate:          &settlementDate,
			TotalRevenue:     sum.TotalRevenue,
			DiscountTotal:    sum.DiscountTotal,
			RefundTotal:      sum.RefundTotal,
			FinalAmount:      sum.FinalAmount,
			Type:             models.SettlementMonthly,
			TransactionCount: sum.TransactionCount,
			RefundCount:      sum.RefundCount,
			HqStatus:         models.HqPending,
		}
		if err := database.DB.Create(&settlement).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "could not save settlement (duplicate?)")
		}
		return c.Status(fiber.StatusCreated).JSON(settlement)
	}
}

type YearlySettlementRequest struct {
	StoreID *uint `json:"store_id"`
	Year    int   `json:"year"`
}

// POST /api/pos/settlements/yearly
func CreateYearlySettlementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body YearlySettlementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		storeID, err := resolveStoreID(c, body.StoreID)
		if err != nil {
			return err
		}
		if body.Year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year out of range")
		}

		start, end, settlementDate := YearlyWindow(body.Year, time.Local)

		if settlementExists(storeID, settlementDate, models.SettlementYearly) {
			return fiber.NewError(fiber.StatusConflict, "yearly settlement already exists for this year")
		}

		txs, err := transactionsInWindow(storeID, start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load transactions")
		}
		sum := Summarize(txs, true)

		settlement := models.SalesSettlement{
			StoreID:          storeID,
			SettlementDate:   settlementDate,
			StartDate:        &start,
			EndDate:          &settlementDate,
			TotalRevenue:     sum.TotalRevenue,
			DiscountTotal:    sum.DiscountTotal,
			RefundTotal:      sum.RefundTotal,
			FinalAmount:      sum.FinalAmount,
			Type:             models.SettlementYearly,
			TransactionCount: sum.TransactionCount,
			RefundCount:      sum.RefundCount,
			HqStatus:         models.HqPending,
		}
		if err := database.DB.Create(&settlement).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "could not save settlement (duplicate?)")
		}
		return c.Status(fiber.StatusCreated).JSON(settlement)
	}
}

// GET /api/pos/settlements/preview?store_id=&date=
// Computes the daily summary without saving anything.
func PreviewSettlementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		start, end := DailyWindow(date)
		txs, err := transactionsInWindow(storeID, start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load transactions")
		}
		return c.JSON(Summarize(txs, false))
	}
}

// GET /api/pos/settlements/recent?store_id=
// Last two settlements for the store, newest first.
func RecentSettlementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var settlements []models.SalesSettlement
		if err := database.DB.
			Where("store_id = ?", storeID).
			Order("settlement_date DESC").
			Limit(2).
			Find(&settlements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load settlements")
		}
		return c.JSON(settlements)
	}
}

// GET /api/pos/settlements?store_id=&start=&end=&types=DAILY,SHIFT
// Settlement history, date ascending. Empty types means all types.
func ListSettlementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("store_id = ?", storeID)

		if s := c.Query("start"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start must be YYYY-MM-DD")
			}
			q = q.Where("settlement_date >= ?", t)
		}
		if e := c.Query("end"); e != "" {
			t, err := time.Parse("2006-01-02", e)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end must be YYYY-MM-DD")
			}
			q = q.Where("settlement_date <= ?", t)
		}

		if typesParam := c.Query("types"); typesParam != "" {
			var types []models.SettlementType
			for _, t := range strings.Split(typesParam, ",") {
				switch st := models.SettlementType(strings.ToUpper(strings.TrimSpace(t))); st {
				case models.SettlementDaily, models.SettlementShift, models.SettlementMonthly, models.SettlementYearly:
					types = append(types, st)
				default:
					return fiber.NewError(fiber.StatusBadRequest, "unknown settlement type: "+t)
				}
			}
			q = q.Where("type IN ?", types)
		}

		var settlements []models.SalesSettlement
		if err := q.Order("settlement_date ASC").Find(&settlements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load settlements")
		}
		return c.JSON(settlements)
	}
}
