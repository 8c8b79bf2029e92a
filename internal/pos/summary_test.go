package pos

import (
	"testing"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
)

func intPtr(v int) *int { return &v }

func TestSummarizeInclusive(t *testing.T) {
	// One paid sale and one refunded sale. Periodic settlements keep the
	// refunded sale's revenue in the totals and subtract the refund.
	txs := []models.SalesTransaction{
		{TotalPrice: 1000, DiscountTotal: 100, Status: models.TransactionPaid},
		{TotalPrice: 2000, DiscountTotal: 0, Status: models.TransactionRefunded, RefundAmount: intPtr(500)},
	}

	got := Summarize(txs, true)

	want := Summary{
		TotalRevenue:     3000,
		DiscountTotal:    100,
		RefundTotal:      500,
		FinalAmount:      2400,
		TransactionCount: 2,
		RefundCount:      1,
	}
	if got != want {
		t.Errorf("Summarize inclusive = %+v, want %+v", got, want)
	}
}

func TestSummarizeExclusive(t *testing.T) {
	// Shift settlements and the preview leave refunded rows out of revenue.
	txs := []models.SalesTransaction{
		{TotalPrice: 1000, DiscountTotal: 100, Status: models.TransactionPaid},
		{TotalPrice: 2000, DiscountTotal: 0, Status: models.TransactionRefunded, RefundAmount: intPtr(500)},
	}

	got := Summarize(txs, false)

	want := Summary{
		TotalRevenue:     1000,
		DiscountTotal:    100,
		RefundTotal:      500,
		FinalAmount:      400,
		TransactionCount: 2,
		RefundCount:      1,
	}
	if got != want {
		t.Errorf("Summarize exclusive = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, true)
	if got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestSummarizeRefundWithoutAmount(t *testing.T) {
	// A refunded row with no recorded amount still counts as a refund but
	// contributes nothing to the refund total.
	txs := []models.SalesTransaction{
		{TotalPrice: 1500, DiscountTotal: 0, Status: models.TransactionRefunded},
	}

	got := Summarize(txs, true)
	if got.RefundCount != 1 || got.RefundTotal != 0 {
		t.Errorf("refund count/total = %d/%d, want 1/0", got.RefundCount, got.RefundTotal)
	}
	if got.TotalRevenue != 1500 || got.FinalAmount != 1500 {
		t.Errorf("revenue/final = %d/%d, want 1500/1500", got.TotalRevenue, got.FinalAmount)
	}
}

func TestDailyWindow(t *testing.T) {
	d := time.Date(2025, time.March, 15, 13, 45, 0, 0, time.UTC)
	start, end := DailyWindow(d)

	if !start.Equal(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestMonthlyWindow(t *testing.T) {
	start, end, settlementDate := MonthlyWindow(2024, time.February, time.UTC)

	if !start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	// 2024 is a leap year.
	if !settlementDate.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("settlementDate = %v", settlementDate)
	}
	if !end.Equal(time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestYearlyWindow(t *testing.T) {
	start, end, settlementDate := YearlyWindow(2025, time.UTC)

	if !start.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !settlementDate.Equal(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("settlementDate = %v", settlementDate)
	}
	if !end.Equal(time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}
