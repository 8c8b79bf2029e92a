package pos

import (
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
)

// Summary is the aggregate written into a settlement row.
//
// TransactionCount counts every transaction in the window, refunded ones
// included. Periodic settlements (daily/monthly/yearly) also keep a
// refunded transaction's revenue and discount in the totals and subtract
// the refund separately; shift settlements and the preview leave refunded
// rows out of revenue entirely. FinalAmount is always
// revenue - discount - refund.
type Summary struct {
	TotalRevenue     int `json:"total_revenue"`
	DiscountTotal    int `json:"discount_total"`
	RefundTotal      int `json:"refund_total"`
	FinalAmount      int `json:"final_amount"`
	TransactionCount int `json:"transaction_count"`
	RefundCount      int `json:"refund_count"`
}

// Summarize folds a transaction set into a Summary.
func Summarize(txs []models.SalesTransaction, includeRefundedRevenue bool) Summary {
	var s Summary
	for _, tx := range txs {
		s.TransactionCount++
		refunded := tx.Status == models.TransactionRefunded
		if refunded {
			s.RefundCount++
			if tx.RefundAmount != nil {
				s.RefundTotal += *tx.RefundAmount
			}
		}
		if !refunded || includeRefundedRevenue {
			s.TotalRevenue += tx.TotalPrice
			s.DiscountTotal += tx.DiscountTotal
		}
	}
	s.FinalAmount = s.TotalRevenue - s.DiscountTotal - s.RefundTotal
	return s
}

// DailyWindow returns [d 00:00, d+1 00:00) for the date's day.
func DailyWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

// MonthlyWindow returns the first day of the month and the last day at
// 23:59:59, plus the settlement date (last day of the month).
func MonthlyWindow(year int, month time.Month, loc *time.Location) (start, end, settlementDate time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	settlementDate = start.AddDate(0, 1, -1)
	end = time.Date(settlementDate.Year(), settlementDate.Month(), settlementDate.Day(), 23, 59, 59, 0, loc)
	return start, end, settlementDate
}

// YearlyWindow returns Jan 1 and Dec 31 at 23:59:59, plus the settlement
// date (Dec 31).
func YearlyWindow(year int, loc *time.Location) (start, end, settlementDate time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	settlementDate = time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	end = time.Date(year, time.December, 31, 23, 59, 59, 0, loc)
	return start, end, settlementDate
}
