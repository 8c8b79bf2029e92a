package disposal

import "time"

// Expired reports whether a store-stock row counts as a disposal target:
// it has seen a stock-in and the product's shelf life has run out since.
func Expired(lastInAt *time.Time, expireHours int, now time.Time) bool {
	if lastInAt == nil || expireHours <= 0 {
		return false
	}
	return !now.Before(lastInAt.Add(time.Duration(expireHours) * time.Hour))
}
