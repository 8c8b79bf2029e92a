package parttimer

import (
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
)

// AttendanceDate truncates a timestamp to the midnight that keys the
// attendance row.
func AttendanceDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DetectLate decides the check-in status against the planned shift.
// No schedule means any time is normal.
func DetectLate(schedule *models.ShiftSchedule, inTime time.Time) models.AttendStatus {
	if schedule == nil {
		return models.AttendNormal
	}
	if inTime.After(schedule.StartTime) {
		return models.AttendLate
	}
	return models.AttendNormal
}

// scheduleFor finds the planned shift covering the given date, if any.
func scheduleFor(schedules []models.ShiftSchedule, date time.Time) *models.ShiftSchedule {
	for i := range schedules {
		if AttendanceDate(schedules[i].StartTime).Equal(date) {
			return &schedules[i]
		}
	}
	return nil
}
