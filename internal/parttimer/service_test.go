package parttimer

import (
	"testing"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
)

func TestAttendanceDate(t *testing.T) {
	in := time.Date(2025, time.June, 3, 18, 22, 5, 12345, time.UTC)
	got := AttendanceDate(in)
	want := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AttendanceDate(%v) = %v, want %v", in, got, want)
	}
}

func TestDetectLate(t *testing.T) {
	start := time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	schedule := &models.ShiftSchedule{
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
	}

	cases := []struct {
		name     string
		schedule *models.ShiftSchedule
		inTime   time.Time
		want     models.AttendStatus
	}{
		{"no schedule", nil, start.Add(3 * time.Hour), models.AttendNormal},
		{"early", schedule, start.Add(-10 * time.Minute), models.AttendNormal},
		{"on time", schedule, start, models.AttendNormal},
		{"late", schedule, start.Add(time.Minute), models.AttendLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLate(tc.schedule, tc.inTime); got != tc.want {
				t.Errorf("DetectLate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScheduleFor(t *testing.T) {
	day1 := time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, time.June, 4, 14, 0, 0, 0, time.UTC)
	schedules := []models.ShiftSchedule{
		{ID: 1, StartTime: day1, EndTime: day1.Add(8 * time.Hour)},
		{ID: 2, StartTime: day2, EndTime: day2.Add(6 * time.Hour)},
	}

	got := scheduleFor(schedules, AttendanceDate(day2))
	if got == nil || got.ID != 2 {
		t.Errorf("scheduleFor day2 = %+v, want schedule 2", got)
	}

	if got := scheduleFor(schedules, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)); got != nil {
		t.Errorf("scheduleFor empty day = %+v, want nil", got)
	}
}
