package models

import "time"

type PartTimerStatus int

const (
	PartTimerActive   PartTimerStatus = 1
	PartTimerResigned PartTimerStatus = 0
)

// PartTimer: hourly shift worker. Attendance is bound to the registered
// device: check-in/out from any other device is rejected.
type PartTimer struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StoreID       uint            `gorm:"index;not null" json:"store_id"`
	Store         Store           `json:"-"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Gender        string          `gorm:"size:10" json:"gender"`
	Phone         string          `gorm:"size:50" json:"phone"`
	Address       string          `gorm:"size:255" json:"address"`
	Position      string          `gorm:"size:50" json:"position"`
	WorkType      string          `gorm:"size:50" json:"work_type"`
	SalaryType    string          `gorm:"size:20" json:"salary_type"`
	HourlyWage    int             `json:"hourly_wage"`
	AccountBank   string          `gorm:"size:50" json:"account_bank"`
	AccountNumber string          `gorm:"size:50" json:"account_number"`
	Status        PartTimerStatus `gorm:"not null;default:1" json:"status"`
	DeviceID      string          `gorm:"size:100;index" json:"device_id"`
	DeviceName    string          `gorm:"size:100" json:"device_name"`
	ImgURL        string          `gorm:"size:500" json:"img_url"`
	HireDate      time.Time       `json:"hire_date"`
	ResignDate    *time.Time      `json:"resign_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AttendStatus int

const (
	AttendNormal AttendStatus = 0
	AttendLate   AttendStatus = 1
)

// Attendance: one row per (part-timer, date). Check-in creates it,
// check-out fills OutTime on the earliest open row of the day.
type Attendance struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	PartTimerID uint         `gorm:"index;not null" json:"part_timer_id"`
	PartTimer   PartTimer    `json:"-"`
	StoreID     uint         `gorm:"index;not null" json:"store_id"`
	AttendDate  time.Time    `gorm:"index;not null" json:"attend_date"` // date only, midnight
	InTime      time.Time    `gorm:"not null" json:"in_time"`
	OutTime     *time.Time   `json:"out_time"`
	Status      AttendStatus `gorm:"not null;default:0" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ShiftSchedule: planned working window. Used only for late detection at
// check-in; absence of a schedule means any check-in time is normal.
type ShiftSchedule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PartTimerID uint      `gorm:"index;not null" json:"part_timer_id"`
	StoreID     uint      `gorm:"index;not null" json:"store_id"`
	StartTime   time.Time `gorm:"index;not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// VerifiedDevice: phone-to-device binding established by SMS verification.
// A device id may belong to at most one phone.
type VerifiedDevice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Phone         string    `gorm:"size:50;index;not null" json:"phone"`
	DeviceID      string    `gorm:"size:100;uniqueIndex;not null" json:"device_id"`
	DeviceName    string    `gorm:"size:100" json:"device_name"`
	VerifiedAt    time.Time `gorm:"not null" json:"verified_at"`
	LastAttemptAt time.Time `gorm:"not null" json:"last_attempt_at"`
	AttemptCount  int       `gorm:"not null;default:1" json:"attempt_count"`
}
