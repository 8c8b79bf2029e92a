package models

import "time"

// Notification event types that are also delivered to department 3
// (store-support) rather than headquarters departments only.
const (
	EventNotice            = "NOTICE"
	EventStoreInquiryReply = "STORE_INQUIRY_REPLY"
)

type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmployeeID   uint      `gorm:"index;not null" json:"employee_id"`
	Employee     Employee  `json:"-"`
	TargetDeptID *int      `json:"target_dept_id"`
	EventType    string    `gorm:"size:50" json:"event_type"`
	Type         string    `gorm:"size:50;not null" json:"type"`
	Content      string    `gorm:"size:500;not null" json:"content"`
	Link         string    `gorm:"size:255" json:"link"`
	IsRead       bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}
