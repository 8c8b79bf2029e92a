package models

import "time"

type TransactionStatus int

const (
	TransactionPaid     TransactionStatus = 0
	TransactionRefunded TransactionStatus = 1
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// SalesTransaction: one sale. Immutable once paid except for the refund
// fields, which are written exactly once by the refund operation.
type SalesTransaction struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	StoreID       uint              `gorm:"index;not null" json:"store_id"`
	Store         Store             `json:"-"`
	EmployeeID    *uint             `json:"employee_id"`
	PartTimerID   *uint             `json:"part_timer_id"`
	TotalPrice    int               `gorm:"not null" json:"total_price"`
	DiscountTotal int               `gorm:"not null" json:"discount_total"`
	PaymentMethod PaymentMethod     `gorm:"size:10;not null" json:"payment_method"`
	Status        TransactionStatus `gorm:"not null;default:0" json:"status"`
	RefundAmount  *int              `json:"refund_amount"`
	RefundReason  string            `gorm:"size:255" json:"refund_reason"`
	PaidAt        time.Time         `gorm:"index;not null" json:"paid_at"`
	RefundedAt    *time.Time        `json:"refunded_at"`
	CreatedAt     time.Time         `json:"created_at"`
}

type SettlementType string

const (
	SettlementDaily   SettlementType = "DAILY"
	SettlementShift   SettlementType = "SHIFT"
	SettlementMonthly SettlementType = "MONTHLY"
	SettlementYearly  SettlementType = "YEARLY"
)

// Periodic reports whether at most one settlement may exist per
// (store, date, type). Shift settlements are exempt.
func (t SettlementType) Periodic() bool {
	return t == SettlementDaily || t == SettlementMonthly || t == SettlementYearly
}

type HqStatus string

const (
	HqPending HqStatus = "PENDING"
	HqSent    HqStatus = "SENT"
)

// SalesSettlement: immutable aggregate of transactions for a store over a
// period. Never updated after creation except for the HQ acknowledgment
// fields.
type SalesSettlement struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StoreID          uint           `gorm:"index;not null" json:"store_id"`
	EmployeeID       *uint          `json:"employee_id"`
	PartTimerID      *uint          `json:"part_timer_id"`
	SettlementDate   time.Time      `gorm:"index;not null" json:"settlement_date"`
	StartDate        *time.Time     `json:"start_date"`
	EndDate          *time.Time     `json:"end_date"`
	ShiftStart       *time.Time     `json:"shift_start"`
	ShiftEnd         *time.Time     `json:"shift_end"`
	TotalRevenue     int            `gorm:"not null" json:"total_revenue"`
	DiscountTotal    int            `gorm:"not null" json:"discount_total"`
	RefundTotal      int            `gorm:"not null" json:"refund_total"`
	FinalAmount      int            `gorm:"not null" json:"final_amount"`
	Type             SettlementType `gorm:"size:10;not null" json:"type"`
	TransactionCount int            `gorm:"not null" json:"transaction_count"`
	RefundCount      int            `gorm:"not null" json:"refund_count"`
	IsManual         bool           `gorm:"not null;default:false" json:"is_manual"`
	HqStatus         HqStatus       `gorm:"size:20;not null;default:'PENDING'" json:"hq_status"`
	HqSentAt         *time.Time     `json:"hq_sent_at"`
	CreatedAt        time.Time      `json:"created_at"`
}
