package models

import "time"

type PromoStatus string

const (
	PromoNone         PromoStatus = "0" // selling normally
	PromoDiscontinued PromoStatus = "1"
	PromoOnePlusOne   PromoStatus = "2"
	PromoTwoPlusOne   PromoStatus = "3"
)

func (p PromoStatus) Text() string {
	switch p {
	case PromoNone:
		return "selling"
	case PromoDiscontinued:
		return "discontinued"
	case PromoOnePlusOne:
		return "1+1"
	case PromoTwoPlusOne:
		return "2+1"
	default:
		return "unknown"
	}
}

type Product struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:100;not null;index" json:"name"`
	Barcode      int64       `gorm:"uniqueIndex;not null" json:"barcode"`
	CategoryName string      `gorm:"size:100" json:"category_name"`
	SellPrice    int         `gorm:"not null" json:"sell_price"`
	CostPrice    int         `gorm:"not null" json:"cost_price"`
	PromoStatus  PromoStatus `gorm:"size:2;not null;default:'0'" json:"promo_status"`
	// Hours after the last stock-in before store stock counts as expired.
	ExpireHours int       `gorm:"not null;default:72" json:"expire_hours"`
	ImgURL      string    `gorm:"size:500" json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
