package models

import "time"

type BoardType string

const (
	BoardNotice       BoardType = "NOTICE"
	BoardStoreInquiry BoardType = "STORE_INQUIRY"
)

// BoardPost: headquarters notice or store inquiry. Notices are written by
// headquarters; inquiries are filed by store owners and answered in
// comments, which notifies the store-support desk.
type BoardPost struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Type      BoardType      `gorm:"size:20;not null;index" json:"type"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"size:4000;not null" json:"content"`
	AuthorID  uint           `gorm:"index;not null" json:"author_id"`
	Author    Employee       `json:"-"`
	StoreID   *uint          `json:"store_id"`
	Comments  []BoardComment `json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type BoardComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BoardPostID uint      `gorm:"index;not null" json:"board_post_id"`
	AuthorID    uint      `gorm:"not null" json:"author_id"`
	Author      Employee  `json:"-"`
	Content     string    `gorm:"size:2000;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
