package models

import "time"

type RoomType string

const (
	RoomGroup      RoomType = "GROUP"
	RoomIndividual RoomType = "INDIVIDUAL"
)

type ChatRoom struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Type      RoomType   `gorm:"size:20;not null" json:"type"`
	Members   []Employee `gorm:"many2many:chat_room_members" json:"members"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type MessageType string

const (
	MessageChat  MessageType = "CHAT"
	MessageJoin  MessageType = "JOIN"
	MessageLeave MessageType = "LEAVE"
)

type ChatMessage struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	RoomID   uint        `gorm:"index;not null" json:"room_id"`
	Room     ChatRoom    `json:"-"`
	SenderID uint        `gorm:"not null" json:"sender_id"`
	Sender   Employee    `json:"-"`
	Content  string      `gorm:"size:2000;not null" json:"content"`
	Type     MessageType `gorm:"size:10;not null;default:'CHAT'" json:"type"`
	// True once every member except the sender has a MessageRead row.
	IsRead bool      `gorm:"not null;default:false" json:"is_read"`
	SentAt time.Time `gorm:"index;autoCreateTime" json:"sent_at"`
}

// MessageRead: per-reader receipt. Replaces the legacy jsonb read_by blob
// on chat_messages with a queryable table.
type MessageRead struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MessageID  uint      `gorm:"not null;uniqueIndex:idx_message_read_once" json:"message_id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_message_read_once" json:"employee_id"`
	ReadAt     time.Time `gorm:"not null" json:"read_at"`
}

// MessageReaction: one row per (message, employee, emoji); sending the same
// reaction again removes it.
type MessageReaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MessageID  uint      `gorm:"not null;uniqueIndex:idx_message_reaction_once" json:"message_id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_message_reaction_once" json:"employee_id"`
	Emoji      string    `gorm:"size:20;not null;uniqueIndex:idx_message_reaction_once" json:"emoji"`
	CreatedAt  time.Time `json:"created_at"`
}
