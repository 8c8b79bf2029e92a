package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MessageResponse struct {
	ID         uint   `json:"id"`
	RoomID     uint   `json:"room_id"`
	SenderID   uint   `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	IsRead     bool   `json:"is_read"`
	SentAt     string `json:"sent_at"`
}

func toMessageResponse(m *models.ChatMessage, senderName string) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: senderName,
		Content:    m.Content,
		Type:       string(m.Type),
		IsRead:     m.IsRead,
		SentAt:     m.SentAt.Format(time.RFC3339),
	}
}

// requireHQStaff loads the caller and rejects anyone outside headquarters
// departments. Chat is a headquarters-only feature.
func requireHQStaff(c *fiber.Ctx) (*models.Employee, error) {
	claims, err := auth.Claims(c)
	if err != nil {
		return nil, err
	}
	var emp models.Employee
	if err := database.DB.First(&emp, claims.EmpID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "employee not found")
	}
	if !emp.IsHQStaff() {
		return nil, fiber.NewError(fiber.StatusForbidden, "only headquarters staff may use chat")
	}
	return &emp, nil
}

func loadRoom(roomID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := database.DB.Preload("Members").First(&room, roomID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "chat room not found")
	}
	return &room, nil
}

func isMember(room *models.ChatRoom, empID uint) bool {
	for _, m := range room.Members {
		if m.ID == empID {
			return true
		}
	}
	return false
}

// GET /api/chat/rooms
func ListRoomsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}

		var rooms []models.ChatRoom
		if err := database.DB.Preload("Members").
			Joins("JOIN chat_room_members crm ON crm.chat_room_id = chat_rooms.id").
			Where("crm.employee_id = ?", emp.ID).
			Find(&rooms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list chat rooms")
		}
		return c.JSON(rooms)
	}
}

type CreateRoomRequest struct {
	Name      string `json:"name"`
	MemberIDs []uint `json:"member_ids"`
}

// POST /api/chat/rooms
func CreateRoomHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creator, err := requireHQStaff(c)
		if err != nil {
			return err
		}

		var body CreateRoomRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(body.MemberIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "member_ids is required")
		}

		roomType := models.RoomGroup
		if len(body.MemberIDs) == 1 {
			roomType = models.RoomIndividual
		}

		members := make([]models.Employee, 0, len(body.MemberIDs))
		for _, id := range body.MemberIDs {
			var m models.Employee
			if err := database.DB.First(&m, id).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("member %d not found", id))
			}
			if !m.IsHQStaff() {
				return fiber.NewError(fiber.StatusForbidden, "only headquarters staff may join chat rooms")
			}
			members = append(members, m)
		}

		// A 1:1 room with the same pair is reused instead of duplicated.
		if roomType == models.RoomIndividual {
			other := members[0]
			var existing models.ChatRoom
			err := database.DB.Preload("Members").
				Joins("JOIN chat_room_members a ON a.chat_room_id = chat_rooms.id AND a.employee_id = ?", creator.ID).
				Joins("JOIN chat_room_members b ON b.chat_room_id = chat_rooms.id AND b.employee_id = ?", other.ID).
				Where("chat_rooms.type = ?", models.RoomIndividual).
				First(&existing).Error
			if err == nil {
				return c.JSON(existing)
			}
			body.Name = other.Name
		}

		room := models.ChatRoom{
			Name:    body.Name,
			Type:    roomType,
			Members: append([]models.Employee{*creator}, members...),
		}
		if err := database.DB.Create(&room).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create chat room")
		}

		joinMsg := models.ChatMessage{
			RoomID:   room.ID,
			SenderID: creator.ID,
			Content:  creator.Name + " created the room",
			Type:     models.MessageJoin,
		}
		if err := database.DB.Create(&joinMsg).Error; err == nil {
			hub.Publish(RoomTopic(room.ID), "message", toMessageResponse(&joinMsg, creator.Name))
		}
		hub.Publish(TopicRoomsUpdate, "room_created", room)

		return c.Status(fiber.StatusCreated).JSON(room)
	}
}

// GET /api/chat/rooms/:id
func GetRoomHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		room, err := loadRoom(uint(roomID))
		if err != nil {
			return err
		}
		if !isMember(room, emp.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}
		return c.JSON(room)
	}
}

// GET /api/chat/rooms/:id/messages?page=0&size=30
func ListMessagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		room, err := loadRoom(uint(roomID))
		if err != nil {
			return err
		}
		if !isMember(room, emp.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}

		page := c.QueryInt("page", 0)
		size := c.QueryInt("size", 30)
		if size <= 0 || size > 100 {
			size = 30
		}

		var messages []models.ChatMessage
		if err := database.DB.Preload("Sender").
			Where("room_id = ?", room.ID).
			Order("sent_at DESC").
			Offset(page * size).Limit(size).
			Find(&messages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load messages")
		}

		out := make([]MessageResponse, 0, len(messages))
		for i := range messages {
			out = append(out, toMessageResponse(&messages[i], messages[i].Sender.Name))
		}
		return c.JSON(out)
	}
}

type SendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// POST /api/chat/rooms/:id/messages
func SendMessageHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sender, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		room, err := loadRoom(uint(roomID))
		if err != nil {
			return err
		}
		if !isMember(room, sender.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}

		var body SendMessageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Content) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content is required")
		}

		msgType := models.MessageChat
		switch models.MessageType(body.Type) {
		case models.MessageJoin, models.MessageLeave:
			msgType = models.MessageType(body.Type)
		}

		msg := models.ChatMessage{
			RoomID:   room.ID,
			SenderID: sender.ID,
			Content:  body.Content,
			Type:     msgType,
		}
		if err := database.DB.Create(&msg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not save message")
		}

		resp := toMessageResponse(&msg, sender.Name)
		hub.Publish(RoomTopic(room.ID), "message", resp)
		hub.Publish(TopicGlobal, "message", resp)

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// POST /api/chat/rooms/:id/leave
func LeaveRoomHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		room, err := loadRoom(uint(roomID))
		if err != nil {
			return err
		}
		if !isMember(room, emp.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}

		if err := database.DB.Model(room).Association("Members").Delete(emp); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not leave room")
		}

		leaveMsg := models.ChatMessage{
			RoomID:   room.ID,
			SenderID: emp.ID,
			Content:  emp.Name + " left the room",
			Type:     models.MessageLeave,
		}
		if err := database.DB.Create(&leaveMsg).Error; err == nil {
			hub.Publish(RoomTopic(room.ID), "message", toMessageResponse(&leaveMsg, emp.Name))
		}
		hub.Publish(TopicRoomsUpdate, "room_updated", room.ID)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type InviteRequest struct {
	MemberIDs []uint `json:"member_ids"`
}

// POST /api/chat/rooms/:id/invite
func InviteHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		inviter, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		room, err := loadRoom(uint(roomID))
		if err != nil {
			return err
		}
		if !isMember(room, inviter.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}

		var body InviteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var added []string
		for _, id := range body.MemberIDs {
			if isMember(room, id) {
				continue
			}
			var m models.Employee
			if err := database.DB.First(&m, id).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("member %d not found", id))
			}
			if !m.IsHQStaff() {
				return fiber.NewError(fiber.StatusForbidden, "only headquarters staff may join chat rooms")
			}
			if err := database.DB.Model(room).Association("Members").Append(&m); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not add member")
			}
			added = append(added, m.Name)
		}
		if len(added) == 0 {
			return c.SendStatus(fiber.StatusNoContent)
		}

		joinMsg := models.ChatMessage{
			RoomID:   room.ID,
			SenderID: inviter.ID,
			Content:  inviter.Name + " invited " + strings.Join(added, ", "),
			Type:     models.MessageJoin,
		}
		if err := database.DB.Create(&joinMsg).Error; err == nil {
			hub.Publish(RoomTopic(room.ID), "message", toMessageResponse(&joinMsg, inviter.Name))
		}
		hub.Publish(TopicRoomsUpdate, "room_updated", room.ID)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type ReactionRequest struct {
	Emoji string `json:"emoji"`
}

// POST /api/chat/messages/:id/reactions
// Toggles: a second identical reaction from the same employee removes it.
func ToggleReactionHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		msgID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid message id")
		}

		var body ReactionRequest
		if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Emoji) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "emoji is required")
		}

		var msg models.ChatMessage
		if err := database.DB.First(&msg, msgID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "message not found")
		}
		room, err := loadRoom(msg.RoomID)
		if err != nil {
			return err
		}
		if !isMember(room, emp.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}

		var existing models.MessageReaction
		err = database.DB.Where("message_id = ? AND employee_id = ? AND emoji = ?", msg.ID, emp.ID, body.Emoji).
			First(&existing).Error
		removed := false
		switch {
		case err == nil:
			if err := database.DB.Delete(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not remove reaction")
			}
			removed = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.MessageReaction{MessageID: msg.ID, EmployeeID: emp.ID, Emoji: body.Emoji}
			if err := database.DB.Create(&reaction).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not save reaction")
			}
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "could not toggle reaction")
		}

		hub.Publish(RoomTopic(room.ID), "reaction", fiber.Map{
			"message_id":  msg.ID,
			"employee_id": emp.ID,
			"emoji":       body.Emoji,
			"removed":     removed,
		})
		return c.JSON(fiber.Map{"removed": removed})
	}
}

// POST /api/chat/rooms/:id/read
// Marks every unread message in the room as read by the caller. A message
// flips is_read once all members except the sender have receipts.
func MarkReadHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		room, err := loadRoom(uint(roomID))
		if err != nil {
			return err
		}
		if !isMember(room, emp.ID) {
			return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
		}

		var unread []models.ChatMessage
		if err := database.DB.
			Where("room_id = ? AND sender_id <> ?", room.ID, emp.ID).
			Where("id NOT IN (?)", database.DB.Model(&models.MessageRead{}).
				Select("message_id").Where("employee_id = ?", emp.ID)).
			Find(&unread).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load unread messages")
		}

		now := time.Now()
		for i := range unread {
			msg := &unread[i]
			receipt := models.MessageRead{MessageID: msg.ID, EmployeeID: emp.ID, ReadAt: now}
			if err := database.DB.Create(&receipt).Error; err != nil {
				continue
			}
			var readers int64
			database.DB.Model(&models.MessageRead{}).Where("message_id = ?", msg.ID).Count(&readers)
			if readers >= int64(len(room.Members)-1) && !msg.IsRead {
				database.DB.Model(msg).Update("is_read", true)
			}
		}

		hub.Publish(RoomTopic(room.ID), "read", fiber.Map{
			"room_id":     room.ID,
			"employee_id": emp.ID,
			"count":       len(unread),
		})
		return c.JSON(fiber.Map{"marked": len(unread)})
	}
}

type TypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// POST /api/chat/rooms/:id/typing
// Fan-out only, never persisted.
func TypingHandler(hub *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		emp, err := requireHQStaff(c)
		if err != nil {
			return err
		}
		roomID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
		}
		var body TypingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		hub.Publish(RoomTopic(uint(roomID)), "typing", fiber.Map{
			"room_id":     uint(roomID),
			"employee_id": emp.ID,
			"name":        emp.Name,
			"is_typing":   body.IsTyping,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/chat/employees
// Headquarters staff directory for building rooms.
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := requireHQStaff(c); err != nil {
			return err
		}
		var emps []models.Employee
		if err := database.DB.
			Where("dept_id BETWEEN ? AND ?", models.DeptHQMin, models.DeptHQMax).
			Find(&emps).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list employees")
		}
		return c.JSON(emps)
	}
}
