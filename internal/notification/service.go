package notification

import (
	"fmt"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/chat"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
)

// Service persists notifications and pushes them over the hub. Delivery is
// fire-and-forget; the stored row is the source of truth.
type Service struct {
	hub *chat.Hub
}

func NewService(hub *chat.Hub) *Service {
	return &Service{hub: hub}
}

// Create stores a notification for an employee and fans it out to the
// employee's channel and, when set, the target department channel.
//
// Department policy follows headquarters rules: NOTICE and
// STORE_INQUIRY_REPLY events may reach the store-support desk (dept 3),
// every other event is restricted to headquarters departments.
func (s *Service) Create(empID uint, targetDeptID *int, eventType, notifType, content, link string) (*models.Notification, error) {
	var emp models.Employee
	if err := database.DB.First(&emp, empID).Error; err != nil {
		return nil, fmt.Errorf("notification target %d: employee not found", empID)
	}

	minDept := models.DeptHQMin
	if eventType == models.EventNotice || eventType == models.EventStoreInquiryReply {
		minDept = models.DeptStoreSupport
	}
	if emp.DeptID < minDept || emp.DeptID > models.DeptHQMax {
		return nil, fmt.Errorf("employee %d (dept %d) cannot receive %s notifications", empID, emp.DeptID, eventType)
	}

	n := models.Notification{
		EmployeeID:   empID,
		TargetDeptID: targetDeptID,
		EventType:    eventType,
		Type:         notifType,
		Content:      content,
		Link:         link,
	}
	if err := database.DB.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}

	s.hub.Publish(chat.UserTopic(empID), "notification", n)
	if targetDeptID != nil {
		s.hub.Publish(chat.DeptTopic(*targetDeptID), "notification", n)
	}
	return &n, nil
}
