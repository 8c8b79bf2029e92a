package board

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/notification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PostRequest struct {
	Type    models.BoardType `json:"type"`
	Title   string           `json:"title"`
	Content string           `json:"content"`
}

// notifyStoreSupport fans a board event out to every employee of the
// store-support desk. Delivery failures are logged, never surfaced: the
// post or comment itself is already saved.
func notifyStoreSupport(svc *notification.Service, eventType, content, link string) {
	var desk []models.Employee
	if err := database.DB.Where("dept_id = ?", models.DeptStoreSupport).Find(&desk).Error; err != nil {
		log.Printf("board: could not load store-support desk: %v", err)
		return
	}
	dept := models.DeptStoreSupport
	for _, emp := range desk {
		if _, err := svc.Create(emp.ID, &dept, eventType, "INFO", content, link); err != nil {
			log.Printf("board: notification to employee %d skipped: %v", emp.ID, err)
		}
	}
}

// GET /api/board/posts?type=&keyword=&page=&size=
func ListPostsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.BoardPost{})

		if t := c.Query("type"); t != "" {
			switch bt := models.BoardType(t); bt {
			case models.BoardNotice, models.BoardStoreInquiry:
				q = q.Where("type = ?", bt)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "unknown board type: "+t)
			}
		}
		if kw := c.Query("keyword"); kw != "" {
			q = q.Where("title ILIKE ? OR content ILIKE ?", "%"+kw+"%", "%"+kw+"%")
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count posts")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var posts []models.BoardPost
		if err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&posts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list posts")
		}

		return c.JSON(fiber.Map{
			"content": posts,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}

// GET /api/board/posts/:id
func GetPostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}

		var post models.BoardPost
		if err := database.DB.Preload("Comments").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "post not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load post")
		}
		return c.JSON(post)
	}
}

// POST /api/board/posts
// Notices are headquarters-only and notify the store-support desk so it
// can relay them to stores. Inquiries are filed by store owners against
// their own store.
func CreatePostHandler(svc *notification.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		var body PostRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Title) == "" || strings.TrimSpace(body.Content) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title and content are required")
		}

		post := models.BoardPost{
			Title:    body.Title,
			Content:  body.Content,
			AuthorID: claims.EmpID,
		}

		switch body.Type {
		case models.BoardNotice:
			if !claims.Role.IsHeadquarters() {
				return fiber.NewError(fiber.StatusForbidden, "only headquarters may post notices")
			}
			post.Type = models.BoardNotice
		case models.BoardStoreInquiry:
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "store inquiries need a store account")
			}
			post.Type = models.BoardStoreInquiry
			post.StoreID = claims.StoreID
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid board type")
		}

		if err := database.DB.Create(&post).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create post")
		}

		if post.Type == models.BoardNotice {
			notifyStoreSupport(svc, models.EventNotice,
				"New notice: "+post.Title, fmt.Sprintf("/board/posts/%d", post.ID))
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	}
}

type CommentRequest struct {
	Content string `json:"content"`
}

// POST /api/board/posts/:id/comments
// A headquarters reply on a store inquiry notifies the store-support desk
// so it can track the answer.
func CreateCommentHandler(svc *notification.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}

		var post models.BoardPost
		if err := database.DB.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "post not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load post")
		}

		// Store owners may only comment on their own inquiry.
		if !claims.Role.IsHeadquarters() && post.AuthorID != claims.EmpID {
			return fiber.NewError(fiber.StatusForbidden, "cannot comment on this post")
		}

		var body CommentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Content) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content is required")
		}

		comment := models.BoardComment{
			BoardPostID: post.ID,
			AuthorID:    claims.EmpID,
			Content:     body.Content,
		}
		if err := database.DB.Create(&comment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create comment")
		}

		if post.Type == models.BoardStoreInquiry && claims.Role.IsHeadquarters() {
			notifyStoreSupport(svc, models.EventStoreInquiryReply,
				"Inquiry answered: "+post.Title, fmt.Sprintf("/board/posts/%d", post.ID))
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}

// DELETE /api/board/posts/:id — author or headquarters.
func DeletePostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}

		var post models.BoardPost
		if err := database.DB.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "post not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load post")
		}
		if post.AuthorID != claims.EmpID && !claims.Role.IsHeadquarters() {
			return fiber.NewError(fiber.StatusForbidden, "cannot delete this post")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("board_post_id = ?", post.ID).Delete(&models.BoardComment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&post).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete post")
		}
		return c.JSON(fiber.Map{"message": "post deleted"})
	}
}
