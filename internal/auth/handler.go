package auth

import (
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/config"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterMasterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-master
// Bootstrap endpoint: only usable while no MASTER account exists.
func RegisterMasterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterMasterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name, email and password are required")
		}

		var count int64
		database.DB.Model(&models.Employee{}).
			Where("role = ?", models.RoleMaster).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "a master account already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		emp := models.Employee{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleMaster,
			DeptID:       models.DeptHQMax,
		}

		if err := database.DB.Create(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create employee")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    emp.ID,
			"email": emp.Email,
			"role":  emp.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var emp models.Employee
		if err := database.DB.Where("email = ?", body.Email).First(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &emp)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"employee": fiber.Map{
				"id":       emp.ID,
				"name":     emp.Name,
				"email":    emp.Email,
				"role":     emp.Role,
				"dept_id":  emp.DeptID,
				"store_id": emp.StoreID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := Claims(c)
		if err != nil {
			return err
		}

		var emp models.Employee
		if err := database.DB.First(&emp, claims.EmpID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "employee not found")
		}

		return c.JSON(fiber.Map{
			"emp_id":   emp.ID,
			"name":     emp.Name,
			"email":    emp.Email,
			"role":     emp.Role,
			"dept_id":  emp.DeptID,
			"store_id": emp.StoreID,
			"img_url":  emp.ImgURL,
		})
	}
}
