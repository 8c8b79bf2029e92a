package hr

import (
	"errors"
	"log"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/storage"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type EmployeeRequest struct {
	StoreID  *uint               `json:"store_id"`
	DeptID   int                 `json:"dept_id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
	Role     models.EmployeeRole `json:"role"`
	Phone    string              `json:"phone"`
}

func validRole(r models.EmployeeRole) bool {
	return r == models.RoleMaster || r == models.RoleHQ || r == models.RoleStore
}

// GET /api/hr/employees?keyword=&dept_id=&store_id=&page=&size=
// Store owners only see their own store's employees.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Employee{})

		if !claims.Role.IsHeadquarters() {
			if claims.StoreID == nil {
				return fiber.NewError(fiber.StatusForbidden, "no store assigned to this account")
			}
			q = q.Where("store_id = ?", *claims.StoreID)
		} else if sid := c.QueryInt("store_id"); sid > 0 {
			q = q.Where("store_id = ?", sid)
		}

		if kw := c.Query("keyword"); kw != "" {
			q = q.Where("name ILIKE ? OR email ILIKE ?", "%"+kw+"%", "%"+kw+"%")
		}
		if dept := c.QueryInt("dept_id"); dept > 0 {
			q = q.Where("dept_id = ?", dept)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count employees")
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		size := c.QueryInt("size", 20)
		if size < 1 || size > 200 {
			size = 20
		}

		var employees []models.Employee
		if err := q.Order("id").Offset((page - 1) * size).Limit(size).Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list employees")
		}

		return c.JSON(fiber.Map{
			"content": employees,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	}
}

// GET /api/hr/employees/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "employee not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load employee")
		}

		if !claims.Role.IsHeadquarters() && claims.EmpID != employee.ID {
			if employee.StoreID == nil || claims.StoreID == nil || *employee.StoreID != *claims.StoreID {
				return fiber.NewError(fiber.StatusForbidden, "employee belongs to another store")
			}
		}
		return c.JSON(employee)
	}
}

// POST /api/hr/employees (headquarters only)
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Email) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and email are required")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid role")
		}
		if body.Role == models.RoleStore && body.StoreID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "store accounts need a store_id")
		}

		var count int64
		database.DB.Model(&models.Employee{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		employee := models.Employee{
			StoreID:      body.StoreID,
			DeptID:       body.DeptID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			Phone:        body.Phone,
		}
		if err := database.DB.Create(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create employee")
		}
		return c.Status(fiber.StatusCreated).JSON(employee)
	}
}

// PUT /api/hr/employees/:id (headquarters only)
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "employee not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load employee")
		}

		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != "" {
			employee.Name = body.Name
		}
		if body.Email != "" && body.Email != employee.Email {
			var count int64
			database.DB.Model(&models.Employee{}).
				Where("email = ? AND id <> ?", body.Email, employee.ID).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "email already registered")
			}
			employee.Email = body.Email
		}
		if body.Role != "" {
			if !validRole(body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "invalid role")
			}
			employee.Role = body.Role
		}
		if body.DeptID > 0 {
			employee.DeptID = body.DeptID
		}
		if body.StoreID != nil {
			employee.StoreID = body.StoreID
		}
		if body.Phone != "" {
			employee.Phone = body.Phone
		}
		if body.Password != "" {
			if len(body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
			}
			employee.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update employee")
		}
		return c.JSON(employee)
	}
}

// DELETE /api/hr/employees/:id (headquarters only)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}
		if claims.EmpID == uint(id) {
			return fiber.NewError(fiber.StatusBadRequest, "cannot delete your own account")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "employee not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load employee")
		}
		if employee.Role == models.RoleMaster {
			return fiber.NewError(fiber.StatusForbidden, "master accounts cannot be deleted")
		}

		if err := database.DB.Delete(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete employee")
		}
		return c.JSON(fiber.Map{"message": "employee deleted"})
	}
}

// POST /api/hr/employees/:id/image (multipart field "image")
// Employees may change their own photo, headquarters anyone's.
func UploadImageHandler(store *storage.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Claims(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}
		if !claims.Role.IsHeadquarters() && claims.EmpID != uint(id) {
			return fiber.NewError(fiber.StatusForbidden, "cannot change another employee's photo")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "employee not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load employee")
		}

		file, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image file is required")
		}
		src, err := file.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read image file")
		}
		defer src.Close()

		key, err := store.UploadImage(c.Context(), src, file.Size, file.Header.Get("Content-Type"), "employees", file.Filename)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not upload image")
		}

		if employee.ImgURL != "" {
			if err := store.Delete(c.Context(), employee.ImgURL); err != nil {
				log.Printf("hr: could not delete old photo %s: %v", employee.ImgURL, err)
			}
		}

		url, err := store.PresignedURL(c.Context(), key)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not presign image")
		}

		employee.ImgURL = key
		if err := database.DB.Save(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not save image key")
		}
		return c.JSON(fiber.Map{"key": key, "url": url})
	}
}
