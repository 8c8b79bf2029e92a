package models

import "time"

type EmployeeRole string

const (
	RoleMaster EmployeeRole = "MASTER" // headquarters master account
	RoleHQ     EmployeeRole = "HQ"     // headquarters staff
	RoleStore  EmployeeRole = "STORE"  // store owner
)

// Headquarters departments occupy ids 4..10. Department 3 is the
// store-support desk which additionally receives notice events.
const (
	DeptStoreSupport = 3
	DeptHQMin        = 4
	DeptHQMax        = 10
)

// IsHeadquarters reports whether the role may see data across all stores.
func (r EmployeeRole) IsHeadquarters() bool {
	return r == RoleMaster || r == RoleHQ
}

// CanActForStore reports whether a caller with this role and home store may
// act on the target store. Headquarters roles act anywhere, store owners
// only on their own store.
func (r EmployeeRole) CanActForStore(ownStoreID *uint, target uint) bool {
	if r.IsHeadquarters() {
		return true
	}
	return ownStoreID != nil && *ownStoreID == target
}

type Employee struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	StoreID      *uint        `json:"store_id"`
	Store        *Store       `json:"-"`
	DeptID       int          `gorm:"index" json:"dept_id"`
	Name         string       `gorm:"size:100;not null" json:"name"`
	Email        string       `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Role         EmployeeRole `gorm:"size:20;not null" json:"role"`
	Phone        string       `gorm:"size:50" json:"phone"`
	ImgURL       string       `gorm:"size:500" json:"img_url"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsHQStaff reports whether the employee belongs to a headquarters
// department and may use chat and receive ordinary notifications.
func (e *Employee) IsHQStaff() bool {
	return e.DeptID >= DeptHQMin && e.DeptID <= DeptHQMax
}
