package models

import (
	"github.com/google/uuid"
)

// Platform roles. A user carries exactly one role; pharmacy operators,
// prescription readers and data-entry operators additionally reference
// the pharmacy they work for.
const (
	RoleCustomer           = "customer"
	RolePharmacy           = "pharmacy"
	RoleDoctor             = "doctor"
	RoleVendor             = "vendor"
	RoleAdmin              = "admin"
	RolePrescriptionReader = "prescription-reader"
	RoleDataEntry          = "database-input"
)

// User represents an authenticated account of any role.
type User struct {
	BaseModel
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `gorm:"uniqueIndex" json:"phone"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	Role         string     `gorm:"index;default:customer" json:"role"`
	PharmacyID   *uuid.UUID `gorm:"type:uuid" json:"pharmacy_id"`
	Pharmacy     *Pharmacy  `json:"pharmacy,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	Orders       []Order    `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}
