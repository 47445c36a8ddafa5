package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/config"
	"github.com/example/dawaa/internal/models"
	"github.com/example/dawaa/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

var allowedRoles = map[string]bool{
	models.RoleCustomer:           true,
	models.RolePharmacy:           true,
	models.RoleDoctor:             true,
	models.RoleVendor:             true,
	models.RoleAdmin:              true,
	models.RolePrescriptionReader: true,
	models.RoleDataEntry:          true,
}

type registerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	PharmacyID string `json:"pharmacy_id"`
}

// Register creates a new account. Pharmacy-side roles must reference an
// existing pharmacy.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" || req.Password == "" || req.FirstName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !allowedRoles[role] {
		return fiber.NewError(fiber.StatusBadRequest, "unknown role")
	}

	var existing models.User
	if err := h.db.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		DisplayName:  fmt.Sprintf("%s %s", req.FirstName, req.LastName),
		PasswordHash: passwordHash,
		Role:         role,
	}

	pharmacyRole := role == models.RolePharmacy || role == models.RolePrescriptionReader || role == models.RoleDataEntry
	if pharmacyRole {
		pharmacyID, err := uuid.Parse(req.PharmacyID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "pharmacy_id required for this role")
		}
		var pharmacy models.Pharmacy
		if err := h.db.First(&pharmacy, "id = ?", pharmacyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusBadRequest, "pharmacy not found")
			}
			return err
		}
		user.PharmacyID = &pharmacy.ID
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    publicUser(&user),
		"token":   token,
	})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login authenticates an existing user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    publicUser(&user),
		"token":   token,
	})
}

// Me resolves the authenticated account, including the backing pharmacy
// for pharmacy-side roles.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	if user.PharmacyID != nil {
		var pharmacy models.Pharmacy
		if err := h.db.First(&pharmacy, "id = ?", *user.PharmacyID).Error; err == nil {
			user.Pharmacy = &pharmacy
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    publicUser(user),
	})
}

func publicUser(user *models.User) fiber.Map {
	out := fiber.Map{
		"id":           user.ID,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"phone":        user.Phone,
		"display_name": user.DisplayName,
		"role":         user.Role,
	}
	if user.PharmacyID != nil {
		out["pharmacy_id"] = *user.PharmacyID
	}
	if user.Pharmacy != nil {
		out["pharmacy"] = user.Pharmacy
	}
	return out
}
