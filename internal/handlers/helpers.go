package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/middleware"
	"github.com/example/dawaa/internal/models"
)

// currentUser loads the authenticated user record.
func currentUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return nil, err
	}
	return &user, nil
}

// currentPharmacyID resolves the pharmacy backing the authenticated
// operator. Pharmacy, prescription-reader and database-input accounts
// carry a pharmacy reference.
func currentPharmacyID(c *fiber.Ctx, db *gorm.DB) (uuid.UUID, error) {
	user, err := currentUser(c, db)
	if err != nil {
		return uuid.Nil, err
	}

	if user.PharmacyID == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "account is not linked to a pharmacy")
	}
	return *user.PharmacyID, nil
}
