package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/models"
)

// CatalogHandler serves taxonomy and delivery-region lookups plus the
// minimal admin writes they need.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListCategories returns all product categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// CreateCategory adds a category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if category.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// ListGovernorates returns delivery regions with their cities.
func (h *CatalogHandler) ListGovernorates(c *fiber.Ctx) error {
	var governorates []models.Governorate
	if err := h.db.Preload("Cities").Order("name asc").Find(&governorates).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": governorates})
}

// CreateGovernorate adds a governorate.
func (h *CatalogHandler) CreateGovernorate(c *fiber.Ctx) error {
	var governorate models.Governorate
	if err := c.BodyParser(&governorate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if governorate.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if err := h.db.Create(&governorate).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": governorate})
}

// CreateCity adds a city under a governorate.
func (h *CatalogHandler) CreateCity(c *fiber.Ctx) error {
	governorateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid governorate id")
	}

	var city models.City
	if err := c.BodyParser(&city); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if city.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	city.GovernorateID = governorateID

	if err := h.db.Create(&city).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": city})
}

// ListPharmacies returns active pharmacies for checkout.
func (h *CatalogHandler) ListPharmacies(c *fiber.Ctx) error {
	var pharmacies []models.Pharmacy
	if err := h.db.Where("is_active = ?", true).Order("name asc").Find(&pharmacies).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": pharmacies})
}

// CreatePharmacy registers a pharmacy.
func (h *CatalogHandler) CreatePharmacy(c *fiber.Ctx) error {
	var pharmacy models.Pharmacy
	if err := c.BodyParser(&pharmacy); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if pharmacy.Name == "" || pharmacy.LicenseNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and license_number are required")
	}
	pharmacy.IsActive = true

	if err := h.db.Create(&pharmacy).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": pharmacy})
}
