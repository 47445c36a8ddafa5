package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/broker"
	"github.com/example/dawaa/internal/models"
	"github.com/example/dawaa/internal/repository"
	"github.com/example/dawaa/internal/services"
	"github.com/example/dawaa/internal/utils"
	"github.com/example/dawaa/internal/workflow"
)

// OrderHandler manages order endpoints for customers and pharmacy
// operators.
type OrderHandler struct {
	db        *gorm.DB
	orders    *repository.OrderRepository
	engines   *workflow.Registry
	publisher *broker.Publisher
	telegram  *services.TelegramService
	log       *logrus.Entry
}

// NewOrderHandler constructs OrderHandler. publisher may be nil when
// the broker is not configured.
func NewOrderHandler(db *gorm.DB, orders *repository.OrderRepository, engines *workflow.Registry, publisher *broker.Publisher, telegram *services.TelegramService, log *logrus.Entry) *OrderHandler {
	return &OrderHandler{
		db:        db,
		orders:    orders,
		engines:   engines,
		publisher: publisher,
		telegram:  telegram,
		log:       log,
	}
}

type orderItemRequest struct {
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	Manufacturer       string   `json:"manufacturer"`
	Quantity           int      `json:"quantity"`
	UnitPrice          float64  `json:"unit_price"`
	PackagingType      string   `json:"packaging_type"`
	PricePerBlister    *float64 `json:"price_per_blister"`
	PricePerBox        *float64 `json:"price_per_box"`
	PrescriptionImages []string `json:"prescription_images"`
}

type createOrderRequest struct {
	PharmacyID  string             `json:"pharmacy_id"`
	Street      string             `json:"street"`
	City        string             `json:"city"`
	Governorate string             `json:"governorate"`
	Notes       string             `json:"notes"`
	Items       []orderItemRequest `json:"items"`
	TotalAmount float64            `json:"total_amount"`
}

// CreateOrder allows an authenticated customer to place an order with a
// pharmacy. Items carrying prescription images mark the order as
// prescription-gated and open a prescription record for review.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	pharmacyID, err := uuid.Parse(req.PharmacyID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pharmacy id")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order must contain at least one item")
	}

	order := models.Order{
		OrderNumber:         generateOrderNumber(),
		PharmacyID:          pharmacyID,
		CustomerID:          user.ID,
		CustomerName:        user.DisplayName,
		CustomerPhone:       user.Phone,
		Status:              string(workflow.StatusPending),
		DeliveryStreet:      req.Street,
		DeliveryCity:        req.City,
		DeliveryGovernorate: req.Governorate,
		DeliveryNotes:       req.Notes,
		PlacedAt:            time.Now(),
	}

	var subtotal float64
	var prescriptionImages []string
	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		line := models.OrderItem{
			ProductName:        item.ProductName,
			Manufacturer:       item.Manufacturer,
			Quantity:           quantity,
			UnitPrice:          item.UnitPrice,
			PackagingType:      item.PackagingType,
			PricePerBlister:    item.PricePerBlister,
			PricePerBox:        item.PricePerBox,
			LineTotal:          item.UnitPrice * float64(quantity),
			PrescriptionImages: item.PrescriptionImages,
		}

		if item.ProductID != "" {
			if id, err := uuid.Parse(item.ProductID); err == nil {
				line.ProductID = &id
			}
		}

		subtotal += line.LineTotal
		prescriptionImages = append(prescriptionImages, item.PrescriptionImages...)
		order.Items = append(order.Items, line)
	}

	order.PrescriptionRequired = len(prescriptionImages) > 0
	order.TotalAmount = req.TotalAmount
	if order.TotalAmount == 0 {
		order.TotalAmount = subtotal
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if !order.PrescriptionRequired {
			return nil
		}

		prescription := models.Prescription{
			OrderID:    order.ID,
			CustomerID: user.ID,
			ImageURLs:  prescriptionImages,
			Status:     models.PrescriptionPending,
		}
		if err := tx.Create(&prescription).Error; err != nil {
			return err
		}

		order.PrescriptionID = &prescription.ID
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("prescription_id", prescription.ID).Error
	})
	if err != nil {
		return err
	}

	h.publishOrderEvent(c, order.ID, pharmacyID, workflow.StatusPending)
	go h.notifyNewOrder(order, req)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                    order.ID,
			"order_number":          order.OrderNumber,
			"status":                order.Status,
			"prescription_required": order.PrescriptionRequired,
			"placed_at":             order.PlacedAt,
			"total":                 order.TotalAmount,
		},
	})
}

// ListPharmacyOrders returns the operator's work queue: a fresh
// snapshot filtered by the optional search query, excluding delivered
// and return-requested orders unless all=true.
func (h *OrderHandler) ListPharmacyOrders(c *fiber.Ctx) error {
	pharmacyID, err := currentPharmacyID(c, h.db)
	if err != nil {
		return err
	}

	engine, err := h.engines.Engine(c.UserContext(), pharmacyID)
	if err != nil {
		return err
	}
	if err := engine.Reload(c.UserContext()); err != nil {
		return err
	}

	query := c.Query("search")
	all := c.Query("all") == "true"

	var orders []models.Order
	switch {
	case query != "" && all:
		orders = engine.Search(query)
	case query != "":
		orders = engine.SearchActive(query)
	case all:
		orders = engine.Orders()
	default:
		orders = engine.ActiveOrders()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    decorateOrders(orders),
	})
}

// GetPharmacyOrder returns one order with its transition hints.
func (h *OrderHandler) GetPharmacyOrder(c *fiber.Ctx) error {
	pharmacyID, err := currentPharmacyID(c, h.db)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Get(c.UserContext(), orderID)
	if err != nil {
		return h.mapWorkflowError(err)
	}
	if order.PharmacyID != pharmacyID {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    decorateOrder(*order),
	})
}

// AcceptOrder confirms a pending order after the prescription gate
// passes. The gate is evaluated locally; a violation never reaches the
// store and is reported with the specific prescription message.
func (h *OrderHandler) AcceptOrder(c *fiber.Ctx) error {
	pharmacyID, err := currentPharmacyID(c, h.db)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	engine, err := h.engines.Engine(c.UserContext(), pharmacyID)
	if err != nil {
		return err
	}

	if err := engine.AcceptOrder(c.UserContext(), orderID); err != nil {
		return h.mapWorkflowError(err)
	}

	h.publishOrderEvent(c, orderID, pharmacyID, workflow.StatusConfirmed)

	return c.JSON(fiber.Map{"success": true})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus issues a forward transition. Reachability is
// validated by the store.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	pharmacyID, err := currentPharmacyID(c, h.db)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	engine, err := h.engines.Engine(c.UserContext(), pharmacyID)
	if err != nil {
		return err
	}

	newStatus := workflow.Status(req.Status)
	if err := engine.UpdateOrderStatus(c.UserContext(), orderID, newStatus); err != nil {
		return h.mapWorkflowError(err)
	}

	h.publishOrderEvent(c, orderID, pharmacyID, newStatus)

	return c.JSON(fiber.Map{"success": true})
}

type reviewRequest struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes"`
}

// ReviewPrescription records a reviewer's verified/rejected decision
// for the order's prescription and updates the order's gate flag.
func (h *OrderHandler) ReviewPrescription(c *fiber.Ctx) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.orders.RecordPrescriptionDecision(c.UserContext(), orderID, user.ID, req.Outcome, req.Notes); err != nil {
		if errors.Is(err, repository.ErrReviewOutcome) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return h.mapWorkflowError(err)
	}

	order, err := h.orders.Get(c.UserContext(), orderID)
	if err == nil {
		h.publishOrderEvent(c, orderID, order.PharmacyID, workflow.Status(order.Status))
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListOrders returns orders for the authenticated customer.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("customer_id = ?", user.ID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

func (h *OrderHandler) mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrPrescriptionNotVerified):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, workflow.ErrCannotAccept),
		errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, repository.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	default:
		return err
	}
}

func (h *OrderHandler) publishOrderEvent(c *fiber.Ctx, orderID, pharmacyID uuid.UUID, status workflow.Status) {
	if h.publisher == nil {
		return
	}
	event := workflow.OrderEvent{OrderID: orderID, PharmacyID: pharmacyID, Status: status}
	if err := h.publisher.PublishOrderEvent(c.UserContext(), event); err != nil {
		h.log.WithError(err).WithField("order_id", orderID).Warn("order event publish failed")
	}
}

func (h *OrderHandler) notifyNewOrder(order models.Order, req createOrderRequest) {
	if h.telegram == nil {
		return
	}

	var pharmacy models.Pharmacy
	pharmacyName := ""
	if err := h.db.First(&pharmacy, "id = ?", order.PharmacyID).Error; err == nil {
		pharmacyName = pharmacy.Name
	}

	items := make([]services.OrderItemNotification, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemNotification{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	notification := services.OrderNotification{
		OrderNumber:          order.OrderNumber,
		PharmacyName:         pharmacyName,
		CustomerName:         order.CustomerName,
		CustomerPhone:        order.CustomerPhone,
		Items:                items,
		TotalAmount:          order.TotalAmount,
		PrescriptionRequired: order.PrescriptionRequired,
	}

	if err := h.telegram.NotifyNewOrder(notification); err != nil {
		h.log.WithError(err).Warn("telegram notification failed")
	}
}

type decoratedOrder struct {
	models.Order
	StatusLabel string `json:"status_label"`
	NextStatus  string `json:"next_status,omitempty"`
	CanAccept   bool   `json:"can_accept"`
}

func decorateOrder(order models.Order) decoratedOrder {
	out := decoratedOrder{
		Order:       order,
		StatusLabel: workflow.StatusLabel(workflow.Status(order.Status)),
		CanAccept:   workflow.CanAcceptOrder(&order),
	}
	if next, ok := workflow.NextStatus(workflow.Status(order.Status)); ok {
		out.NextStatus = string(next)
	}
	return out
}

func decorateOrders(orders []models.Order) []decoratedOrder {
	out := make([]decoratedOrder, 0, len(orders))
	for _, order := range orders {
		out = append(out, decorateOrder(order))
	}
	return out
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%09d", time.Now().UnixNano()%1000000000)
}
