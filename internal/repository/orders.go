package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/models"
	"github.com/example/dawaa/internal/workflow"
)

var (
	// ErrInvalidTransition is returned when a requested status is not
	// reachable from the order's current status. The store is the
	// authority on reachability; callers do not pre-validate.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrReviewOutcome = errors.New("review outcome must be verified or rejected")
)

// reachable maps each status to the statuses a transition command may
// move it to. The returns branch is included because the returns
// subsystem drives its moves through the same store.
var reachable = map[workflow.Status][]workflow.Status{
	workflow.StatusPending:         {workflow.StatusConfirmed, workflow.StatusCancelled},
	workflow.StatusConfirmed:       {workflow.StatusPreparing, workflow.StatusCancelled},
	workflow.StatusPreparing:       {workflow.StatusReady, workflow.StatusCancelled},
	workflow.StatusReady:           {workflow.StatusOutForDelivery, workflow.StatusCancelled},
	workflow.StatusOutForDelivery:  {workflow.StatusDelivered, workflow.StatusCancelled},
	workflow.StatusDelivered:       {workflow.StatusReturnRequested},
	workflow.StatusReturnRequested: {workflow.StatusApproved, workflow.StatusRejected},
	workflow.StatusApproved:        {workflow.StatusRefunded},
}

// OrderRepository implements workflow.OrderStore over gorm.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository constructs an OrderRepository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListByPharmacy returns the pharmacy's orders, newest first.
func (r *OrderRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("pharmacy_id = ?", pharmacyID).
		Order("placed_at desc").
		Find(&orders).Error
	return orders, err
}

// Get returns a single order with its items.
func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order to status after checking reachability
// from its current state.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status workflow.Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return workflow.ErrOrderNotFound
			}
			return err
		}

		if !transitionAllowed(workflow.Status(order.Status), status) {
			return ErrInvalidTransition
		}

		return tx.Model(&order).Update("status", string(status)).Error
	})
}

func transitionAllowed(from, to workflow.Status) bool {
	for _, allowed := range reachable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RecordPrescriptionDecision persists a reviewer's decision and mutates
// the owning order's prescription_verified column in one transaction.
func (r *OrderRepository) RecordPrescriptionDecision(ctx context.Context, orderID, reviewerID uuid.UUID, outcome, notes string) error {
	if outcome != models.PrescriptionVerified && outcome != models.PrescriptionRejected {
		return ErrReviewOutcome
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return workflow.ErrOrderNotFound
			}
			return err
		}

		if order.PrescriptionID == nil {
			return errors.New("order has no prescription under review")
		}

		review := models.PrescriptionReview{
			OrderID:        orderID,
			PrescriptionID: *order.PrescriptionID,
			ReviewerID:     reviewerID,
			Outcome:        outcome,
			Notes:          notes,
			ReviewedAt:     time.Now(),
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		verified := outcome == models.PrescriptionVerified
		if err := tx.Model(&order).Update("prescription_verified", verified).Error; err != nil {
			return err
		}

		return tx.Model(&models.Prescription{}).
			Where("id = ?", *order.PrescriptionID).
			Update("status", outcome).Error
	})
}
