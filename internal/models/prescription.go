package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Prescription review outcomes.
const (
	PrescriptionPending  = "pending-review"
	PrescriptionVerified = "verified"
	PrescriptionRejected = "rejected"
)

// Prescription groups the uploaded prescription images under review for
// an order.
type Prescription struct {
	BaseModel
	OrderID    uuid.UUID      `gorm:"type:uuid;index" json:"order_id"`
	CustomerID uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	ImageURLs  pq.StringArray `gorm:"type:text[]" json:"image_urls"`
	Status     string         `gorm:"default:pending-review" json:"status"`
}

// PrescriptionReview records a reviewer's decision on an order's
// prescription. Creating one mutates the owning order's
// prescription_verified column.
type PrescriptionReview struct {
	BaseModel
	OrderID        uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;index" json:"prescription_id"`
	ReviewerID     uuid.UUID `gorm:"type:uuid" json:"reviewer_id"`
	Outcome        string    `json:"outcome"`
	Notes          string    `json:"notes"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}
