package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Order is a customer order routed to a single pharmacy. Status values
// are owned by the workflow package; the column stores them verbatim.
type Order struct {
	BaseModel
	OrderNumber   string    `gorm:"uniqueIndex" json:"order_number"`
	PharmacyID    uuid.UUID `gorm:"type:uuid;index" json:"pharmacy_id"`
	Pharmacy      *Pharmacy `json:"pharmacy,omitempty"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Status        string    `gorm:"index" json:"status"`

	// PrescriptionVerified is tri-state: nil means the prescription has
	// not been reviewed yet, true verified, false rejected.
	PrescriptionRequired bool       `json:"prescription_required"`
	PrescriptionVerified *bool      `json:"prescription_verified"`
	PrescriptionID       *uuid.UUID `gorm:"type:uuid" json:"prescription_id"`

	DeliveryStreet      string `json:"delivery_street"`
	DeliveryCity        string `json:"delivery_city"`
	DeliveryGovernorate string `json:"delivery_governorate"`
	DeliveryNotes       string `json:"delivery_notes"`

	TotalAmount float64     `json:"total_amount"`
	PlacedAt    time.Time   `json:"placed_at"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem is a single line of an order. PrescriptionImages holds the
// uploaded prescription file references attached to this line, if any.
type OrderItem struct {
	BaseModel
	OrderID            uuid.UUID      `gorm:"type:uuid;index" json:"order_id"`
	ProductID          *uuid.UUID     `gorm:"type:uuid" json:"product_id"`
	ProductName        string         `json:"product_name"`
	Manufacturer       string         `json:"manufacturer"`
	Quantity           int            `json:"quantity"`
	UnitPrice          float64        `json:"unit_price"`
	PackagingType      string         `json:"packaging_type"`
	PricePerBlister    *float64       `json:"price_per_blister"`
	PricePerBox        *float64       `json:"price_per_box"`
	LineTotal          float64        `json:"line_total"`
	PrescriptionImages pq.StringArray `gorm:"type:text[]" json:"prescription_images"`
}
