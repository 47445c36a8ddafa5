package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/dawaa/internal/models"
)

func boolPtr(v bool) *bool { return &v }

func TestRequiresPrescription(t *testing.T) {
	withImages := &models.Order{Items: []models.OrderItem{
		{ProductName: "Augmentin"},
		{ProductName: "Tramadol", PrescriptionImages: []string{"https://cdn.example.com/rx/1.jpg"}},
	}}
	assert.True(t, RequiresPrescription(withImages))

	withoutImages := &models.Order{Items: []models.OrderItem{
		{ProductName: "Panadol"},
	}}
	assert.False(t, RequiresPrescription(withoutImages))

	assert.False(t, RequiresPrescription(&models.Order{}))
}

func TestCanAcceptOrderGate(t *testing.T) {
	gated := &models.Order{
		PrescriptionRequired: true,
		Items: []models.OrderItem{
			{PrescriptionImages: []string{"https://cdn.example.com/rx/1.jpg"}},
		},
	}

	// Not yet reviewed blocks.
	gated.PrescriptionVerified = nil
	assert.False(t, CanAcceptOrder(gated))

	// Rejected blocks too.
	gated.PrescriptionVerified = boolPtr(false)
	assert.False(t, CanAcceptOrder(gated))

	// Only a verified prescription passes.
	gated.PrescriptionVerified = boolPtr(true)
	assert.True(t, CanAcceptOrder(gated))
}

func TestCanAcceptOrderWithoutPrescription(t *testing.T) {
	order := &models.Order{Items: []models.OrderItem{{ProductName: "Panadol"}}}
	assert.True(t, CanAcceptOrder(order))
}

func TestCanAcceptOrderDerivedRequirement(t *testing.T) {
	// The flag may lag the items; the gate still holds when any item
	// carries a prescription reference.
	order := &models.Order{
		PrescriptionRequired: false,
		Items: []models.OrderItem{
			{PrescriptionImages: []string{"https://cdn.example.com/rx/2.jpg"}},
		},
	}
	assert.False(t, CanAcceptOrder(order))
}
